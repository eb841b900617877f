package lumina

import "math"

// Orbit circles a dot per note around the centre. Lower pitches orbit closer
// and slower.
type Orbit struct {
	s   Surface
	cfg *Config
}

// NewOrbit creates an Orbit luminode drawing onto s.
func NewOrbit(s Surface, cfg *Config) *Orbit {
	return &Orbit{s: s, cfg: cfg}
}

// Name returns "orbit".
func (l *Orbit) Name() string { return "orbit" }

// Params declares dot size, angular speed and orbit ring opacity.
func (l *Orbit) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("dotSize", 1, 40, 0.5, 6),
		numberParam("speed", 0, 6, 0.05, 1),
		numberParam("ringAlpha", 0, 1, 0.01, 0.12),
	}
}

// Draw places one dot per note on its orbit.
func (l *Orbit) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := l.s.Size()
	cx, cy := w/2, h/2
	m := minDim(l.s)
	for _, n := range notes {
		pos, r := orbitPosition(n, t, cx, cy, m, p.Float("speed"))
		c := PitchColor(n.Pitch, n.Velocity)

		l.s.BeginPath()
		l.s.Arc(cx, cy, r, 0, 2*math.Pi)
		l.s.Stroke(c.WithAlpha(p.Float("ringAlpha")), 1)

		l.s.BeginPath()
		l.s.Arc(pos.X, pos.Y, p.Float("dotSize")*(0.5+n.Velocity), 0, 2*math.Pi)
		l.s.ClosePath()
		l.s.Fill(c)
	}
}

// orbitPosition returns the dot position of n and its orbit radius. The
// radius cycles every two octaves.
func orbitPosition(n Note, t, cx, cy, m, speed float64) (Vec2, float64) {
	r := m * (0.1 + 0.35*float64(n.Pitch%24)/24)
	angle := n.Age(t)*speed*(0.5+3*float64(n.Pitch)/127) + float64(n.Pitch)
	sin, cos := math.Sincos(angle)
	return Vec2{cx + r*cos, cy + r*sin}, r
}
