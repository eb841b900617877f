package lumina

import "math"

// Constellation plots each note as a star on a pitch-class wheel, octave as
// distance from the centre, and joins the stars in pitch order.
type Constellation struct {
	s   Surface
	cfg *Config
}

// NewConstellation creates a Constellation luminode drawing onto s.
func NewConstellation(s Surface, cfg *Config) *Constellation {
	return &Constellation{s: s, cfg: cfg}
}

// Name returns "constellation".
func (l *Constellation) Name() string { return "constellation" }

// Params declares star size, connecting-line opacity and twinkle depth.
func (l *Constellation) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("starSize", 1, 20, 0.5, 4),
		numberParam("lineAlpha", 0, 1, 0.01, 0.5),
		numberParam("twinkle", 0, 1, 0.01, 0.3),
	}
}

// Draw plots a star per note and joins neighbouring stars in pitch order.
func (l *Constellation) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := l.s.Size()
	m := minDim(l.s)
	sorted := sortedByPitch(notes)
	stars := make([]Vec2, len(sorted))
	for i, n := range sorted {
		stars[i] = starPosition(n.Pitch, w/2, h/2, m)
	}

	if len(stars) > 1 {
		l.s.BeginPath()
		l.s.MoveTo(stars[0].X, stars[0].Y)
		for _, st := range stars[1:] {
			l.s.LineTo(st.X, st.Y)
		}
		if len(stars) > 2 {
			l.s.ClosePath()
		}
		l.s.Stroke(ColorWhite.WithAlpha(p.Float("lineAlpha")), 1)
	}

	l.s.Save()
	for i, n := range sorted {
		c := PitchColor(n.Pitch, n.Velocity)
		twinkle := 1 - p.Float("twinkle")*(0.5+0.5*math.Sin(t*5+float64(n.Pitch)))
		l.s.SetGlow(float64(l.cfg.GlowRadius), c)
		l.s.BeginPath()
		l.s.Arc(stars[i].X, stars[i].Y, p.Float("starSize")*(0.5+n.Velocity), 0, 2*math.Pi)
		l.s.ClosePath()
		l.s.Fill(c.WithAlpha(twinkle))
	}
	l.s.Restore()
}

// starPosition places a pitch on a wheel: the pitch class picks the angle
// (C at the top, clockwise) and the octave the distance from the centre.
func starPosition(pitch int, cx, cy, m float64) Vec2 {
	angle := float64(pitch%12)*math.Pi/6 - math.Pi/2
	r := m * (0.08 + 0.37*float64(pitch/12)/10)
	sin, cos := math.Sincos(angle)
	return Vec2{cx + r*cos, cy + r*sin}
}
