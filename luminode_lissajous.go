package lumina

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Lissajous traces a Lissajous figure whose frequency ratio comes from the
// two lowest sounding pitches. The figure's size follows the loudest note
// through a spring so it swells and settles instead of jumping.
type Lissajous struct {
	s   Surface
	cfg *Config

	spring      harmonica.Spring
	size, sizeV float64
}

// NewLissajous creates a Lissajous luminode. Its size is spring-smoothed.
func NewLissajous(s Surface, cfg *Config) *Lissajous {
	return &Lissajous{
		s:      s,
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.6),
	}
}

// Name returns "lissajous".
func (l *Lissajous) Name() string { return "lissajous" }

// Params declares curve resolution, phase drift speed, line width and glow.
func (l *Lissajous) Params() []ParamSpec {
	return []ParamSpec{
		intParam("resolution", 32, 1024, 240),
		numberParam("drift", 0, 4, 0.05, 0.6),
		numberParam("lineWidth", 0.5, 8, 0.5, 1.5),
		checkboxParam("glow", true),
	}
}

// Draw advances the size spring toward the loudest velocity and traces the
// figure for the two lowest pitches.
func (l *Lissajous) Draw(t float64, notes []Note, p *Params) {
	target := 0.0
	for _, n := range notes {
		target = math.Max(target, n.Velocity)
	}
	l.size, l.sizeV = l.spring.Update(l.size, l.sizeV, target)
	if len(notes) == 0 {
		return
	}

	a, b := lissajousRatio(notes)
	w, h := l.s.Size()
	amp := minDim(l.s) * 0.45 * clamp01(l.size)
	pts := lissajousPoints(w/2, h/2, amp, amp, a, b, t*p.Float("drift"), p.Int("resolution"))

	lowest := sortedByPitch(notes)[0]
	c := PitchColor(lowest.Pitch, lowest.Velocity)

	l.s.Save()
	if p.Bool("glow") {
		l.s.SetGlow(float64(l.cfg.GlowRadius), c)
	}
	l.s.BeginPath()
	l.s.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		l.s.LineTo(pt.X, pt.Y)
	}
	l.s.Stroke(c, p.Float("lineWidth"))
	l.s.Restore()
}

// lissajousRatio maps the two lowest pitches to small integer frequencies.
// A single note pairs with the next integer.
func lissajousRatio(notes []Note) (float64, float64) {
	sorted := sortedByPitch(notes)
	a := float64(sorted[0].Pitch%7 + 1)
	if len(sorted) < 2 {
		return a, a + 1
	}
	b := float64(sorted[1].Pitch%7 + 1)
	return a, b
}

// lissajousPoints samples x = cx + ax·sin(a·u + phase), y = cy + ay·sin(b·u)
// for u over one full period.
func lissajousPoints(cx, cy, ax, ay, a, b, phase float64, n int) []Vec2 {
	n = max(n, 2)
	pts := make([]Vec2, n+1)
	for i := range pts {
		u := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vec2{cx + ax*math.Sin(a*u+phase), cy + ay*math.Sin(b*u)}
	}
	return pts
}
