package lumina

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Pulse draws concentric rings whose radius springs toward a target set by
// the number and loudness of sounding notes.
type Pulse struct {
	s   Surface
	cfg *Config

	spring        harmonica.Spring
	radius, speed float64
}

// NewPulse creates a Pulse luminode with its radius spring at rest.
func NewPulse(s Surface, cfg *Config) *Pulse {
	return &Pulse{
		s:      s,
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.35),
	}
}

// Name returns "pulse".
func (l *Pulse) Name() string { return "pulse" }

// Params declares ring count, ring spread and line width.
func (l *Pulse) Params() []ParamSpec {
	return []ParamSpec{
		intParam("rings", 1, 12, 3),
		numberParam("spread", 0.05, 1, 0.01, 0.35),
		numberParam("lineWidth", 0.5, 12, 0.5, 3),
	}
}

// Draw advances the radius spring one step and strokes the rings.
func (l *Pulse) Draw(t float64, notes []Note, p *Params) {
	l.radius, l.speed = l.spring.Update(l.radius, l.speed, pulseTarget(notes))
	if len(notes) == 0 {
		return
	}
	w, h := l.s.Size()
	m := minDim(l.s)
	base := math.Max(0, l.radius) * m
	c := PitchColor(sortedByPitch(notes)[len(notes)-1].Pitch, 1)

	rings := p.Int("rings")
	for i := 0; i < rings; i++ {
		r := base * (1 + float64(i)*p.Float("spread"))
		l.s.BeginPath()
		l.s.Arc(w/2, h/2, r, 0, 2*math.Pi)
		l.s.ClosePath()
		l.s.Stroke(c.WithAlpha(1-float64(i)/float64(rings)), p.Float("lineWidth"))
	}
}

// pulseTarget returns the resting ring radius as a fraction of the short
// side: it grows with note count and mean velocity, capped at 0.45.
func pulseTarget(notes []Note) float64 {
	if len(notes) == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range notes {
		sum += n.Velocity
	}
	mean := sum / float64(len(notes))
	return math.Min(0.45, 0.1+0.03*float64(len(notes))+0.2*mean)
}
