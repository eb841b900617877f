package lumina

// triangleLifetime is the progress at which a triangle has fully expanded
// and stops being drawn.
const triangleLifetime = 2

// Triangle expands a rotating glow triangle from the centre for each note.
// Progress is age times speed; a triangle is drawn while progress < 2.
type Triangle struct {
	s   Surface
	cfg *Config
}

// NewTriangle creates a Triangle luminode drawing onto s.
func NewTriangle(s Surface, cfg *Config) *Triangle {
	return &Triangle{s: s, cfg: cfg}
}

// Name returns "triangle".
func (l *Triangle) Name() string { return "triangle" }

// Params declares expansion speed, rotation speed and line width.
func (l *Triangle) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("speed", 0.1, 5, 0.1, 1),
		numberParam("rotation", -6, 6, 0.1, 1.2),
		numberParam("lineWidth", 0.5, 10, 0.5, 2),
	}
}

// Draw strokes one triangle per note that has not yet reached the end of
// its lifetime.
func (l *Triangle) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := l.s.Size()
	m := minDim(l.s)
	for _, n := range notes {
		progress := triangleProgress(n, t, p.Float("speed"))
		if progress >= triangleLifetime {
			continue
		}
		r := m * (0.1 + 0.25*progress)
		angle := t*p.Float("rotation") + float64(n.Pitch)
		c := PitchColor(n.Pitch, n.Velocity).WithAlpha(1 - progress/triangleLifetime)
		DrawGlowTriangle(l.s, w/2, h/2, r, angle, float64(l.cfg.GlowRadius), p.Float("lineWidth"), c)
	}
}

func triangleProgress(n Note, t, speed float64) float64 {
	return n.Age(t) * speed
}
