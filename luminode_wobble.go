package lumina

// Wobble draws a jittery square per note, centred, sized by pitch. The
// corners are re-randomised every frame.
type Wobble struct {
	s   Surface
	cfg *Config
}

// NewWobble creates a Wobble luminode drawing onto s.
func NewWobble(s Surface, cfg *Config) *Wobble {
	return &Wobble{s: s, cfg: cfg}
}

// Name returns "wobble".
func (l *Wobble) Name() string { return "wobble" }

// Params declares wobble amount and line width.
func (l *Wobble) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("wobble", 0, 4, 0.1, 1),
		numberParam("lineWidth", 0.5, 10, 0.5, 2),
	}
}

// Draw strokes a freshly jittered square for every note.
func (l *Wobble) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := l.s.Size()
	m := minDim(l.s)
	maxAge := l.cfg.MaxNoteAge().Seconds()
	for _, n := range notes {
		size := m * (0.2 + 0.6*float64(n.Pitch)/127)
		c := PitchColor(n.Pitch, n.Velocity).WithAlpha(fadeOut(n.Age(t), maxAge))
		DrawWobblyRect(l.s, (w-size)/2, (h-size)/2, size, size, l.cfg.Wobble*p.Float("wobble"), p.Float("lineWidth"), c)
	}
}
