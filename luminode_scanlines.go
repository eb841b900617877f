package lumina

// Scanlines overlays drifting horizontal lines. More notes pack the lines
// closer together.
type Scanlines struct {
	s   Surface
	cfg *Config
}

// NewScanlines creates a Scanlines luminode drawing onto s.
func NewScanlines(s Surface, cfg *Config) *Scanlines {
	return &Scanlines{s: s, cfg: cfg}
}

// Name returns "scanlines".
func (l *Scanlines) Name() string { return "scanlines" }

// Params declares base line spacing, drift amplitude and opacity.
func (l *Scanlines) Params() []ParamSpec {
	return []ParamSpec{
		intParam("spacing", 2, 40, 12),
		numberParam("amplitude", 0, 10, 0.1, 2),
		numberParam("opacity", 0, 1, 0.01, 0.08),
	}
}

// Draw overlays the lines across the full surface height.
func (l *Scanlines) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	spacing := max(p.Int("spacing")-len(notes), 2)
	DrawScanlines(l.s, t, float64(spacing), p.Float("amplitude"), ColorWhite.WithAlpha(p.Float("opacity")))
}
