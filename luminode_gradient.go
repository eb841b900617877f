package lumina

// Gradient washes the background with a slowly morphing gradient through the
// colours of the sounding pitches.
type Gradient struct {
	s   Surface
	cfg *Config
}

// NewGradient creates a Gradient luminode. The background colour and palette
// come from cfg.
func NewGradient(s Surface, cfg *Config) *Gradient {
	return &Gradient{s: s, cfg: cfg}
}

// Name returns "gradient".
func (g *Gradient) Name() string { return "gradient" }

// Params declares the wash opacity and how far pitch colours are tinted
// toward the configured palette.
func (g *Gradient) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("opacity", 0, 1, 0.01, 0.35),
		numberParam("tint", 0, 1, 0.01, 0.5),
	}
}

// Draw fills the surface with a gradient through the sounding pitches.
func (g *Gradient) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	colors := gradientStops(notes, g.cfg.Background, g.cfg.Palette, p.Float("tint"), p.Float("opacity"))
	DrawMorphingGradient(g.s, t, colors, true)
}

// gradientStops returns one stop per note in pitch order. Each pitch colour is
// pulled toward the palette colour at the pitch's place on the keyboard by
// tint. A single note is blended from the background so the gradient always
// has two ends.
func gradientStops(notes []Note, bg Color, palette []Color, tint, opacity float64) []Color {
	sorted := sortedByPitch(notes)
	stops := make([]Color, 0, len(sorted)+1)
	if len(sorted) == 1 {
		stops = append(stops, bg.WithAlpha(opacity))
	}
	for _, n := range sorted {
		c := PitchColor(n.Pitch, n.Velocity)
		if len(palette) > 0 && tint > 0 {
			pal := BlendPalette(palette, float64(n.Pitch)/127)
			c = BlendPalette([]Color{c, pal.WithAlpha(1)}, tint)
		}
		stops = append(stops, c.WithAlpha(opacity))
	}
	return stops
}
