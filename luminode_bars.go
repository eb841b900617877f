package lumina

// Bars raises a vertical bar per note at the pitch's horizontal position.
// Height follows velocity and shrinks as the note ages.
type Bars struct {
	s   Surface
	cfg *Config
}

// NewBars creates a Bars luminode drawing onto s.
func NewBars(s Surface, cfg *Config) *Bars {
	return &Bars{s: s, cfg: cfg}
}

// Name returns "bars".
func (b *Bars) Name() string { return "bars" }

// Params declares the bar width multiplier and the maximum height as a
// fraction of the surface.
func (b *Bars) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("width", 0.2, 4, 0.1, 1),
		numberParam("height", 0, 1, 0.01, 0.6),
	}
}

// Draw raises one bar per note. Bars are spaced across the current surface
// width by pitch.
func (b *Bars) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := b.s.Size()
	maxAge := b.cfg.MaxNoteAge().Seconds()
	for _, n := range notes {
		r := barRect(n, w, h, p.Float("width"), p.Float("height"), fadeOut(n.Age(t), maxAge))
		b.s.FillRect(r.X, r.Y, r.Width, r.Height, PitchColor(n.Pitch, n.Velocity).WithAlpha(0.8))
	}
}

// barRect returns the bar of note n, bottom-aligned in a w×h area.
func barRect(n Note, w, h, widthScale, heightScale, decay float64) Rect {
	slot := w / 128
	bw := slot * widthScale
	bh := h * heightScale * n.Velocity * decay
	x := float64(n.Pitch)*slot + (slot-bw)/2
	return Rect{X: x, Y: h - bh, Width: bw, Height: bh}
}
