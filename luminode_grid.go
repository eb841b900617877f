package lumina

const (
	gridColumns = 12 // pitch classes
	gridRows    = 11 // octaves 0-10
)

// gridCell returns the cell of pitch in a w×h grid. Columns are pitch
// classes; rows are octaves with the highest at the top.
func gridCell(pitch int, w, h float64) Rect {
	cw, ch := w/gridColumns, h/gridRows
	col := pitch % gridColumns
	row := gridRows - 1 - pitch/gridColumns
	return Rect{X: float64(col) * cw, Y: float64(row) * ch, Width: cw, Height: ch}
}

// Grid lights one cell per sounding note on a pitch-class by octave grid.
type Grid struct {
	s   Surface
	cfg *Config
}

// NewGrid creates a Grid luminode drawing onto s.
func NewGrid(s Surface, cfg *Config) *Grid {
	return &Grid{s: s, cfg: cfg}
}

// Name returns "grid".
func (g *Grid) Name() string { return "grid" }

// Params declares the cell gap, grid line opacity and whether lines are drawn.
func (g *Grid) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("gap", 0, 20, 0.5, 2),
		numberParam("lineAlpha", 0, 1, 0.01, 0.08),
		checkboxParam("showLines", true),
	}
}

// Draw fills the cell of every sounding note, fading with age. Cell sizes
// follow the current surface size.
func (g *Grid) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := g.s.Size()
	if p.Bool("showLines") {
		g.drawLines(w, h, ColorWhite.WithAlpha(p.Float("lineAlpha")))
	}
	gap := p.Float("gap")
	maxAge := g.cfg.MaxNoteAge().Seconds()
	for _, n := range notes {
		r := gridCell(n.Pitch, w, h)
		a := n.Velocity * fadeOut(n.Age(t), maxAge)
		g.s.FillRect(r.X+gap/2, r.Y+gap/2, r.Width-gap, r.Height-gap, PitchColor(n.Pitch, n.Velocity).WithAlpha(a))
	}
}

func (g *Grid) drawLines(w, h float64, c Color) {
	for i := 1; i < gridColumns; i++ {
		g.s.FillRect(float64(i)*w/gridColumns, 0, 1, h, c)
	}
	for i := 1; i < gridRows; i++ {
		g.s.FillRect(0, float64(i)*h/gridRows, w, 1, c)
	}
}

// GridMirror reads the grid channel and outlines the point-mirrored cells
// with hand-drawn wobbly rectangles.
type GridMirror struct {
	s   Surface
	cfg *Config
}

// NewGridMirror creates a GridMirror luminode drawing onto s.
func NewGridMirror(s Surface, cfg *Config) *GridMirror {
	return &GridMirror{s: s, cfg: cfg}
}

// Name returns "gridMirror".
func (g *GridMirror) Name() string { return "gridMirror" }

// Params declares outline width and wobble amount.
func (g *GridMirror) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("lineWidth", 0.5, 8, 0.5, 1.5),
		numberParam("wobble", 0, 4, 0.1, 1),
	}
}

// Draw outlines the mirrored cell of every sounding note.
func (g *GridMirror) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := g.s.Size()
	maxAge := g.cfg.MaxNoteAge().Seconds()
	for _, n := range notes {
		r := mirrorRect(gridCell(n.Pitch, w, h), w, h)
		c := PitchColor(n.Pitch, n.Velocity).WithAlpha(fadeOut(n.Age(t), maxAge))
		DrawWobblyRect(g.s, r.X, r.Y, r.Width, r.Height, g.cfg.Wobble*p.Float("wobble"), p.Float("lineWidth"), c)
	}
}

// mirrorRect reflects r through the centre of a w×h area.
func mirrorRect(r Rect, w, h float64) Rect {
	return Rect{X: w - r.X - r.Width, Y: h - r.Y - r.Height, Width: r.Width, Height: r.Height}
}
