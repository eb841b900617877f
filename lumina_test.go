package lumina

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- recordingSurface ---

// drawOp is one recorded drawing call.
type drawOp struct {
	kind   string // stroke, fill, fillRect, gradient, tile
	color  Color
	width  float64
	points []Vec2
	rect   Rect
	stops  int
	colors []Color
	glow   float64
	blend  BlendMode
	alpha  float64
}

type recState struct {
	glow  float64
	blend BlendMode
	alpha float64
}

// recordingSurface is a Surface that records calls instead of drawing.
type recordingSurface struct {
	w, h float64

	ops        []drawOp
	path       []Vec2
	st         recState
	stack      []recState
	transforms int
	clips      int
	tiles      []*recordingTile
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{w: w, h: h, st: recState{alpha: 1}}
}

func (r *recordingSurface) Size() (float64, float64) { return r.w, r.h }

func (r *recordingSurface) Save() { r.stack = append(r.stack, r.st) }

func (r *recordingSurface) Restore() {
	if n := len(r.stack); n > 0 {
		r.st = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
}

func (r *recordingSurface) Translate(x, y float64)          { r.transforms++ }
func (r *recordingSurface) Rotate(angle float64)            { r.transforms++ }
func (r *recordingSurface) Scale(sx, sy float64)            { r.transforms++ }
func (r *recordingSurface) SetBlendMode(mode BlendMode)     { r.st.blend = mode }
func (r *recordingSurface) SetAlpha(a float64)              { r.st.alpha = a }
func (r *recordingSurface) SetGlow(radius float64, c Color) { r.st.glow = radius }

func (r *recordingSurface) BeginPath()          { r.path = r.path[:0] }
func (r *recordingSurface) MoveTo(x, y float64) { r.path = append(r.path, Vec2{x, y}) }
func (r *recordingSurface) LineTo(x, y float64) { r.path = append(r.path, Vec2{x, y}) }
func (r *recordingSurface) ClosePath()          {}

func (r *recordingSurface) Arc(cx, cy, rad, start, end float64) {
	r.path = append(r.path, arcPoints(cx, cy, rad, rad, start, end)...)
}

func (r *recordingSurface) record(op drawOp) {
	op.glow, op.blend, op.alpha = r.st.glow, r.st.blend, r.st.alpha
	r.ops = append(r.ops, op)
}

func (r *recordingSurface) Stroke(c Color, width float64) {
	r.record(drawOp{kind: "stroke", color: c, width: width, points: append([]Vec2(nil), r.path...)})
}

func (r *recordingSurface) Fill(c Color) {
	r.record(drawOp{kind: "fill", color: c, points: append([]Vec2(nil), r.path...)})
}

func (r *recordingSurface) FillRect(x, y, w, h float64, c Color) {
	r.record(drawOp{kind: "fillRect", color: c, rect: Rect{x, y, w, h}})
}

func (r *recordingSurface) FillLinearGradient(x0, y0, x1, y1 float64, stops []Color, rect Rect) {
	r.record(drawOp{kind: "gradient", rect: rect, stops: len(stops), colors: append([]Color(nil), stops...)})
}

func (r *recordingSurface) ClipRect(x, y, w, h float64) { r.clips++ }

func (r *recordingSurface) NewTile(w, h int) Tile {
	t := &recordingTile{recordingSurface: newRecordingSurface(float64(w), float64(h))}
	r.tiles = append(r.tiles, t)
	return t
}

func (r *recordingSurface) DrawTile(t Tile, x, y float64) {
	w, h := t.Size()
	r.record(drawOp{kind: "tile", rect: Rect{x, y, w, h}})
}

// count returns the number of recorded ops of kind.
func (r *recordingSurface) count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

func (r *recordingSurface) reset() {
	r.ops = r.ops[:0]
	r.tiles = nil
	r.transforms, r.clips = 0, 0
}

type recordingTile struct {
	*recordingSurface
	disposed bool
}

func (t *recordingTile) Dispose() { t.disposed = true }

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- BlendMode ---

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		name   string
		expect ebiten.Blend
	}{
		{BlendNormal, "BlendNormal", ebiten.BlendSourceOver},
		{BlendAdd, "BlendAdd", ebiten.BlendLighter},
		{BlendErase, "BlendErase", ebiten.BlendDestinationOut},
		{BlendBelow, "BlendBelow", ebiten.BlendDestinationOver},
		{BlendNone, "BlendNone", ebiten.BlendCopy},
		{BlendMode(200), "unknown", ebiten.BlendSourceOver},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.EbitenBlend()
			if got != tt.expect {
				t.Errorf("%s.EbitenBlend() = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}

	zero := ebiten.Blend{}
	for _, mode := range []BlendMode{BlendMultiply, BlendScreen, BlendMask} {
		if mode.EbitenBlend() == zero {
			t.Errorf("BlendMode(%d).EbitenBlend() returned zero blend", mode)
		}
	}
}

// --- Color ---

func TestColorLerp(t *testing.T) {
	a := Color{0, 0, 0, 0}
	b := Color{1, 0.5, 0.25, 1}
	mid := a.Lerp(b, 0.5)
	assertNear(t, "R", mid.R, 0.5)
	assertNear(t, "G", mid.G, 0.25)
	assertNear(t, "B", mid.B, 0.125)
	assertNear(t, "A", mid.A, 0.5)
	if got := b.WithAlpha(0.3); got.A != 0.3 || got.R != 1 {
		t.Errorf("WithAlpha = %v", got)
	}
}

func TestColorToRGBAPremultiplied(t *testing.T) {
	c := Color{1, 0.5, 0, 0.5}.toRGBA()
	if c.A != 128 {
		t.Errorf("A = %d, want 128", c.A)
	}
	if c.R != 128 {
		t.Errorf("R = %d, want 128 (premultiplied)", c.R)
	}
	if c.B != 0 {
		t.Errorf("B = %d, want 0", c.B)
	}
	over := Color{2, -1, 0, 1}.toRGBA()
	if over.R != 255 || over.G != 0 {
		t.Errorf("out-of-range components not clamped: %v", over)
	}
}

func TestPitchColor(t *testing.T) {
	for p := 0; p <= 127; p++ {
		c := PitchColor(p, 1)
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Fatalf("PitchColor(%d) = %v out of range", p, c)
			}
		}
		if c.A != 1 {
			t.Errorf("PitchColor(%d).A = %v, want 1", p, c.A)
		}
	}
	if PitchColor(60, 1) == PitchColor(61, 1) {
		t.Error("neighbouring pitch classes should differ in hue")
	}
	if PitchColor(60, 0) == PitchColor(60, 1) {
		t.Error("velocity should change brightness")
	}
}

func TestBlendPalette(t *testing.T) {
	pal := []Color{{1, 0, 0, 1}, {0, 0, 1, 0}}
	if got := BlendPalette(pal, 0); !colorNear(got, pal[0], 1e-3) {
		t.Errorf("BlendPalette(0) = %v, want %v", got, pal[0])
	}
	if got := BlendPalette(pal, 1); got != pal[1] {
		t.Errorf("BlendPalette(1) = %v, want %v", got, pal[1])
	}
	assertNear(t, "mid alpha", BlendPalette(pal, 0.5).A, 0.5)
	if got := BlendPalette(nil, 0.5); got != ColorWhite {
		t.Errorf("empty palette = %v, want white", got)
	}
	if got := BlendPalette(pal[:1], 0.7); got != pal[0] {
		t.Errorf("single-color palette = %v, want %v", got, pal[0])
	}
}

func colorNear(a, b Color, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol &&
		math.Abs(a.B-b.B) <= tol && math.Abs(a.A-b.A) <= tol
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{math.NaN(), 2, 10, 2},
		{math.Inf(1), 0, 1, 1},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestVec3(t *testing.T) {
	v := Vec3{1, 2, 3}.Add(Vec3{1, 1, 1})
	if v != (Vec3{2, 3, 4}) {
		t.Errorf("Add = %v", v)
	}
	if v.Neg() != (Vec3{-2, -3, -4}) {
		t.Errorf("Neg = %v", v.Neg())
	}
}
