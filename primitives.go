package lumina

import (
	"math"
	"math/rand/v2"
)

// --- Glow triangle ---

// DrawGlowTriangle strokes an equilateral triangle centred on (cx, cy) with
// circumradius r, rotated by angle, with a soft glow of the given radius.
func DrawGlowTriangle(s Surface, cx, cy, r, angle, glow, width float64, c Color) {
	pts := trianglePoints(cx, cy, r, angle)
	s.Save()
	s.SetGlow(glow, c)
	s.BeginPath()
	s.MoveTo(pts[0].X, pts[0].Y)
	s.LineTo(pts[1].X, pts[1].Y)
	s.LineTo(pts[2].X, pts[2].Y)
	s.ClosePath()
	s.Stroke(c, width)
	s.Restore()
}

// trianglePoints returns the corners of an equilateral triangle whose first
// vertex points up when angle is zero.
func trianglePoints(cx, cy, r, angle float64) [3]Vec2 {
	var pts [3]Vec2
	for i := range pts {
		a := angle - math.Pi/2 + float64(i)*2*math.Pi/3
		sin, cos := math.Sincos(a)
		pts[i] = Vec2{cx + r*cos, cy + r*sin}
	}
	return pts
}

// --- Striped square ---

// DrawStripedSquare draws a size×size square at (x, y), rotated by angle
// about its centre, filled with bg and crossed by transparent diagonal
// stripes. The stripes are erased from an offscreen tile sized to the
// square's diagonal, which is then projected through a rotated clip.
func DrawStripedSquare(s Surface, x, y, size, angle, stripe float64, bg Color) {
	if size <= 0 {
		return
	}
	diag := size * math.Sqrt2
	n := int(math.Ceil(diag))
	tile := s.NewTile(n, n)
	defer tile.Dispose()

	tile.FillRect(0, 0, diag, diag, bg)
	tile.SetBlendMode(BlendErase)
	for _, band := range stripeBands(diag, stripe) {
		tile.BeginPath()
		tile.MoveTo(band[0].X, band[0].Y)
		for _, p := range band[1:] {
			tile.LineTo(p.X, p.Y)
		}
		tile.ClosePath()
		tile.Fill(ColorBlack)
	}
	tile.SetBlendMode(BlendNormal)

	s.Save()
	s.Translate(x+size/2, y+size/2)
	s.Rotate(angle)
	s.ClipRect(-size/2, -size/2, size, size)
	s.DrawTile(tile, -diag/2, -diag/2)
	s.Restore()
}

// stripeBands returns the parallelograms erased from a side×side tile. Bands
// of width stripe alternate with kept bands of the same width and run at 45°.
func stripeBands(side, stripe float64) [][4]Vec2 {
	if stripe <= 0 {
		return nil
	}
	var out [][4]Vec2
	for o := -side; o < 2*side; o += 2 * stripe {
		out = append(out, [4]Vec2{
			{o, 0},
			{o + stripe, 0},
			{o + stripe - side, side},
			{o - side, side},
		})
	}
	return out
}

// --- Wobbly rectangle ---

// DrawWobblyRect strokes a w×h rectangle at (x, y) whose corners are
// displaced by fresh uniform noise of at most wobble/2 on each axis.
func DrawWobblyRect(s Surface, x, y, w, h, wobble, width float64, c Color) {
	pts := wobblyRectPoints(x, y, w, h, wobble)
	s.BeginPath()
	s.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.LineTo(p.X, p.Y)
	}
	s.ClosePath()
	s.Stroke(c, width)
}

func wobblyRectPoints(x, y, w, h, wobble float64) [4]Vec2 {
	pts := rectCorners(x, y, w, h)
	for i := range pts {
		pts[i].X += (rand.Float64() - 0.5) * wobble
		pts[i].Y += (rand.Float64() - 0.5) * wobble
	}
	return pts
}

// --- Wobbly contour ---

// ContourLayer is one ring of a multi-layer polygon outline.
type ContourLayer struct {
	Radius float64
	Jitter float64
	Sides  int
}

// DrawWobblyContour strokes each layer as a closed polyline of Sides+1
// points around (cx, cy), each at Radius ± Jitter/2, with a glow.
func DrawWobblyContour(s Surface, cx, cy, baseAngle float64, layers []ContourLayer, glow, width float64, c Color) {
	s.Save()
	s.SetGlow(glow, c)
	for _, l := range layers {
		pts := contourPoints(cx, cy, baseAngle, l)
		s.BeginPath()
		s.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			s.LineTo(p.X, p.Y)
		}
		s.ClosePath()
		s.Stroke(c, width)
	}
	s.Restore()
}

func contourPoints(cx, cy, baseAngle float64, l ContourLayer) []Vec2 {
	sides := max(l.Sides, 3)
	pts := make([]Vec2, sides+1)
	for i := range pts {
		a := baseAngle + float64(i)*2*math.Pi/float64(sides)
		r := l.Radius + (rand.Float64()-0.5)*l.Jitter
		sin, cos := math.Sincos(a)
		pts[i] = Vec2{cx + r*cos, cy + r*sin}
	}
	return pts
}

// --- Morphing gradient ---

// DrawMorphingGradient fills the whole surface with a linear gradient through
// colors. While active the gradient axis slowly orbits the centre.
func DrawMorphingGradient(s Surface, t float64, colors []Color, active bool) {
	if len(colors) == 0 {
		return
	}
	w, h := s.Size()
	x0, y0, x1, y1 := gradientAxis(w, h, t, active)
	s.FillLinearGradient(x0, y0, x1, y1, colors, Rect{0, 0, w, h})
}

// gradientMorphRate is the axis rotation speed in radians per second.
const gradientMorphRate = 0.15

// gradientAxis returns the gradient endpoints: a diameter of the circle that
// circumscribes the surface, at an angle proportional to t while active.
func gradientAxis(w, h, t float64, active bool) (x0, y0, x1, y1 float64) {
	cx, cy := w/2, h/2
	r := math.Hypot(w, h) / 2
	angle := 0.0
	if active {
		angle = t * gradientMorphRate
	}
	sin, cos := math.Sincos(angle)
	return cx - cos*r, cy - sin*r, cx + cos*r, cy + sin*r
}

// --- Scanlines ---

// DrawScanlines draws horizontal translucent lines every spacing pixels, each
// nudged vertically by a small sinusoid of time.
func DrawScanlines(s Surface, t, spacing, amplitude float64, c Color) {
	w, h := s.Size()
	for _, y := range scanlineOffsets(h, spacing, amplitude, t) {
		s.FillRect(0, y, w, 1, c)
	}
}

func scanlineOffsets(h, spacing, amplitude, t float64) []float64 {
	if spacing < 1 || h <= 0 {
		return nil
	}
	n := int(h / spacing)
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, float64(i)*spacing+amplitude*math.Sin(t*2+float64(i)*0.5))
	}
	return out
}

// --- Overlap ---

// Square is an axis-aligned square with its top-left at (X, Y).
type Square struct {
	X, Y, Size float64
}

// CheckOverlap reports whether a and b overlap. Squares that only touch
// along an edge do not overlap.
func CheckOverlap(a, b Square) bool {
	return a.X < b.X+b.Size && b.X < a.X+a.Size &&
		a.Y < b.Y+b.Size && b.Y < a.Y+a.Size
}
