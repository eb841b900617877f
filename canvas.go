package lumina

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// canvasState is the graphics state saved and restored by Save/Restore.
type canvasState struct {
	m         affine
	blend     BlendMode
	alpha     float64
	glow      float64
	glowColor Color

	// layerDepth is the number of clip layers open when this state was saved.
	layerDepth int
}

func defaultCanvasState() canvasState {
	return canvasState{m: identityTransform, alpha: 1}
}

// clipLayer is an offscreen image that collects drawing while a clip is in
// effect. On close it is masked to quad and composited onto the layer below.
type clipLayer struct {
	img  *ebiten.Image
	quad [4]Vec2
}

// Canvas is the ebiten implementation of Surface. A Canvas wraps a
// destination image for the duration of a frame (Begin/End), or owns its
// image when created as a Tile.
type Canvas struct {
	dst    *ebiten.Image
	owned  bool
	st     canvasState
	stack  []canvasState
	layers []*clipLayer

	path       vector.Path
	scratch    vector.Path
	hasCurrent bool

	pool *renderTexturePool
	glow *glowFilter

	vs []ebiten.Vertex
	is []uint16
}

// NewCanvas creates a canvas that draws into dst. dst may be nil and set
// later with Begin.
func NewCanvas(dst *ebiten.Image, glowRadius int) *Canvas {
	return &Canvas{
		dst:  dst,
		st:   defaultCanvasState(),
		pool: &renderTexturePool{},
		glow: newGlowFilter(glowRadius),
	}
}

// Begin starts a frame on dst, resetting the graphics state. If the
// destination size changed since the last frame the offscreen pool is
// drained.
func (c *Canvas) Begin(dst *ebiten.Image) {
	if c.dst != nil && dst != nil && c.dst.Bounds().Size() != dst.Bounds().Size() {
		c.pool.Drain()
	}
	c.dst = dst
	c.reset()
}

// End closes any clip layers left open and resets the graphics state.
func (c *Canvas) End() {
	for len(c.layers) > 0 {
		c.closeLayer()
	}
	c.reset()
}

func (c *Canvas) reset() {
	c.st = defaultCanvasState()
	c.stack = c.stack[:0]
	c.BeginPath()
}

// Image returns the destination image.
func (c *Canvas) Image() *ebiten.Image { return c.dst }

// Size returns the current destination size in pixels.
func (c *Canvas) Size() (float64, float64) {
	if c.dst == nil {
		return 0, 0
	}
	b := c.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *Canvas) sizeInt() (int, int) {
	if c.dst == nil {
		return 0, 0
	}
	b := c.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) target() *ebiten.Image {
	if n := len(c.layers); n > 0 {
		return c.layers[n-1].img
	}
	return c.dst
}

// --- state ---

// Save pushes the current transform, blend mode, alpha, glow and clip.
func (c *Canvas) Save() {
	s := c.st
	s.layerDepth = len(c.layers)
	c.stack = append(c.stack, s)
}

// Restore pops the state pushed by the matching Save. Unbalanced calls are
// ignored.
func (c *Canvas) Restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	s := c.stack[n-1]
	c.stack = c.stack[:n-1]
	for len(c.layers) > s.layerDepth {
		c.closeLayer()
	}
	c.st = s
}

// Translate moves the origin in local space.
func (c *Canvas) Translate(x, y float64) { c.st.m = translateAffine(c.st.m, x, y) }

// Rotate rotates local space by angle radians.
func (c *Canvas) Rotate(angle float64) { c.st.m = rotateAffine(c.st.m, angle) }

// Scale scales local space.
func (c *Canvas) Scale(sx, sy float64) { c.st.m = scaleAffine(c.st.m, sx, sy) }

// SetBlendMode sets the composite mode for subsequent draws.
func (c *Canvas) SetBlendMode(mode BlendMode) { c.st.blend = mode }

// SetAlpha sets a global opacity multiplier clamped to [0, 1].
func (c *Canvas) SetAlpha(a float64) { c.st.alpha = clamp01(a) }

// SetGlow enables a blurred halo of the given radius around strokes and
// fills. A radius of 0 disables it.
func (c *Canvas) SetGlow(radius float64, col Color) {
	c.st.glow = math.Max(0, radius)
	c.st.glowColor = col
}

// --- paths ---

// BeginPath discards the current path.
func (c *Canvas) BeginPath() {
	c.path = vector.Path{}
	c.hasCurrent = false
}

// MoveTo starts a new subpath at (x, y) in local space.
func (c *Canvas) MoveTo(x, y float64) {
	dx, dy := transformPoint(c.st.m, x, y)
	c.path.MoveTo(float32(dx), float32(dy))
	c.hasCurrent = true
}

// LineTo adds a straight segment to (x, y) in local space.
func (c *Canvas) LineTo(x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(x, y)
		return
	}
	dx, dy := transformPoint(c.st.m, x, y)
	c.path.LineTo(float32(dx), float32(dy))
}

// Arc appends a clockwise arc. It is flattened in local space so that it
// follows non-uniform transforms.
func (c *Canvas) Arc(cx, cy, r, start, end float64) {
	pts := arcPoints(cx, cy, r*affineScale(c.st.m), r, start, end)
	for i, p := range pts {
		if i == 0 && !c.hasCurrent {
			c.MoveTo(p.X, p.Y)
			continue
		}
		c.LineTo(p.X, p.Y)
	}
}

// ClosePath joins the current subpath back to its start.
func (c *Canvas) ClosePath() {
	c.path.Close()
}

// arcPoints flattens an arc. deviceR picks the segment count so curves stay
// smooth after scaling.
func arcPoints(cx, cy, deviceR, r, start, end float64) []Vec2 {
	sweep := end - start
	segs := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * math.Max(12, deviceR/2)))
	segs = min(max(segs, 1), 256)
	pts := make([]Vec2, segs+1)
	for i := range pts {
		a := start + sweep*float64(i)/float64(segs)
		sin, cos := math.Sincos(a)
		pts[i] = Vec2{cx + r*cos, cy + r*sin}
	}
	return pts
}

// --- drawing ---

// Stroke outlines the current path.
func (c *Canvas) Stroke(col Color, width float64) {
	w := width * affineScale(c.st.m)
	if w <= 0 || col.A <= 0 {
		return
	}
	if c.glowing() {
		c.strokeGlow(w)
	}
	c.vs, c.is = c.path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{
		Width:    float32(w),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	})
	c.drawVertices(c.target(), col, c.st.blend)
}

// strokeGlow renders a widened copy of the current path as a glow.
func (c *Canvas) strokeGlow(width float64) {
	radius := c.st.glow * affineScale(c.st.m)
	c.vs, c.is = c.path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{
		Width:    float32(width + radius/2),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	})
	c.glowVertices(radius)
}

// glowVertices draws the pending vertices into a pooled layer in the glow
// colour, blurs it and adds the result onto the target.
func (c *Canvas) glowVertices(radius float64) {
	w, h := c.sizeInt()
	if w == 0 || h == 0 || len(c.is) == 0 {
		return
	}
	layer := c.pool.Acquire(w, h)
	blurred := c.pool.Acquire(w, h)
	defer c.pool.Release(layer)
	defer c.pool.Release(blurred)

	c.colorVertices(c.st.glowColor, 1)
	layer.DrawTriangles(c.vs, c.is, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})

	c.glow.Radius = int(radius + 0.5)
	c.glow.Apply(layer, blurred, w, h)

	var op ebiten.DrawImageOptions
	op.Blend = BlendAdd.EbitenBlend()
	op.ColorScale.ScaleAlpha(float32(c.st.alpha))
	c.target().DrawImage(blurred.SubImage(imageRect(w, h)).(*ebiten.Image), &op)
}

func (c *Canvas) glowing() bool {
	return c.st.glow > 0 && c.st.glowColor.A > 0 && c.st.blend != BlendErase
}

// Fill fills the current path.
func (c *Canvas) Fill(col Color) {
	if col.A <= 0 {
		return
	}
	c.vs, c.is = c.path.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	if c.glowing() {
		c.glowVertices(c.st.glow * affineScale(c.st.m))
	}
	c.drawVertices(c.target(), col, c.st.blend)
}

// FillRect fills an axis-aligned rectangle in local space.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	if col.A <= 0 || w <= 0 || h <= 0 {
		return
	}
	c.scratch = vector.Path{}
	c.appendQuad(&c.scratch, x, y, w, h)
	c.vs, c.is = c.scratch.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.drawVertices(c.target(), col, c.st.blend)
}

func (c *Canvas) appendQuad(p *vector.Path, x, y, w, h float64) {
	for i, q := range rectCorners(x, y, w, h) {
		dx, dy := transformPoint(c.st.m, q.X, q.Y)
		if i == 0 {
			p.MoveTo(float32(dx), float32(dy))
		} else {
			p.LineTo(float32(dx), float32(dy))
		}
	}
	p.Close()
}

func rectCorners(x, y, w, h float64) [4]Vec2 {
	return [4]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

// FillLinearGradient fills r with a gradient along (x0, y0)-(x1, y1). Stops
// are spaced evenly and the ends are padded with the first and last colour.
func (c *Canvas) FillLinearGradient(x0, y0, x1, y1 float64, stops []Color, r Rect) {
	switch len(stops) {
	case 0:
		return
	case 1:
		c.FillRect(r.X, r.Y, r.Width, r.Height, stops[0])
		return
	}
	c.Save()
	c.ClipRect(r.X, r.Y, r.Width, r.Height)

	c.vs, c.is = c.vs[:0], c.is[:0]
	for _, b := range gradientBands(x0, y0, x1, y1, stops, r) {
		base := uint16(len(c.vs))
		for i := range b.P {
			dx, dy := transformPoint(c.st.m, b.P[i].X, b.P[i].Y)
			c.vs = append(c.vs, ebiten.Vertex{
				DstX: float32(dx), DstY: float32(dy),
				SrcX: 1, SrcY: 1,
				ColorR: float32(b.C[i].R), ColorG: float32(b.C[i].G), ColorB: float32(b.C[i].B),
				ColorA: float32(b.C[i].A * c.st.alpha),
			})
		}
		c.is = append(c.is, base, base+1, base+2, base, base+2, base+3)
	}
	c.target().DrawTriangles(c.vs, c.is, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{
		Blend:     c.st.blend.EbitenBlend(),
		AntiAlias: false,
	})

	c.Restore()
}

// gradientQuad is one band of a linear gradient: four corners with a color
// per corner.
type gradientQuad struct {
	P [4]Vec2
	C [4]Color
}

// gradientBands builds quads along the gradient axis that together cover r.
// The first and last bands pad the area before the first stop and after the
// last with solid colors.
func gradientBands(x0, y0, x1, y1 float64, stops []Color, r Rect) []gradientQuad {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		dx, dy, length = 1, 0, 1
	}
	ux, uy := dx/length, dy/length
	nx, ny := -uy, ux

	extent := 1.0
	for _, q := range rectCorners(r.X, r.Y, r.Width, r.Height) {
		extent = math.Max(extent, math.Hypot(q.X-x0, q.Y-y0))
	}

	band := func(a, b float64, ca, cb Color) gradientQuad {
		ax, ay := x0+ux*a, y0+uy*a
		bx, by := x0+ux*b, y0+uy*b
		return gradientQuad{
			P: [4]Vec2{
				{ax + nx*extent, ay + ny*extent},
				{ax - nx*extent, ay - ny*extent},
				{bx - nx*extent, by - ny*extent},
				{bx + nx*extent, by + ny*extent},
			},
			C: [4]Color{ca, ca, cb, cb},
		}
	}

	n := len(stops)
	out := make([]gradientQuad, 0, n+1)
	out = append(out, band(-extent, 0, stops[0], stops[0]))
	for i := 0; i < n-1; i++ {
		a := length * float64(i) / float64(n-1)
		b := length * float64(i+1) / float64(n-1)
		out = append(out, band(a, b, stops[i], stops[i+1]))
	}
	out = append(out, band(length, length+extent, stops[n-1], stops[n-1]))
	return out
}

// ClipRect opens a clip layer. Drawing goes to an offscreen image until the
// matching Restore, which masks it to the rectangle and composites it down.
func (c *Canvas) ClipRect(x, y, w, h float64) {
	iw, ih := c.sizeInt()
	if iw == 0 || ih == 0 {
		return
	}
	l := &clipLayer{img: c.pool.Acquire(iw, ih)}
	for i, q := range rectCorners(x, y, w, h) {
		dx, dy := transformPoint(c.st.m, q.X, q.Y)
		l.quad[i] = Vec2{dx, dy}
	}
	c.layers = append(c.layers, l)
}

func (c *Canvas) closeLayer() {
	n := len(c.layers)
	l := c.layers[n-1]
	c.layers = c.layers[:n-1]

	w, h := c.sizeInt()
	mask := c.pool.Acquire(w, h)

	c.scratch = vector.Path{}
	for i, q := range l.quad {
		if i == 0 {
			c.scratch.MoveTo(float32(q.X), float32(q.Y))
		} else {
			c.scratch.LineTo(float32(q.X), float32(q.Y))
		}
	}
	c.scratch.Close()
	c.vs, c.is = c.scratch.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.colorVertices(ColorWhite, 1)
	mask.DrawTriangles(c.vs, c.is, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})

	var op ebiten.DrawImageOptions
	op.Blend = BlendMask.EbitenBlend()
	l.img.DrawImage(mask, &op)

	op = ebiten.DrawImageOptions{}
	c.target().DrawImage(l.img.SubImage(imageRect(w, h)).(*ebiten.Image), &op)

	c.pool.Release(mask)
	c.pool.Release(l.img)
}

// --- tiles ---

// NewTile creates an offscreen canvas that shares this canvas's pool.
func (c *Canvas) NewTile(w, h int) Tile {
	w, h = max(w, 1), max(h, 1)
	return &Canvas{
		dst:   ebiten.NewImage(w, h),
		owned: true,
		st:    defaultCanvasState(),
		pool:  c.pool,
		glow:  c.glow,
	}
}

// DrawTile composites t with its top-left corner at (x, y) in local space.
func (c *Canvas) DrawTile(t Tile, x, y float64) {
	tc, ok := t.(*Canvas)
	if !ok || tc.dst == nil {
		return
	}
	tc.End()
	var op ebiten.DrawImageOptions
	op.GeoM = geoM(translateAffine(c.st.m, x, y))
	op.Blend = c.st.blend.EbitenBlend()
	op.ColorScale.ScaleAlpha(float32(c.st.alpha))
	op.Filter = ebiten.FilterLinear
	c.target().DrawImage(tc.dst, &op)
}

// Dispose frees a tile's image. It is a no-op on a frame canvas.
func (c *Canvas) Dispose() {
	if c.owned && c.dst != nil {
		c.End()
		c.dst.Deallocate()
		c.dst = nil
	}
}

// --- vertex helpers ---

func (c *Canvas) drawVertices(dst *ebiten.Image, col Color, mode BlendMode) {
	if len(c.is) == 0 {
		return
	}
	c.colorVertices(col, c.st.alpha)
	dst.DrawTriangles(c.vs, c.is, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{
		Blend:     mode.EbitenBlend(),
		AntiAlias: true,
	})
}

// colorVertices assigns a straight-alpha color to every vertex and points
// the texture coordinates at the white pixel.
func (c *Canvas) colorVertices(col Color, alpha float64) {
	r, g, b := float32(clamp01(col.R)), float32(clamp01(col.G)), float32(clamp01(col.B))
	a := float32(clamp01(col.A) * alpha)
	for i := range c.vs {
		c.vs[i].SrcX = 1
		c.vs[i].SrcY = 1
		c.vs[i].ColorR = r
		c.vs[i].ColorG = g
		c.vs[i].ColorB = b
		c.vs[i].ColorA = a
	}
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns the centre pixel of a lazily created 3x3 white
// image. Sampling the centre avoids bleeding at the edges.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whitePixelImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whitePixelImage
}

func imageRect(w, h int) image.Rectangle {
	return image.Rect(0, 0, w, h)
}
