package lumina

// Surface is the 2D immediate-mode drawing target shared by every luminode.
//
// Coordinates are in pixels with the origin at the top-left. Transform, blend
// mode, alpha, glow and clip are part of the graphics state, which Save pushes
// and Restore pops. Path construction (BeginPath, MoveTo, LineTo, Arc,
// ClosePath) uses the transform in effect when each point is added.
//
// Luminodes never cache Size: the window may be resized between frames.
type Surface interface {
	Size() (w, h float64)

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)
	SetBlendMode(mode BlendMode)
	SetAlpha(a float64)

	// SetGlow enables a soft blurred halo of color c behind subsequent
	// strokes. A radius of zero disables it.
	SetGlow(radius float64, c Color)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, r, start, end float64)
	ClosePath()
	Stroke(c Color, width float64)
	Fill(c Color)

	FillRect(x, y, w, h float64, c Color)

	// FillLinearGradient fills r with a gradient running from (x0, y0) to
	// (x1, y1). Stops are spread evenly along the axis.
	FillLinearGradient(x0, y0, x1, y1 float64, stops []Color, r Rect)

	// ClipRect restricts subsequent drawing to the rectangle (in current
	// local coordinates) until the matching Restore.
	ClipRect(x, y, w, h float64)

	// NewTile creates an offscreen surface for two-pass compositing.
	NewTile(w, h int) Tile
	// DrawTile composites t with its top-left at (x, y) using the current
	// transform, blend mode and alpha.
	DrawTile(t Tile, x, y float64)
}

// Tile is an offscreen Surface. Dispose releases its backing storage.
type Tile interface {
	Surface
	Dispose()
}
