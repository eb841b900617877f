package lumina

import "math"

// Camera controls the view of one layer: the layer-space point (X, Y) is
// shown at the centre of Viewport, scaled by Zoom.
type Camera struct {
	// X and Y are the layer-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Viewport is the surface rectangle the camera renders into.
	Viewport Rect
}

// trajectoryCamera returns the camera that shows a layer displaced by a
// trajectory offset: X and Y pan in surface pixels, Z zooms toward the
// viewer. A zero offset gives the identity view.
func trajectoryCamera(viewport Rect, off Vec3) Camera {
	z := trajectoryDepthScale(off.Z)
	cx, cy := viewport.Center()
	return Camera{X: cx - off.X/z, Y: cy - off.Y/z, Zoom: z, Viewport: viewport}
}

// trajectoryDepthScale maps a trajectory's z offset to a zoom factor.
// Positive z moves the layer towards the viewer.
func trajectoryDepthScale(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return clamp(1+z/1000, 0.1, 4)
}

// viewMatrix returns Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
// where cx, cy is the viewport centre.
func (c Camera) viewMatrix() affine {
	cx, cy := c.Viewport.Center()
	z := c.Zoom
	return affine{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
}

// WorldToScreen converts layer coordinates to surface coordinates.
func (c Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.viewMatrix(), wx, wy)
}

// apply pushes the view transform onto s. Callers bracket it with
// Save/Restore.
func (c Camera) apply(s Surface) {
	cx, cy := c.Viewport.Center()
	s.Translate(cx, cy)
	s.Scale(c.Zoom, c.Zoom)
	s.Translate(-c.X, -c.Y)
}
