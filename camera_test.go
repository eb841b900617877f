package lumina

import (
	"math"
	"testing"
)

func TestTrajectoryDepthScale(t *testing.T) {
	tests := []struct {
		z, want float64
	}{
		{0, 1},
		{500, 1.5},
		{-500, 0.5},
		{-5000, 0.1},
		{1e6, 4},
		{math.NaN(), 1},
	}
	for _, tt := range tests {
		if got := trajectoryDepthScale(tt.z); math.Abs(got-tt.want) > epsilon {
			t.Errorf("trajectoryDepthScale(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestTrajectoryCameraMatchesPanAndZoom(t *testing.T) {
	vp := Rect{Width: 800, Height: 600}
	tests := []struct {
		name string
		off  Vec3
	}{
		{"zero", Vec3{}},
		{"pan", Vec3{X: 40, Y: -25}},
		{"zoom in", Vec3{Z: 500}},
		{"pan and zoom out", Vec3{X: -100, Y: 60, Z: -500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := trajectoryCamera(vp, tt.off)
			z := trajectoryDepthScale(tt.off.Z)

			// The viewport centre moves by the offset.
			sx, sy := cam.WorldToScreen(400, 300)
			assertNearTol(t, "centre x", sx, 400+tt.off.X, 1e-9)
			assertNearTol(t, "centre y", sy, 300+tt.off.Y, 1e-9)

			// Distances from the centre scale by the depth zoom.
			ex, ey := cam.WorldToScreen(500, 300)
			assertNearTol(t, "edge x", ex-sx, 100*z, 1e-9)
			assertNearTol(t, "edge y", ey-sy, 0, 1e-9)
		})
	}
}

func TestTrajectoryCameraZeroIsIdentity(t *testing.T) {
	cam := trajectoryCamera(Rect{Width: 320, Height: 200}, Vec3{})
	assertMatrix(t, "view", cam.viewMatrix(), identityTransform)
}

func TestCameraApplyMatchesViewMatrix(t *testing.T) {
	cam := Camera{X: 120, Y: 80, Zoom: 2, Viewport: Rect{X: 10, Y: 20, Width: 400, Height: 300}}
	m := identityTransform
	cx, cy := cam.Viewport.Center()
	m = translateAffine(m, cx, cy)
	m = scaleAffine(m, cam.Zoom, cam.Zoom)
	m = translateAffine(m, -cam.X, -cam.Y)
	assertMatrix(t, "apply", m, cam.viewMatrix())

	s := newRecordingSurface(400, 300)
	cam.apply(s)
	if s.transforms != 3 {
		t.Errorf("transforms = %d, want 3", s.transforms)
	}
}
