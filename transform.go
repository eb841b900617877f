package lumina

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type affine = [6]float64

// identityTransform is the identity affine matrix.
var identityTransform = affine{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
// The child is applied first.
func multiplyAffine(p, c affine) affine {
	return affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m affine, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// translateAffine returns m with a translation applied in local space.
func translateAffine(m affine, x, y float64) affine {
	return multiplyAffine(m, affine{1, 0, 0, 1, x, y})
}

// rotateAffine returns m with a rotation (radians, clockwise on screen)
// applied in local space.
func rotateAffine(m affine, angle float64) affine {
	sin, cos := math.Sincos(angle)
	return multiplyAffine(m, affine{cos, sin, -sin, cos, 0, 0})
}

// scaleAffine returns m with a scale applied in local space.
func scaleAffine(m affine, sx, sy float64) affine {
	return multiplyAffine(m, affine{sx, 0, 0, sy, 0, 0})
}

// affineScale returns the geometric mean scale factor of m, used to scale
// stroke widths and blur radii along with the geometry.
func affineScale(m affine) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[2]*m[1]))
}

// geoM converts m to an ebiten.GeoM.
func geoM(m affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
