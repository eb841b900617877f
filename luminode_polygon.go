package lumina

import (
	"math"
	"math/rand/v2"
)

// polygonShape is the cached geometry generated for one pitch.
type polygonShape struct {
	layers    []ContourLayer
	baseAngle float64
	color     Color
}

// Polygon draws multi-layer wobbly outlines, one shape per distinct pitch.
// Shapes are regenerated only when the set of sounding pitches changes; the
// outline jitter is still fresh every frame.
//
// The signature ignores velocity, so a velocity-only change (the same
// pitches struck again harder) keeps the old shapes and colours.
type Polygon struct {
	s   Surface
	cfg *Config

	signature     string
	shapes        []polygonShape
	regenerations int
}

// NewPolygon creates a Polygon luminode with an empty shape cache.
func NewPolygon(s Surface, cfg *Config) *Polygon {
	return &Polygon{s: s, cfg: cfg}
}

// Name returns "polygon".
func (l *Polygon) Name() string { return "polygon" }

// Params declares outline jitter, layer count, spin and line width.
func (l *Polygon) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("jitter", 0, 40, 0.5, 6),
		intParam("layers", 1, 6, 3),
		numberParam("spin", -2, 2, 0.05, 0.2),
		numberParam("lineWidth", 0.5, 8, 0.5, 1.5),
	}
}

// Draw strokes the cached shapes, regenerating them first if the pitch
// signature changed.
func (l *Polygon) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	if sig := pitchSignature(notes); sig != l.signature {
		l.signature = sig
		l.shapes = generatePolygonShapes(sortedByPitch(notes), p.Int("layers"), p.Float("jitter"))
		l.regenerations++
	}

	w, h := l.s.Size()
	m := minDim(l.s)
	for _, sh := range l.shapes {
		layers := make([]ContourLayer, len(sh.layers))
		for i, cl := range sh.layers {
			cl.Radius *= m
			layers[i] = cl
		}
		DrawWobblyContour(l.s, w/2, h/2, sh.baseAngle+t*p.Float("spin"), layers, float64(l.cfg.GlowRadius), p.Float("lineWidth"), sh.color)
	}
}

// generatePolygonShapes builds one shape per distinct pitch. Radii are
// fractions of the surface's short side so resizing does not invalidate the
// cache.
func generatePolygonShapes(sorted []Note, layerCount int, jitter float64) []polygonShape {
	layerCount = max(layerCount, 1)
	var shapes []polygonShape
	last := -1
	for _, n := range sorted {
		if n.Pitch == last {
			continue
		}
		last = n.Pitch
		sides := 3 + n.Pitch%7
		base := 0.08 + 0.3*float64(n.Pitch)/127
		sh := polygonShape{
			baseAngle: rand.Float64() * 2 * math.Pi,
			color:     PitchColor(n.Pitch, n.Velocity),
		}
		for i := 0; i < layerCount; i++ {
			sh.layers = append(sh.layers, ContourLayer{
				Radius: base * (1 + 0.12*float64(i)),
				Jitter: jitter * (1 + rand.Float64()),
				Sides:  sides,
			})
		}
		shapes = append(shapes, sh)
	}
	return shapes
}
