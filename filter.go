package lumina

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// glowFilter softens a stroke layer with a Kawase blur: repeated bilinear
// downscales followed by upscales back to the destination size. No shader is
// needed; linear filtering during DrawImage does the work.
type glowFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

func newGlowFilter(radius int) *glowFilter {
	if radius < 0 {
		radius = 0
	}
	return &glowFilter{Radius: radius}
}

// passes is log2(radius), minimum 1.
func (f *glowFilter) passes() int {
	if f.Radius <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(f.Radius))))
}

// Apply renders src blurred into dst. The region is (w, h) pixels from the
// top-left of both images, which may be larger pooled textures.
func (f *glowFilter) Apply(src, dst *ebiten.Image, w, h int) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := f.passes()
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	// Downscale: each pass halves the size.
	current := src
	cw, ch := w, h
	for i := 0; i < passes; i++ {
		nw, nh := max(cw/2, 1), max(ch/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != nw || f.temps[i].Bounds().Dy() != nh {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(nw, nh)
		} else {
			f.temps[i].Clear()
		}
		f.scaleInto(f.temps[i], current, cw, ch, nw, nh)
		current, cw, ch = f.temps[i], nw, nh
	}

	// Upscale back through the chain.
	for i := passes - 2; i >= 0; i-- {
		tw, th := f.temps[i].Bounds().Dx(), f.temps[i].Bounds().Dy()
		f.temps[i].Clear()
		f.scaleInto(f.temps[i], current, cw, ch, tw, th)
		current, cw, ch = f.temps[i], tw, th
	}

	f.scaleInto(dst, current, cw, ch, w, h)
}

func (f *glowFilter) scaleInto(dst, src *ebiten.Image, sw, sh, tw, th int) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(float64(tw)/float64(sw), float64(th)/float64(sh))
	op.Filter = ebiten.FilterLinear
	if src.Bounds().Dx() != sw || src.Bounds().Dy() != sh {
		src = src.SubImage(imageRect(sw, sh)).(*ebiten.Image)
	}
	dst.DrawImage(src, op)
}

// Dispose releases the intermediate images.
func (f *glowFilter) Dispose() {
	for _, t := range f.temps {
		if t != nil {
			t.Deallocate()
		}
	}
	f.temps = nil
}
