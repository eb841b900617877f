package lumina

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// idleFadeDuration is how long the idle mark takes to fade in or out.
const idleFadeDuration = 0.8

// idleIndicator is a slowly turning mark shown while no notes sound. It fades
// in when the scene goes quiet and out as soon as notes arrive.
type idleIndicator struct {
	tween *gween.Tween
	alpha float64
	idle  bool
	angle float64
}

func newIdleIndicator() *idleIndicator {
	return &idleIndicator{alpha: 1, idle: true}
}

// update advances the fade by dt seconds. active is the activity flag of the
// last frame; a change restarts the tween from the current alpha.
func (i *idleIndicator) update(dt float32, active bool) {
	if idle := !active; idle != i.idle {
		i.idle = idle
		to := float32(0)
		fn := ease.OutQuad
		if idle {
			to, fn = 1, ease.InOutQuad
		}
		i.tween = gween.New(float32(i.alpha), to, idleFadeDuration, fn)
	}
	if i.tween != nil {
		val, finished := i.tween.Update(dt)
		i.alpha = float64(val)
		if finished {
			i.tween = nil
		}
	}
	if i.alpha > 0 {
		i.angle = math.Mod(i.angle+float64(dt)*0.5, 2*math.Pi)
	}
}

// visible reports whether the mark draws anything.
func (i *idleIndicator) visible() bool { return i.alpha > 0.001 }

func (i *idleIndicator) draw(s Surface) {
	if !i.visible() {
		return
	}
	w, h := s.Size()
	r := math.Min(w, h) * 0.06
	c := Color{0.6, 0.7, 1, 0.5}
	s.Save()
	s.SetAlpha(i.alpha)
	DrawGlowTriangle(s, w/2, h/2, r, i.angle, 6, 1.5, c)
	s.Restore()
}
