package lumina

import (
	"math"
	"math/rand/v2"
)

// spark holds per-particle simulation state. Managed by sparkEmitter.
type spark struct {
	x, y    float64
	vx, vy  float64
	life    float64 // remaining lifetime in seconds
	maxLife float64 // initial lifetime (for computing t)
	size    float64
	alpha   float64
	color   Color
}

// sparkConfig controls how bursts spawn and behave.
type sparkConfig struct {
	// MaxParticles is the pool size. New sparks are silently dropped when full.
	MaxParticles int
	// Lifetime is the range of spark lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// Size is the range of radii at birth; sparks shrink to zero.
	Size Range
	// Gravity is the constant acceleration applied to all sparks.
	Gravity Vec2
	// Drag is the fraction of velocity lost per second.
	Drag float64
}

func defaultSparkConfig() sparkConfig {
	return sparkConfig{
		MaxParticles: 1024,
		Lifetime:     Range{Min: 0.4, Max: 1.2},
		Speed:        Range{Min: 60, Max: 260},
		Angle:        Range{Min: 0, Max: 2 * math.Pi},
		Size:         Range{Min: 1.5, Max: 4},
		Gravity:      Vec2{Y: 120},
		Drag:         0.8,
	}
}

// sparkEmitter is a fixed pool of sparks with CPU simulation.
type sparkEmitter struct {
	config sparkConfig
	sparks []spark
	alive  int
}

func newSparkEmitter(cfg sparkConfig) *sparkEmitter {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	return &sparkEmitter{config: cfg, sparks: make([]spark, n)}
}

// AliveCount returns the number of live sparks.
func (e *sparkEmitter) AliveCount() int { return e.alive }

// Reset kills every spark.
func (e *sparkEmitter) Reset() { e.alive = 0 }

// burst spawns up to n sparks at (x, y). speedScale multiplies the
// configured speed range.
func (e *sparkEmitter) burst(x, y float64, n int, speedScale float64, c Color) {
	for i := 0; i < n && e.alive < len(e.sparks); i++ {
		p := &e.sparks[e.alive]

		angle := e.config.Angle.Random()
		speed := e.config.Speed.Random() * speedScale
		p.vx = math.Cos(angle) * speed
		p.vy = math.Sin(angle) * speed
		p.x, p.y = x, y

		p.life = e.config.Lifetime.Random()
		if p.life <= 0 {
			p.life = 1.0
		}
		p.maxLife = p.life
		p.size = e.config.Size.Random()
		p.alpha = 1
		p.color = c

		e.alive++
	}
}

// update advances the simulation by dt seconds, swap-removing dead sparks.
func (e *sparkEmitter) update(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt
	drag := math.Max(0, 1-e.config.Drag*dt)

	i := 0
	for i < e.alive {
		p := &e.sparks[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.sparks[i] = e.sparks[e.alive]
			continue
		}

		p.vx = (p.vx + gx) * drag
		p.vy = (p.vy + gy) * drag
		p.x += p.vx * dt
		p.y += p.vy * dt

		p.alpha = lerp(1, 0, 1-p.life/p.maxLife)
		i++
	}
}

// live returns the live sparks. The slice is only valid until the next
// update or burst.
func (e *sparkEmitter) live() []spark {
	return e.sparks[:e.alive]
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
