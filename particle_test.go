package lumina

import (
	"math"
	"testing"
)

func testSparkConfig() sparkConfig {
	return sparkConfig{
		MaxParticles: 8,
		Lifetime:     Range{Min: 1, Max: 1},
		Speed:        Range{Min: 100, Max: 100},
		Angle:        Range{Min: 0, Max: 0},
		Size:         Range{Min: 2, Max: 2},
	}
}

func TestSparkBurstRespectsPool(t *testing.T) {
	e := newSparkEmitter(testSparkConfig())
	e.burst(0, 0, 5, 1, ColorWhite)
	if e.AliveCount() != 5 {
		t.Errorf("alive = %d, want 5", e.AliveCount())
	}
	e.burst(0, 0, 10, 1, ColorWhite)
	if e.AliveCount() != 8 {
		t.Errorf("alive = %d, want pool size 8", e.AliveCount())
	}
	e.Reset()
	if e.AliveCount() != 0 || len(e.live()) != 0 {
		t.Error("Reset left sparks alive")
	}
}

func TestSparkEmitterDefaultPool(t *testing.T) {
	e := newSparkEmitter(sparkConfig{})
	if len(e.sparks) != 128 {
		t.Errorf("pool = %d, want 128", len(e.sparks))
	}
}

func TestSparkUpdate(t *testing.T) {
	e := newSparkEmitter(testSparkConfig())
	e.burst(10, 20, 1, 2, ColorWhite)
	sp := e.live()[0]
	assertNear(t, "vx", sp.vx, 200)
	assertNear(t, "vy", sp.vy, 0)

	e.update(0.5)
	sp = e.live()[0]
	assertNear(t, "x", sp.x, 110)
	assertNear(t, "y", sp.y, 20)
	assertNear(t, "alpha", sp.alpha, 0.5)

	e.update(0.6)
	if e.AliveCount() != 0 {
		t.Errorf("alive after lifetime = %d, want 0", e.AliveCount())
	}
}

func TestSparkGravityAndDrag(t *testing.T) {
	cfg := testSparkConfig()
	cfg.Speed = Range{}
	cfg.Gravity = Vec2{Y: 100}
	cfg.Drag = 0.5
	e := newSparkEmitter(cfg)
	e.burst(0, 0, 1, 1, ColorWhite)
	e.update(0.1)
	sp := e.live()[0]
	// (0 + 100*0.1) * (1 - 0.5*0.1)
	assertNear(t, "vy", sp.vy, 9.5)
	assertNear(t, "y", sp.y, 0.95)
}

func TestSparkSwapRemove(t *testing.T) {
	cfg := testSparkConfig()
	e := newSparkEmitter(cfg)
	e.burst(0, 0, 3, 1, ColorWhite)
	e.sparks[1].life = 0.1
	e.update(0.2)
	if e.AliveCount() != 2 {
		t.Fatalf("alive = %d, want 2", e.AliveCount())
	}
	for _, sp := range e.live() {
		if sp.life <= 0 {
			t.Error("dead spark left in the live range")
		}
	}
}

func TestRangeRandom(t *testing.T) {
	r := Range{Min: -2, Max: 3}
	for range 500 {
		v := r.Random()
		if v < r.Min || v > r.Max {
			t.Fatalf("Random() = %v outside [%v, %v]", v, r.Min, r.Max)
		}
	}
	if got := (Range{Min: 4, Max: 4}).Random(); got != 4 {
		t.Errorf("degenerate Random() = %v, want 4", got)
	}
}

func TestLerp(t *testing.T) {
	assertNear(t, "start", lerp(2, 6, 0), 2)
	assertNear(t, "mid", lerp(2, 6, 0.5), 4)
	assertNear(t, "end", lerp(2, 6, 1), 6)
	if !math.IsNaN(lerp(0, 1, math.NaN())) {
		t.Error("lerp should propagate NaN")
	}
}
