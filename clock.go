package lumina

import "time"

// Clock reports elapsed seconds on a monotonic timeline. Note timestamps and
// frame times share one Clock so ages can be compared directly.
type Clock interface {
	Seconds() float64
}

type wallClock struct {
	start time.Time
}

// NewWallClock returns a Clock whose zero is the moment of the call.
func NewWallClock() Clock {
	return &wallClock{start: time.Now()}
}

// Seconds returns the time elapsed since the clock was created.
func (c *wallClock) Seconds() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock is a Clock advanced by hand. Used for scripted runs and tests.
type ManualClock struct {
	T float64
}

// Seconds returns the current manual time.
func (c *ManualClock) Seconds() float64 { return c.T }

// Set moves the clock to t seconds.
func (c *ManualClock) Set(t float64) { c.T = t }

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) { c.T += dt }
