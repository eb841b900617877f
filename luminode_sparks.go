package lumina

import "math"

// noteKey identifies one strike of a pitch.
type noteKey struct {
	pitch     int
	timestamp float64
}

// Sparks bursts particles from a pitch-dependent point each time a note is
// struck. Sparks outlive their note and fade on their own.
type Sparks struct {
	s   Surface
	cfg *Config

	emitter *sparkEmitter
	seen    map[noteKey]bool
	lastT   float64
	started bool
}

// NewSparks creates a Sparks luminode with its own particle emitter.
func NewSparks(s Surface, cfg *Config) *Sparks {
	return &Sparks{
		s:       s,
		cfg:     cfg,
		emitter: newSparkEmitter(defaultSparkConfig()),
		seen:    make(map[noteKey]bool),
	}
}

// Name returns "sparks".
func (l *Sparks) Name() string { return "sparks" }

// Params declares particles per burst, launch speed and particle size.
func (l *Sparks) Params() []ParamSpec {
	return []ParamSpec{
		intParam("count", 1, 128, 24),
		numberParam("speed", 0.1, 4, 0.05, 1),
		numberParam("size", 0.25, 4, 0.05, 1),
	}
}

// maxSparkStep caps the simulation step after a stall.
const maxSparkStep = 0.1

// Draw bursts for newly struck notes, then advances and draws every live
// particle. Particles keep flying after their note ends.
func (l *Sparks) Draw(t float64, notes []Note, p *Params) {
	dt := 0.0
	if l.started {
		dt = clamp(t-l.lastT, 0, maxSparkStep)
	}
	l.lastT, l.started = t, true
	l.emitter.update(dt)

	w, h := l.s.Size()
	current := make(map[noteKey]bool, len(notes))
	for _, n := range notes {
		k := noteKey{n.Pitch, n.Timestamp}
		current[k] = true
		if l.seen[k] {
			continue
		}
		origin := sparkOrigin(n, w, h)
		count := int(math.Ceil(float64(p.Int("count")) * (0.25 + 0.75*n.Velocity)))
		l.emitter.burst(origin.X, origin.Y, count, p.Float("speed")*(0.5+n.Velocity), PitchColor(n.Pitch, n.Velocity))
	}
	l.seen = current

	scale := p.Float("size")
	for _, sp := range l.emitter.live() {
		l.s.FillRect(sp.x-sp.size*scale/2, sp.y-sp.size*scale/2, sp.size*scale, sp.size*scale, sp.color.WithAlpha(sp.alpha))
	}
}

// sparkOrigin spreads pitches across the width; louder notes launch higher.
func sparkOrigin(n Note, w, h float64) Vec2 {
	return Vec2{
		X: w * (0.05 + 0.9*float64(n.Pitch)/127),
		Y: h * (0.75 - 0.4*n.Velocity),
	}
}
