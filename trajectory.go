package lumina

import "math"

// TrajectoryKind selects the motion function of a track.
type TrajectoryKind uint8

const (
	TrajectoryWhitney TrajectoryKind = iota
	TrajectoryLissajous
	TrajectoryOrbit
	TrajectoryXAxis
	TrajectoryYAxis
	TrajectoryTriangle
	TrajectoryCircle
)

var trajectoryNames = [...]string{
	"Whitney", "Lissajous", "Orbit", "X Axis", "Y Axis", "Triangle", "Circle",
}

// String returns the display name of the kind.
func (k TrajectoryKind) String() string {
	if int(k) < len(trajectoryNames) {
		return trajectoryNames[k]
	}
	return "Unknown"
}

// TrajectoryKinds lists every kind in display order.
func TrajectoryKinds() []TrajectoryKind {
	return []TrajectoryKind{
		TrajectoryWhitney, TrajectoryLissajous, TrajectoryOrbit,
		TrajectoryXAxis, TrajectoryYAxis, TrajectoryTriangle, TrajectoryCircle,
	}
}

// TrackTrajectoryConfig describes the motion of one track.
type TrackTrajectoryConfig struct {
	Enabled    bool
	Kind       TrajectoryKind
	MotionRate float64
	RatioA     float64
	RatioB     float64
	RatioC     float64
	Offset     Vec3
	Phase      Vec3
	Amplitude  float64
	Inversion  bool
}

// DefaultTrackTrajectoryConfig returns a disabled Whitney configuration.
func DefaultTrackTrajectoryConfig() TrackTrajectoryConfig {
	return TrackTrajectoryConfig{
		Kind:       TrajectoryWhitney,
		MotionRate: 1,
		RatioA:     1,
		RatioB:     2,
		RatioC:     3,
		Amplitude:  100,
	}
}

// TrajectoryUpdate carries a partial change. Nil fields are left untouched.
type TrajectoryUpdate struct {
	Enabled    *bool
	Kind       *TrajectoryKind
	MotionRate *float64
	RatioA     *float64
	RatioB     *float64
	RatioC     *float64
	Offset     *Vec3
	Phase      *Vec3
	Amplitude  *float64
	Inversion  *bool
}

func (u TrajectoryUpdate) apply(c *TrackTrajectoryConfig) {
	if u.Enabled != nil {
		c.Enabled = *u.Enabled
	}
	if u.Kind != nil {
		c.Kind = *u.Kind
	}
	if u.MotionRate != nil {
		c.MotionRate = *u.MotionRate
	}
	if u.RatioA != nil {
		c.RatioA = *u.RatioA
	}
	if u.RatioB != nil {
		c.RatioB = *u.RatioB
	}
	if u.RatioC != nil {
		c.RatioC = *u.RatioC
	}
	if u.Offset != nil {
		c.Offset = *u.Offset
	}
	if u.Phase != nil {
		c.Phase = *u.Phase
	}
	if u.Amplitude != nil {
		c.Amplitude = *u.Amplitude
	}
	if u.Inversion != nil {
		c.Inversion = *u.Inversion
	}
}

// TrajectorySettings are global adjustments applied on top of every track.
// Speed scales time, Amplitude scales each track's amplitude and PhaseOffset
// is added to every phase term.
type TrajectorySettings struct {
	Speed       float64
	Amplitude   float64
	PhaseOffset float64
}

// DefaultTrajectorySettings returns the neutral settings.
func DefaultTrajectorySettings() TrajectorySettings {
	return TrajectorySettings{Speed: 1, Amplitude: 1}
}

// TrajectoryEngine maps time to a spatial offset per track.
type TrajectoryEngine struct {
	Settings TrajectorySettings

	tracks     map[int]*TrackTrajectoryConfig
	trackCount int
}

// NewTrajectoryEngine creates an engine with trackCount default tracks
// numbered from 1. Other ids are defaulted on first use.
func NewTrajectoryEngine(trackCount int) *TrajectoryEngine {
	e := &TrajectoryEngine{
		Settings:   DefaultTrajectorySettings(),
		trackCount: trackCount,
	}
	e.ResetAllConfigs()
	return e
}

func (e *TrajectoryEngine) track(id int) *TrackTrajectoryConfig {
	c, ok := e.tracks[id]
	if !ok {
		d := DefaultTrackTrajectoryConfig()
		c = &d
		e.tracks[id] = c
	}
	return c
}

// TrackConfig returns a copy of the configuration of track id.
func (e *TrajectoryEngine) TrackConfig(id int) TrackTrajectoryConfig {
	return *e.track(id)
}

// UpdateTrackConfig applies a partial change to track id.
func (e *TrajectoryEngine) UpdateTrackConfig(id int, u TrajectoryUpdate) {
	u.apply(e.track(id))
}

// ResetTrackConfig restores track id to the defaults.
func (e *TrajectoryEngine) ResetTrackConfig(id int) {
	*e.track(id) = DefaultTrackTrajectoryConfig()
}

// ResetAllConfigs discards every track configuration and recreates the
// default tracks.
func (e *TrajectoryEngine) ResetAllConfigs() {
	e.tracks = make(map[int]*TrackTrajectoryConfig, e.trackCount)
	for id := 1; id <= e.trackCount; id++ {
		e.track(id)
	}
}

// Position returns base displaced by the trajectory of track id at time t.
// A disabled track returns base exactly.
func (e *TrajectoryEngine) Position(id int, t float64, base Vec3) Vec3 {
	c := e.track(id)
	if !c.Enabled {
		return base
	}
	scaled := *c
	scaled.Amplitude *= e.Settings.Amplitude
	scaled.Phase = Vec3{
		c.Phase.X + e.Settings.PhaseOffset,
		c.Phase.Y + e.Settings.PhaseOffset,
		c.Phase.Z + e.Settings.PhaseOffset,
	}
	off := TrajectoryOffset(t*c.MotionRate*e.Settings.Speed, scaled)
	if c.Inversion {
		off = off.Neg()
	}
	return base.Add(off)
}

// TrajectoryOffset evaluates the motion function of c at scaled time t.
// Unknown kinds yield a zero offset.
func TrajectoryOffset(t float64, c TrackTrajectoryConfig) Vec3 {
	a, off, ph := c.Amplitude, c.Offset, c.Phase
	switch c.Kind {
	case TrajectoryWhitney:
		return Vec3{
			off.X + a*math.Cos(c.RatioA*t+ph.X),
			off.Y + a*math.Sin(c.RatioB*t+ph.Y),
			off.Z + a*math.Sin(c.RatioC*t+ph.Z),
		}
	case TrajectoryLissajous:
		return Vec3{
			off.X + a*math.Sin(c.RatioA*t+ph.X),
			off.Y + a*math.Sin(c.RatioB*t+ph.Y),
			off.Z + a*math.Sin(c.RatioC*t+ph.Z),
		}
	case TrajectoryOrbit:
		outer, inner := c.RatioA*t+ph.X, c.RatioB*t+ph.Y
		return Vec3{
			off.X + 0.6*a*math.Cos(outer) + 0.4*a*math.Cos(inner),
			off.Y + 0.6*a*math.Sin(outer) + 0.4*a*math.Sin(inner),
			off.Z,
		}
	case TrajectoryXAxis:
		return Vec3{off.X + a*math.Sin(c.RatioA*t+ph.X), off.Y, off.Z}
	case TrajectoryYAxis:
		return Vec3{off.X, off.Y + a*math.Sin(c.RatioA*t+ph.X), off.Z}
	case TrajectoryTriangle:
		return Vec3{
			off.X + a*triWave(c.RatioA*t+ph.X),
			off.Y + a*triWave(c.RatioB*t+ph.Y),
			off.Z,
		}
	case TrajectoryCircle:
		return Vec3{
			off.X + a*math.Cos(c.RatioA*t+ph.X),
			off.Y + a*math.Sin(c.RatioA*t+ph.X),
			off.Z,
		}
	default:
		return Vec3{}
	}
}

// triWave is a period-1 triangle wave in [-1, 1].
func triWave(x float64) float64 {
	return 2*math.Abs(2*(x-math.Floor(x+0.5))) - 1
}
