package lumina

import (
	"log/slog"
	"math"

	"github.com/tanema/gween/ease"
)

// MaxModulators is the number of modulators an engine holds at once.
const MaxModulators = 4

// --- Waveforms ---

// WaveShape selects the periodic function an LFO modulator follows.
type WaveShape uint8

const (
	ShapeSine WaveShape = iota
	ShapeSquare
	ShapeTriangle
	ShapeSaw
	ShapeCubicBezier
)

var waveShapeNames = [...]string{"Sine", "Square", "Triangle", "Saw", "Cubic Bezier"}

// String returns the display name of the shape.
func (s WaveShape) String() string {
	if int(s) < len(waveShapeNames) {
		return waveShapeNames[s]
	}
	return waveShapeNames[ShapeSine]
}

// WaveShapes lists every shape in display order.
func WaveShapes() []WaveShape {
	return []WaveShape{ShapeSine, ShapeSquare, ShapeTriangle, ShapeSaw, ShapeCubicBezier}
}

// Bezier holds the two inner control points (x1, y1, x2, y2) of a cubic curve
// whose outer points are fixed at (0,0) and (1,1).
type Bezier [4]float64

// DefaultBezier is an ease-in-out curve.
var DefaultBezier = Bezier{0.42, 0, 0.58, 1}

// GenerateWaveform evaluates shape at phase (radians). The phase is wrapped
// into [0, 2π) first, so the result is periodic. The output is in [-1, 1].
// Unknown shapes evaluate as sine.
func GenerateWaveform(shape WaveShape, phase float64, curve Bezier) float64 {
	p := math.Mod(phase, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	if p >= 2*math.Pi || math.IsNaN(p) {
		p = 0
	}

	switch shape {
	case ShapeSquare:
		if p < math.Pi {
			return 1
		}
		return -1
	case ShapeTriangle:
		if p < math.Pi {
			return -1 + 2*p/math.Pi
		}
		return 1 - 2*(p-math.Pi)/math.Pi
	case ShapeSaw:
		return -1 + p/math.Pi
	case ShapeCubicBezier:
		t := p / (2 * math.Pi)
		u := 1 - t
		y := 3*u*u*t*curve[1] + 3*u*t*t*curve[3] + t*t*t
		return clamp01(y)*2 - 1
	default:
		return math.Sin(p)
	}
}

// --- Easing ---

// EasingKind selects the curve that reshapes a normalized activity value.
type EasingKind uint8

const (
	EaseLinear EasingKind = iota
	EaseIn
	EaseOut
	EaseInOut
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseSmoothstep
)

var easingNames = [...]string{
	"Linear", "Ease In", "Ease Out", "Ease In Out",
	"Ease In Cubic", "Ease Out Cubic", "Ease In Out Cubic", "Smoothstep",
}

// String returns the display name of the easing.
func (k EasingKind) String() string {
	if int(k) < len(easingNames) {
		return easingNames[k]
	}
	return easingNames[EaseLinear]
}

// EasingKinds lists every easing in display order.
func EasingKinds() []EasingKind {
	return []EasingKind{
		EaseLinear, EaseIn, EaseOut, EaseInOut,
		EaseInCubic, EaseOutCubic, EaseInOutCubic, EaseSmoothstep,
	}
}

var easeFuncs = map[EasingKind]ease.TweenFunc{
	EaseIn:         ease.InQuad,
	EaseOut:        ease.OutQuad,
	EaseInOut:      ease.InOutQuad,
	EaseInCubic:    ease.InCubic,
	EaseOutCubic:   ease.OutCubic,
	EaseInOutCubic: ease.InOutCubic,
}

// ApplyEasing clamps t to [0, 1] and reshapes it with kind. The endpoints map
// to themselves for every kind. Unknown kinds are linear.
func ApplyEasing(t float64, kind EasingKind) float64 {
	t = clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	switch kind {
	case EaseLinear:
		return t
	case EaseSmoothstep:
		return t * t * (3 - 2*t)
	}
	fn, ok := easeFuncs[kind]
	if !ok {
		return t
	}
	return clamp01(float64(fn(float32(t), 0, 1, 1)))
}

// --- Parameters ---

// ParamType is the value domain of a luminode parameter.
type ParamType uint8

const (
	ParamNumber ParamType = iota
	ParamInt
	ParamCheckbox
)

// ConfigParam declares the range and type of a modulatable parameter.
type ConfigParam struct {
	Min, Max float64
	Step     float64
	Type     ParamType
	Default  float64
}

// --- Modulators ---

// ModulatorType selects what drives a modulator.
type ModulatorType uint8

const (
	ModLFO ModulatorType = iota
	ModNumberOfNotes
	ModVelocity
)

var modulatorTypeNames = [...]string{"LFO", "Number of Notes", "Velocity"}

// String returns the display name of the modulator type.
func (m ModulatorType) String() string {
	if int(m) < len(modulatorTypeNames) {
		return modulatorTypeNames[m]
	}
	return modulatorTypeNames[ModLFO]
}

// ModulatorTypes lists every modulator type in display order.
func ModulatorTypes() []ModulatorType {
	return []ModulatorType{ModLFO, ModNumberOfNotes, ModVelocity}
}

// Modulator perturbs one luminode parameter on one track. A modulator with an
// empty TargetKey is inert. An empty TargetLuminode matches every luminode.
type Modulator struct {
	ID             int
	Type           ModulatorType
	Enabled        bool
	TargetTrack    int
	TargetKey      string
	TargetLuminode string

	// LFO
	Shape  WaveShape
	Rate   float64 // cycles per second
	Depth  float64
	Offset float64
	Curve  Bezier

	// Note-driven
	Multiplier float64
	Easing     EasingKind

	// Threshold is the activity level above which checkbox parameters turn on.
	Threshold float64
}

// ModulatorUpdate carries a partial change. Nil fields are left untouched.
type ModulatorUpdate struct {
	Type           *ModulatorType
	Enabled        *bool
	TargetTrack    *int
	TargetKey      *string
	TargetLuminode *string
	Shape          *WaveShape
	Rate           *float64
	Depth          *float64
	Offset         *float64
	Curve          *Bezier
	Multiplier     *float64
	Easing         *EasingKind
	Threshold      *float64
}

func (u ModulatorUpdate) apply(m *Modulator) {
	if u.Type != nil {
		m.Type = *u.Type
	}
	if u.Enabled != nil {
		m.Enabled = *u.Enabled
	}
	if u.TargetTrack != nil {
		m.TargetTrack = *u.TargetTrack
	}
	if u.TargetKey != nil {
		m.TargetKey = *u.TargetKey
	}
	if u.TargetLuminode != nil {
		m.TargetLuminode = *u.TargetLuminode
	}
	if u.Shape != nil {
		m.Shape = *u.Shape
	}
	if u.Rate != nil {
		m.Rate = *u.Rate
	}
	if u.Depth != nil {
		m.Depth = *u.Depth
	}
	if u.Offset != nil {
		m.Offset = *u.Offset
	}
	if u.Curve != nil {
		m.Curve = *u.Curve
	}
	if u.Multiplier != nil {
		m.Multiplier = *u.Multiplier
	}
	if u.Easing != nil {
		m.Easing = *u.Easing
	}
	if u.Threshold != nil {
		m.Threshold = *u.Threshold
	}
}

// NoteData is the live note input for note-driven modulators. When Velocity is
// set it is used instead of averaging Notes.
type NoteData struct {
	Notes    []Note
	Velocity *float64
}

// ModulationEngine owns the modulator list and evaluates it against
// parameters. It is not safe for concurrent use; the scene touches it only
// from the frame goroutine.
type ModulationEngine struct {
	clock      Clock
	start      float64
	modulators []Modulator
	nextID     int
	log        *slog.Logger
}

// NewModulationEngine creates an empty engine. LFO phase is measured from the
// moment of construction on clock.
func NewModulationEngine(clock Clock) *ModulationEngine {
	if clock == nil {
		clock = NewWallClock()
	}
	return &ModulationEngine{
		clock:  clock,
		start:  clock.Seconds(),
		nextID: 1,
		log:    logger,
	}
}

// SetLogger replaces the engine's logger.
func (e *ModulationEngine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// AddModulator appends a modulator of the given type with default settings.
// It returns false when the engine already holds MaxModulators.
func (e *ModulationEngine) AddModulator(typ ModulatorType) (int, bool) {
	if len(e.modulators) >= MaxModulators {
		e.log.Debug("modulator capacity reached", "max", MaxModulators)
		return 0, false
	}
	m := Modulator{
		ID:          e.nextID,
		Type:        typ,
		Enabled:     true,
		TargetTrack: 1,
		Shape:       ShapeSine,
		Rate:        0.5,
		Depth:       0.5,
		Curve:       DefaultBezier,
		Multiplier:  1,
		Easing:      EaseLinear,
		Threshold:   0.5,
	}
	e.nextID++
	e.modulators = append(e.modulators, m)
	e.log.Debug("modulator added", "id", m.ID, "type", typ.String())
	return m.ID, true
}

// RemoveModulator deletes the modulator with id.
func (e *ModulationEngine) RemoveModulator(id int) bool {
	for i := range e.modulators {
		if e.modulators[i].ID == id {
			e.modulators = append(e.modulators[:i], e.modulators[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateModulator applies a partial change to the modulator with id.
func (e *ModulationEngine) UpdateModulator(id int, u ModulatorUpdate) bool {
	for i := range e.modulators {
		if e.modulators[i].ID == id {
			u.apply(&e.modulators[i])
			return true
		}
	}
	return false
}

// Modulators returns a copy of the modulator list in insertion order.
func (e *ModulationEngine) Modulators() []Modulator {
	return append([]Modulator(nil), e.modulators...)
}

// Reset removes every modulator and restarts the LFO clock.
func (e *ModulationEngine) Reset() {
	e.modulators = nil
	e.nextID = 1
	e.start = e.clock.Seconds()
}

// Elapsed returns the seconds since the engine started.
func (e *ModulationEngine) Elapsed() float64 {
	return e.clock.Seconds() - e.start
}

// GetModulatedValue returns base reshaped by a single modulator. Numeric
// results are clamped to [param.Min, param.Max]; checkbox results are 0 or 1.
func (e *ModulationEngine) GetModulatedValue(base float64, m Modulator, param ConfigParam, nd *NoteData) float64 {
	if !m.Enabled || m.TargetKey == "" {
		return base
	}
	span := param.Max - param.Min

	switch m.Type {
	case ModNumberOfNotes:
		if nd == nil || len(nd.Notes) == 0 {
			return base
		}
		norm := math.Min(1, float64(len(nd.Notes))*m.Multiplier/10)
		if param.Type == ParamCheckbox {
			return boolValue(norm > m.Threshold)
		}
		return mapToParam(param.Min+ApplyEasing(norm, m.Easing)*span, param)

	case ModVelocity:
		vel, ok := nd.velocity()
		if !ok {
			return base
		}
		norm := clamp01(vel * m.Multiplier)
		if param.Type == ParamCheckbox {
			// Thresholds apply to the raw activity, before easing.
			return boolValue(norm > m.Threshold)
		}
		return mapToParam(param.Min+ApplyEasing(norm, m.Easing)*span, param)

	default:
		phase := e.Elapsed() * m.Rate * 2 * math.Pi
		wave := GenerateWaveform(m.Shape, phase, m.Curve)
		signal := wave*m.Depth + m.Offset
		if param.Type == ParamCheckbox {
			return boolValue(clamp01((signal+1)/2) > m.Threshold)
		}
		return mapToParam(base+signal*span, param)
	}
}

// ApplyModulation folds every enabled modulator targeting (trackID, luminode,
// key) over base, in insertion order.
func (e *ModulationEngine) ApplyModulation(trackID int, luminode, key string, base float64, param ConfigParam, nd *NoteData) float64 {
	v := base
	for _, m := range e.modulators {
		if !m.Enabled || m.TargetKey != key || m.TargetTrack != trackID {
			continue
		}
		if m.TargetLuminode != "" && m.TargetLuminode != luminode {
			continue
		}
		v = e.GetModulatedValue(v, m, param, nd)
	}
	return v
}

func (nd *NoteData) velocity() (float64, bool) {
	if nd == nil {
		return 0, false
	}
	if nd.Velocity != nil {
		return *nd.Velocity, true
	}
	if len(nd.Notes) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, n := range nd.Notes {
		sum += n.Velocity
	}
	return sum / float64(len(nd.Notes)), true
}

func mapToParam(v float64, param ConfigParam) float64 {
	if param.Type == ParamInt {
		v = math.Round(v)
	}
	return clamp(v, param.Min, param.Max)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
