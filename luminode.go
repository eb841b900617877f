package lumina

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Luminode is an independent drawing module reacting to the notes of one
// channel. Draw is called once per frame with that channel's notes, which may
// be empty; an empty list draws nothing. Implementations hold the shared
// Surface but never own it, and re-read its size on every call.
type Luminode interface {
	// Name identifies the luminode type. Modulators target luminodes by name.
	Name() string
	// Params declares the modulatable parameters and their ranges.
	Params() []ParamSpec
	Draw(t float64, notes []Note, p *Params)
}

// ParamSpec names a luminode parameter.
type ParamSpec struct {
	Key string
	ConfigParam
}

func numberParam(key string, lo, hi, step, def float64) ParamSpec {
	return ParamSpec{key, ConfigParam{Min: lo, Max: hi, Step: step, Type: ParamNumber, Default: def}}
}

func intParam(key string, lo, hi, def float64) ParamSpec {
	return ParamSpec{key, ConfigParam{Min: lo, Max: hi, Step: 1, Type: ParamInt, Default: def}}
}

func checkboxParam(key string, def bool) ParamSpec {
	return ParamSpec{key, ConfigParam{Min: 0, Max: 1, Step: 1, Type: ParamCheckbox, Default: boolValue(def)}}
}

// Params holds the resolved parameter values for one draw call, after
// modulation, plus the trajectory offset of the luminode's track.
type Params struct {
	values map[string]float64
	Offset Vec3
}

// NewParams returns params initialised to the defaults of specs.
func NewParams(specs []ParamSpec) *Params {
	p := &Params{values: make(map[string]float64, len(specs))}
	for _, s := range specs {
		p.values[s.Key] = s.Default
	}
	return p
}

// Set stores a value.
func (p *Params) Set(key string, v float64) {
	if p.values == nil {
		p.values = make(map[string]float64)
	}
	p.values[key] = v
}

// Float returns the value of key, or 0 if unset.
func (p *Params) Float(key string) float64 {
	if p == nil {
		return 0
	}
	return p.values[key]
}

// Int returns the value of key rounded to the nearest integer.
func (p *Params) Int(key string) int {
	return int(math.Round(p.Float(key)))
}

// Bool reports whether the value of key is at least 0.5.
func (p *Params) Bool(key string) bool {
	return p.Float(key) >= 0.5
}

// Layer binds a luminode to the channel it reads and the track whose
// modulators and trajectory apply to it. Base overrides parameter defaults.
type Layer struct {
	Luminode Luminode
	Channel  string
	Track    int
	Base     map[string]float64

	params *Params
}

// base returns the unmodulated value of spec on this layer.
func (l *Layer) base(spec ParamSpec) float64 {
	if v, ok := l.Base[spec.Key]; ok {
		return v
	}
	return spec.Default
}

// Channel names, one per note-consuming luminode. The two grid variants share
// one channel.
const (
	ChannelGradient      = "gradient"
	ChannelScanlines     = "scanlines"
	ChannelGrid          = "grid"
	ChannelBars          = "bars"
	ChannelStripes       = "stripes"
	ChannelWobble        = "wobble"
	ChannelTriangle      = "triangle"
	ChannelPolygon       = "polygon"
	ChannelOrbit         = "orbit"
	ChannelLissajous     = "lissajous"
	ChannelPulse         = "pulse"
	ChannelSparks        = "sparks"
	ChannelConstellation = "constellation"
)

// DefaultLayers returns the built-in luminodes in draw order: background
// first, then structural, then note-reactive shapes. Later layers composite
// over earlier ones.
func DefaultLayers(s Surface, cfg *Config) []Layer {
	nodes := []struct {
		l  Luminode
		ch string
	}{
		{NewGradient(s, cfg), ChannelGradient},
		{NewScanlines(s, cfg), ChannelScanlines},
		{NewGrid(s, cfg), ChannelGrid},
		{NewGridMirror(s, cfg), ChannelGrid},
		{NewBars(s, cfg), ChannelBars},
		{NewStripes(s, cfg), ChannelStripes},
		{NewWobble(s, cfg), ChannelWobble},
		{NewTriangle(s, cfg), ChannelTriangle},
		{NewPolygon(s, cfg), ChannelPolygon},
		{NewOrbit(s, cfg), ChannelOrbit},
		{NewLissajous(s, cfg), ChannelLissajous},
		{NewPulse(s, cfg), ChannelPulse},
		{NewSparks(s, cfg), ChannelSparks},
		{NewConstellation(s, cfg), ChannelConstellation},
	}
	tracks := max(cfg.TrackCount, 1)
	layers := make([]Layer, len(nodes))
	for i, n := range nodes {
		layers[i] = Layer{Luminode: n.l, Channel: n.ch, Track: i%tracks + 1}
	}
	return layers
}

// Channels returns the distinct channel names of layers in order.
func Channels(layers []Layer) []string {
	var out []string
	for _, l := range layers {
		if !slices.Contains(out, l.Channel) {
			out = append(out, l.Channel)
		}
	}
	return out
}

// --- helpers shared by luminodes ---

// pitchSignature returns the sorted distinct pitches of notes joined by
// commas. Velocity does not contribute.
func pitchSignature(notes []Note) string {
	pitches := make([]int, 0, len(notes))
	for _, n := range notes {
		pitches = append(pitches, n.Pitch)
	}
	slices.Sort(pitches)
	pitches = slices.Compact(pitches)

	parts := make([]string, len(pitches))
	for i, p := range pitches {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// sortedByPitch returns a copy of notes ordered by ascending pitch.
func sortedByPitch(notes []Note) []Note {
	out := slices.Clone(notes)
	slices.SortStableFunc(out, func(a, b Note) int { return a.Pitch - b.Pitch })
	return out
}

func minDim(s Surface) float64 {
	w, h := s.Size()
	return math.Min(w, h)
}

// fadeOut maps a note's age to an opacity that falls from 1 to 0 over
// maxAge seconds.
func fadeOut(age, maxAge float64) float64 {
	if maxAge <= 0 {
		return 1
	}
	return clamp01(1 - age/maxAge)
}
