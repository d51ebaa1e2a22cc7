// Package params holds the live parameter set: a fixed, ordered table of
// parameters stored as normalized [0,1] values, convertible to engine
// settings and persisted as presets.
package params

import (
	"fmt"
	"math"

	"go-gliss/glide"
)

// Param identifies one parameter. The order is the preset file order.
type Param int

const (
	PitchBendRange Param = iota
	BendDuration
	HoldDuration
	ChordCaptureDuration
	Mapping
	Path
	SCurveSharpness
	SCurveSharpnessRandomness
	StepPeriods
	StepPeriodsRandomness
	SinAmplitude
	SinAmplitudeRandomness
	SinPeriods
	SinPeriodsRandomness
	SinPhase
	SinPhaseRandomness
	TriangleAmplitude
	TriangleAmplitudeRandomness
	TrianglePeriods
	TrianglePeriodsRandomness
	TrianglePhase
	TrianglePhaseRandomness
	SawAmplitude
	SawAmplitudeRandomness
	SawPeriods
	SawPeriodsRandomness
	SawPhase
	SawPhaseRandomness

	NumParams = iota
)

// Kind tells how a parameter's value is interpreted
type Kind int

const (
	Continuous Kind = iota
	Integer
	Semitone // amplitude in semitones, converted to bend units
	Category
)

// Config describes a parameter
type Config struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Kind    Kind
	// Categories names the options of a Category parameter
	Categories []string
}

// pathCategories are the shapes plus a per-glide random pick
var pathCategories = func() []string {
	names := make([]string, 0, len(glide.Shapes)+1)
	for _, s := range glide.Shapes {
		names = append(names, s.String())
	}
	return append(names, "Random")
}()

var mappingCategories = func() []string {
	names := make([]string, 0, len(glide.Mappings))
	for _, m := range glide.Mappings {
		names = append(names, m.String())
	}
	return names
}()

var configs = [NumParams]Config{
	PitchBendRange:       {Name: "Pitch Bend Range", Unit: "semitones", Min: 2, Max: 48, Default: 24, Kind: Integer},
	BendDuration:         {Name: "Bend Duration", Unit: "secs", Min: 0.03, Max: 8, Default: 2},
	HoldDuration:         {Name: "Hold Duration", Unit: "secs", Min: 0.1, Max: 8, Default: 2},
	ChordCaptureDuration: {Name: "Chord Capture Duration", Unit: "secs", Min: 0.00001, Max: 1, Default: 0.2},
	Mapping:              {Name: "Mapping", Min: 0, Max: 1, Kind: Category, Categories: mappingCategories},
	Path:                 {Name: "Path", Min: 0, Max: 1, Kind: Category, Categories: pathCategories},

	SCurveSharpness:           {Name: "S-Curve Sharpness", Min: 1, Max: 5, Default: 2},
	SCurveSharpnessRandomness: {Name: "S-Curve Sharpness Randomness", Min: 0, Max: 5},
	StepPeriods:               {Name: "Step Periods", Min: 1, Max: 20, Default: 4, Kind: Integer},
	StepPeriodsRandomness:     {Name: "Step Periods Randomness", Min: 0, Max: 10, Kind: Integer},

	SinAmplitude:           {Name: "Sin Amplitude", Unit: "semitones", Min: 0, Max: 12, Default: 1, Kind: Semitone},
	SinAmplitudeRandomness: {Name: "Sin Amplitude Randomness", Unit: "semitones", Min: 0, Max: 6, Kind: Semitone},
	SinPeriods:             {Name: "Sin Periods", Min: 1, Max: 20, Default: 4, Kind: Integer},
	SinPeriodsRandomness:   {Name: "Sin Periods Randomness", Min: 0, Max: 10, Kind: Integer},
	SinPhase:               {Name: "Sin Phase", Unit: "periods", Min: 0, Max: 1},
	SinPhaseRandomness:     {Name: "Sin Phase Randomness", Unit: "periods", Min: 0, Max: 1},

	TriangleAmplitude:           {Name: "Triangle Amplitude", Unit: "semitones", Min: 0, Max: 12, Default: 1, Kind: Semitone},
	TriangleAmplitudeRandomness: {Name: "Triangle Amplitude Randomness", Unit: "semitones", Min: 0, Max: 6, Kind: Semitone},
	TrianglePeriods:             {Name: "Triangle Periods", Min: 1, Max: 20, Default: 4, Kind: Integer},
	TrianglePeriodsRandomness:   {Name: "Triangle Periods Randomness", Min: 0, Max: 10, Kind: Integer},
	TrianglePhase:               {Name: "Triangle Phase", Unit: "periods", Min: 0, Max: 1},
	TrianglePhaseRandomness:     {Name: "Triangle Phase Randomness", Unit: "periods", Min: 0, Max: 1},

	SawAmplitude:           {Name: "Saw Amplitude", Unit: "semitones", Min: 0, Max: 12, Default: 1, Kind: Semitone},
	SawAmplitudeRandomness: {Name: "Saw Amplitude Randomness", Unit: "semitones", Min: 0, Max: 6, Kind: Semitone},
	SawPeriods:             {Name: "Saw Periods", Min: 1, Max: 20, Default: 4, Kind: Integer},
	SawPeriodsRandomness:   {Name: "Saw Periods Randomness", Min: 0, Max: 10, Kind: Integer},
	SawPhase:               {Name: "Saw Phase", Unit: "periods", Min: 0, Max: 1},
	SawPhaseRandomness:     {Name: "Saw Phase Randomness", Unit: "periods", Min: 0, Max: 1},
}

// All lists every parameter in canonical order
func All() []Param {
	out := make([]Param, NumParams)
	for i := range out {
		out[i] = Param(i)
	}
	return out
}

func (p Param) Valid() bool {
	return p >= 0 && p < NumParams
}

// Config returns the parameter's description
func (p Param) Config() Config {
	return configs[p]
}

func (p Param) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return configs[p].Name
}

// Randomness returns the randomization half-width companion of p
func (p Param) Randomness() (Param, bool) {
	switch p {
	case SCurveSharpness, StepPeriods,
		SinAmplitude, SinPeriods, SinPhase,
		TriangleAmplitude, TrianglePeriods, TrianglePhase,
		SawAmplitude, SawPeriods, SawPhase:
		return p + 1, true
	}
	return 0, false
}

// ToNormalized maps a value in [Min, Max] to [0,1]
func (c Config) ToNormalized(v float64) float32 {
	if c.Kind == Category {
		n := len(c.Categories)
		idx := min(max(int(v), 0), n-1)
		return float32((float64(idx) + 0.5) / float64(n))
	}
	if c.Max == c.Min {
		return 0
	}
	return float32(clamp01((v - c.Min) / (c.Max - c.Min)))
}

// FromNormalized maps [0,1] back to a value. Integer kinds are rounded;
// categories return the option index.
func (c Config) FromNormalized(n float32) float64 {
	v := clamp01(float64(n))
	switch c.Kind {
	case Category:
		count := len(c.Categories)
		return float64(min(int(v*float64(count)), count-1))
	case Integer:
		return math.Round(c.Min + v*(c.Max-c.Min))
	}
	return c.Min + v*(c.Max-c.Min)
}

// Step is the increment used for keyboard editing
func (c Config) Step() float64 {
	switch c.Kind {
	case Category, Integer:
		return 1
	}
	return (c.Max - c.Min) / 100
}

// Format renders a value for display
func (c Config) Format(v float64) string {
	switch c.Kind {
	case Category:
		return c.Categories[min(max(int(v), 0), len(c.Categories)-1)]
	case Integer:
		if c.Unit == "" {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.0f %s", v, c.Unit)
	}
	if c.Unit == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, c.Unit)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
