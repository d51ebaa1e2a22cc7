package glide

import "fmt"

// Defaults mirror the parameter table defaults
const (
	DefaultBendRange     = 24.0
	DefaultBendDuration  = 2.0
	DefaultHoldDuration  = 2.0
	DefaultCaptureWindow = 0.2

	MinBendRange = 2.0
	MaxBendRange = 48.0
)

// Settings are the live parameters read at each chord dispatch.
// Durations are in seconds, BendRange in semitones.
type Settings struct {
	BendDuration  float64
	HoldDuration  float64
	CaptureWindow float64
	BendRange     float64
	Mapping       Mapping
	Path          PathBuilder
}

// DefaultSettings returns the startup settings
func DefaultSettings() Settings {
	return Settings{
		BendDuration:  DefaultBendDuration,
		HoldDuration:  DefaultHoldDuration,
		CaptureWindow: DefaultCaptureWindow,
		BendRange:     DefaultBendRange,
		Mapping:       Closest,
		Path:          DefaultPathBuilder(),
	}
}

// Validate checks ranges that would break the engine
func (s Settings) Validate() error {
	switch {
	case s.BendDuration < 0:
		return fmt.Errorf("glide: negative bend duration %v", s.BendDuration)
	case s.HoldDuration < 0:
		return fmt.Errorf("glide: negative hold duration %v", s.HoldDuration)
	case s.CaptureWindow < 0:
		return fmt.Errorf("glide: negative capture window %v", s.CaptureWindow)
	case !(s.BendRange >= MinBendRange && s.BendRange <= MaxBendRange):
		return fmt.Errorf("glide: bend range %v outside %v-%v", s.BendRange, MinBendRange, MaxBendRange)
	}
	return nil
}
