package params

import (
	"math"
	"sync/atomic"

	"go-gliss/glide"
	"go-gliss/midi"
)

// Store is the live parameter set. Values are kept normalized and may be
// read and written from any goroutine.
type Store struct {
	values [NumParams]atomic.Uint32
}

// NewStore returns a store holding every default
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset restores every default
func (s *Store) Reset() {
	for _, p := range All() {
		c := p.Config()
		s.SetNormalized(p, c.ToNormalized(c.Default))
	}
}

// Normalized returns p in [0,1]
func (s *Store) Normalized(p Param) float32 {
	return math.Float32frombits(s.values[p].Load())
}

// SetNormalized stores p, clamping to [0,1]
func (s *Store) SetNormalized(p Param, v float32) {
	s.values[p].Store(math.Float32bits(float32(clamp01(float64(v)))))
}

// Value returns p in its natural units
func (s *Store) Value(p Param) float64 {
	return p.Config().FromNormalized(s.Normalized(p))
}

// SetValue stores p from its natural units
func (s *Store) SetValue(p Param, v float64) {
	s.SetNormalized(p, p.Config().ToNormalized(v))
}

// Nudge moves p by steps editing increments. Categories wrap around.
func (s *Store) Nudge(p Param, steps int) {
	c := p.Config()
	if c.Kind == Category {
		n := len(c.Categories)
		idx := (int(s.Value(p)) + steps%n + n) % n
		s.SetValue(p, float64(idx))
		return
	}
	s.SetValue(p, s.Value(p)+float64(steps)*c.Step())
}

// Display formats p for the monitor
func (s *Store) Display(p Param) string {
	return p.Config().Format(s.Value(p))
}

// Mapping returns the selected chord mapping
func (s *Store) Mapping() glide.Mapping {
	return glide.Mappings[int(s.Value(Mapping))]
}

// Settings converts the current values into engine settings. Semitone
// amplitudes are scaled to bend units for the current range.
func (s *Store) Settings() glide.Settings {
	bendRange := s.Value(PitchBendRange)
	semitone := float64(midi.BendCenter) / bendRange

	jitter := func(p Param) glide.Jitter {
		j := glide.Jitter{Value: s.Value(p)}
		if r, ok := p.Randomness(); ok {
			j.Spread = s.Value(r)
		}
		if p.Config().Kind == Semitone {
			j.Value *= semitone
			j.Spread *= semitone
		}
		return j
	}

	var path glide.PathBuilder
	if idx := int(s.Value(Path)); idx < len(glide.Shapes) {
		path.Shape = glide.Shapes[idx]
	} else {
		path.Random = true
	}
	path.Params[glide.SCurve] = glide.ShapeParams{Sharpness: jitter(SCurveSharpness)}
	path.Params[glide.Step] = glide.ShapeParams{Periods: jitter(StepPeriods)}
	path.Params[glide.Sine] = glide.ShapeParams{
		Amplitude: jitter(SinAmplitude),
		Periods:   jitter(SinPeriods),
		Phase:     jitter(SinPhase),
	}
	path.Params[glide.Triangle] = glide.ShapeParams{
		Amplitude: jitter(TriangleAmplitude),
		Periods:   jitter(TrianglePeriods),
		Phase:     jitter(TrianglePhase),
	}
	path.Params[glide.Saw] = glide.ShapeParams{
		Amplitude: jitter(SawAmplitude),
		Periods:   jitter(SawPeriods),
		Phase:     jitter(SawPhase),
	}

	return glide.Settings{
		BendDuration:  s.Value(BendDuration),
		HoldDuration:  s.Value(HoldDuration),
		CaptureWindow: s.Value(ChordCaptureDuration),
		BendRange:     bendRange,
		Mapping:       s.Mapping(),
		Path:          path,
	}
}
