package params

import (
	"math"
	"testing"

	"go-gliss/glide"
)

func TestDefaults(t *testing.T) {
	s := NewStore()
	if got := s.Value(PitchBendRange); got != 24 {
		t.Fatalf("bend range = %v", got)
	}
	if got := s.Value(BendDuration); math.Abs(got-2) > 1e-5 {
		t.Fatalf("bend duration = %v", got)
	}
	if got := s.Value(StepPeriods); got != 4 {
		t.Fatalf("step periods = %v", got)
	}
	if s.Mapping() != glide.Closest {
		t.Fatalf("mapping = %s", s.Mapping())
	}
}

func TestSettingsConversion(t *testing.T) {
	s := NewStore()
	got := s.Settings()

	if got.BendRange != 24 || got.Mapping != glide.Closest {
		t.Fatalf("settings = %+v", got)
	}
	if got.Path.Shape != glide.SCurve || got.Path.Random {
		t.Fatalf("path = %+v", got.Path)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	amp := got.Path.Params[glide.Sine].Amplitude.Value
	if math.Abs(amp-8192.0/24) > 0.01 {
		t.Fatalf("one semitone of amplitude = %v bend units", amp)
	}
	if sharp := got.Path.Params[glide.SCurve].Sharpness.Value; math.Abs(sharp-2) > 1e-5 {
		t.Fatalf("sharpness = %v", sharp)
	}

	s.SetValue(PitchBendRange, 12)
	s.SetValue(SawAmplitudeRandomness, 2)
	got = s.Settings()
	saw := got.Path.Params[glide.Saw].Amplitude
	if math.Abs(saw.Value-8192.0/12) > 0.05 || math.Abs(saw.Spread-2*8192.0/12) > 0.1 {
		t.Fatalf("saw amplitude at range 12 = %+v", saw)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	s := NewStore()
	for i, m := range glide.Mappings {
		s.SetValue(Mapping, float64(i))
		if s.Mapping() != m {
			t.Fatalf("mapping %d came back as %s", i, s.Mapping())
		}
	}
	for i, shape := range glide.Shapes {
		s.SetValue(Path, float64(i))
		if got := s.Settings().Path; got.Shape != shape || got.Random {
			t.Fatalf("path %d came back as %+v", i, got)
		}
	}

	s.SetNormalized(Path, 1)
	if !s.Settings().Path.Random {
		t.Fatalf("top of the path range is not random")
	}
	s.SetNormalized(Mapping, 1)
	if s.Mapping() != glide.Random {
		t.Fatalf("top of the mapping range = %s", s.Mapping())
	}
	s.SetNormalized(Mapping, 0)
	if s.Mapping() != glide.Closest {
		t.Fatalf("bottom of the mapping range = %s", s.Mapping())
	}
}

func TestNudge(t *testing.T) {
	s := NewStore()

	s.Nudge(PitchBendRange, 1)
	if got := s.Value(PitchBendRange); got != 25 {
		t.Fatalf("range after +1 = %v", got)
	}
	s.SetValue(PitchBendRange, 48)
	s.Nudge(PitchBendRange, 5)
	if got := s.Value(PitchBendRange); got != 48 {
		t.Fatalf("range past max = %v", got)
	}

	s.Nudge(Mapping, -1)
	if s.Mapping() != glide.Random {
		t.Fatalf("mapping did not wrap: %s", s.Mapping())
	}
	s.Nudge(Mapping, 1)
	if s.Mapping() != glide.Closest {
		t.Fatalf("mapping did not wrap back: %s", s.Mapping())
	}

	before := s.Value(HoldDuration)
	s.Nudge(HoldDuration, 10)
	if got := s.Value(HoldDuration); math.Abs(got-before-0.79) > 1e-4 {
		t.Fatalf("hold %v -> %v", before, got)
	}
}

func TestNormalizedClamps(t *testing.T) {
	s := NewStore()
	s.SetNormalized(SinPhase, 3)
	if s.Normalized(SinPhase) != 1 {
		t.Fatalf("normalized = %v", s.Normalized(SinPhase))
	}
	s.SetNormalized(SinPhase, float32(math.NaN()))
	if s.Normalized(SinPhase) != 0 {
		t.Fatalf("NaN stored as %v", s.Normalized(SinPhase))
	}
}

func TestParamTable(t *testing.T) {
	if len(All()) != NumParams || NumParams != 28 {
		t.Fatalf("%d params", NumParams)
	}
	for _, p := range All() {
		c := p.Config()
		if c.Name == "" || c.Max < c.Min {
			t.Fatalf("bad config for %d: %+v", p, c)
		}
		if c.Kind != Category && (c.Default < c.Min || c.Default > c.Max) {
			t.Fatalf("%s default %v outside [%v, %v]", p, c.Default, c.Min, c.Max)
		}
		if r, ok := p.Randomness(); ok && r.Config().Name != c.Name+" Randomness" {
			t.Fatalf("%s pairs with %s", p, r)
		}
	}
	if Param(99).Valid() || Param(99).String() != "Param(99)" {
		t.Fatalf("invalid param handling")
	}
}
