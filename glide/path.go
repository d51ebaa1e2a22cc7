package glide

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"go-gliss/debug"
	"go-gliss/midi"
)

// Shape is the curve a glide follows between its start and target bend
type Shape int

const (
	SCurve Shape = iota
	Linear
	Sine
	Step
	Triangle
	Saw

	numShapes = 6
)

// Shapes lists every shape in parameter order
var Shapes = [numShapes]Shape{SCurve, Linear, Sine, Step, Triangle, Saw}

func (s Shape) String() string {
	switch s {
	case SCurve:
		return "S-Curve"
	case Linear:
		return "Linear"
	case Sine:
		return "Sine"
	case Step:
		return "Step"
	case Triangle:
		return "Triangle"
	case Saw:
		return "Saw"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// UsesPeriods reports whether the shape divides by its period count
func (s Shape) UsesPeriods() bool {
	switch s {
	case Sine, Step, Triangle, Saw:
		return true
	}
	return false
}

var ErrZeroPeriods = errors.New("glide: path periods must be non-zero")

// MinSharpness keeps the S-curve from flattening into a jump
const MinSharpness = 1.0

// Path is one concrete realization of a curve. Amplitude is in bend units.
type Path struct {
	Shape     Shape
	Amplitude float64
	Periods   float64
	Sharpness float64
	Phase     float64
}

// HoldPath keeps a constant bend; used for freshly spawned voices
var HoldPath = Path{Shape: Linear}

// Validate rejects paths the sampler cannot evaluate
func (p Path) Validate() error {
	if p.Shape < 0 || p.Shape >= numShapes {
		return fmt.Errorf("glide: unknown shape %d", int(p.Shape))
	}
	if p.Shape.UsesPeriods() && p.Periods == 0 {
		return ErrZeroPeriods
	}
	for _, v := range [...]float64{p.Amplitude, p.Periods, p.Sharpness, p.Phase} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("glide: non-finite path parameter in %+v", p)
		}
	}
	return nil
}

// Sample returns the bend (as a float, unclamped) at progress t in [0,1]
// moving from start to target.
func (p Path) Sample(t, start, target float64) float64 {
	amount := start + t*(target-start)
	switch p.Shape {
	case Linear:
		return amount
	case SCurve:
		// the logistic blend is asymptotic at both ends
		if t <= 0 {
			return start
		}
		if t >= 1 {
			return target
		}
		factor := 1 / (1 + math.Pow(t/(1-t), -p.Sharpness))
		return start + (target-start)*factor
	case Sine:
		w := 2 * math.Pi * p.Periods
		return amount + p.Amplitude*(math.Sin(w*(t+p.Phase))-math.Sin(w*p.Phase))
	case Step:
		return start + math.Floor(t*p.Periods)*(target-start)/p.Periods
	case Triangle:
		return amount + phased(triangleWave, t, p)
	case Saw:
		return amount + phased(sawWave, t, p)
	}
	return amount
}

// phased shifts a wave by p.Phase while keeping its value at t=0 fixed
func phased(wave func(t, amplitude, periods float64) float64, t float64, p Path) float64 {
	v := wave(t+p.Phase, p.Amplitude, p.Periods)
	if p.Phase != 0 {
		v -= wave(p.Phase, p.Amplitude, p.Periods) - wave(0, p.Amplitude, p.Periods)
	}
	return v
}

func triangleWave(t, amplitude, periods float64) float64 {
	x := 2*t - 1
	p := 2 / periods
	m := math.Mod(x-p/4, p)
	if m < 0 {
		m += p
	}
	return (4*amplitude/p)*math.Abs(m-p/2) - amplitude
}

func sawWave(t, amplitude, periods float64) float64 {
	x := t * periods
	return amplitude * 2 * (x - math.Floor(x+0.5))
}

// Bend samples the path and rounds into the 14-bit range
func (p Path) Bend(t float64, start, target midi.Bend) midi.Bend {
	return midi.BendFromFloat(p.Sample(t, float64(start), float64(target)))
}

// Jitter is a value with a symmetric randomization half-width
type Jitter struct {
	Value  float64
	Spread float64
}

// Sample draws uniformly from [Value-Spread, Value+Spread]
func (j Jitter) Sample(rng *rand.Rand) float64 {
	if j.Spread <= 0 || rng == nil {
		return j.Value
	}
	return j.Value + (2*rng.Float64()-1)*j.Spread
}

// ShapeParams are the tunables for one shape
type ShapeParams struct {
	Amplitude Jitter
	Periods   Jitter
	Sharpness Jitter
	Phase     Jitter
}

// PathBuilder describes the family of paths new glides are drawn from
type PathBuilder struct {
	Shape  Shape
	Random bool // choose a shape per glide
	Params [numShapes]ShapeParams
}

// DefaultPathBuilder matches the parameter defaults for a 24 semitone range
func DefaultPathBuilder() PathBuilder {
	oneSemitone := float64(midi.BendCenter) / DefaultBendRange
	b := PathBuilder{Shape: SCurve}
	for _, s := range Shapes {
		b.Params[s] = ShapeParams{
			Amplitude: Jitter{Value: oneSemitone},
			Periods:   Jitter{Value: 4},
			Sharpness: Jitter{Value: 2},
		}
	}
	return b
}

// Build draws one concrete path
func (b PathBuilder) Build(rng *rand.Rand) Path {
	shape := b.Shape
	if b.Random && rng != nil {
		shape = Shapes[rng.IntN(numShapes)]
	}
	if shape < 0 || shape >= numShapes {
		shape = SCurve
	}
	sp := b.Params[shape]
	p := Path{
		Shape:     shape,
		Amplitude: sp.Amplitude.Sample(rng),
		Periods:   sp.Periods.Sample(rng),
		Sharpness: math.Max(MinSharpness, sp.Sharpness.Sample(rng)),
		Phase:     sp.Phase.Sample(rng),
	}
	if shape.UsesPeriods() {
		// whole periods so every wave ends on the target
		p.Periods = math.Max(1, math.Round(p.Periods))
	}
	if err := p.Validate(); err != nil {
		debug.LogEvery(100, "path", "%v, falling back to linear", err)
		return Path{Shape: Linear}
	}
	return p
}
