package glide

import (
	"cmp"
	"slices"
	"time"

	"go-gliss/midi"
)

// RenderSamples is the number of segments used to draw curved paths
const RenderSamples = 500

// Point is a position on the pitch/time plane
type Point struct {
	Time  time.Duration // since engine origin
	Pitch float64       // fractional MIDI note number
}

// Render is the drawable geometry of one glide: the bend curve followed by a
// flat hold segment.
type Render struct {
	Channel uint8
	Note    uint8
	Target  uint8
	Shape   Shape
	Bend    []Point
	Hold    [2]Point
}

// Start returns when the bend begins
func (r Render) Start() time.Duration {
	if len(r.Bend) == 0 {
		return r.Hold[0].Time
	}
	return r.Bend[0].Time
}

// End returns when the note is released
func (r Render) End() time.Duration {
	return r.Hold[1].Time
}

func (r Render) empty() bool {
	return len(r.Bend) == 0
}

// truncate ends the render at t. A render that has not started by t is
// emptied. Point slices are shared with published snapshots, so they are
// reallocated rather than written.
func (r *Render) truncate(t time.Duration) {
	switch {
	case t >= r.End():
		return
	case r.empty() || t <= r.Start():
		*r = Render{Channel: r.Channel}
		return
	case t >= r.Hold[0].Time:
		r.Hold[1].Time = t
		return
	}
	pitch, _ := r.PitchAt(t)
	keep := slices.IndexFunc(r.Bend, func(p Point) bool { return p.Time >= t })
	end := Point{Time: t, Pitch: pitch}
	r.Bend = append(r.Bend[:keep:keep], end)
	r.Hold = [2]Point{end, end}
}

// PitchAt interpolates the drawn pitch at t, reporting false outside the render
func (r Render) PitchAt(t time.Duration) (float64, bool) {
	if len(r.Bend) == 0 || t < r.Bend[0].Time || t > r.Hold[1].Time {
		return 0, false
	}
	if t >= r.Hold[0].Time {
		return r.Hold[0].Pitch, true
	}
	i, _ := slices.BinarySearchFunc(r.Bend, t, func(p Point, t time.Duration) int {
		return cmp.Compare(p.Time, t)
	})
	if i == 0 {
		return r.Bend[0].Pitch, true
	}
	if i >= len(r.Bend) {
		return r.Hold[0].Pitch, true
	}
	a, c := r.Bend[i-1], r.Bend[i]
	if c.Time == a.Time {
		return c.Pitch, true
	}
	f := float64(t-a.Time) / float64(c.Time-a.Time)
	return a.Pitch + f*(c.Pitch-a.Pitch), true
}

// Render samples the glide's full trajectory. Linear paths need only their
// endpoints.
func (g *ChannelGlide) Render(samples int) Render {
	if samples < 1 || g.Path.Shape == Linear {
		samples = 1
	}
	pitch := func(b midi.Bend) float64 {
		return float64(g.Note.Number) + b.Semitones(g.Range)
	}

	points := make([]Point, samples+1)
	span := g.Stop - g.Start
	for i := range points {
		t := g.Start + span*float64(i)/float64(samples)
		points[i] = Point{Time: midi.SecondsToDuration(t), Pitch: pitch(g.BendAt(t))}
	}
	end := points[len(points)-1]

	return Render{
		Channel: g.Channel,
		Note:    g.Note.Number,
		Target:  g.Target.Number,
		Shape:   g.Path.Shape,
		Bend:    points,
		Hold:    [2]Point{end, {Time: midi.SecondsToDuration(g.Release), Pitch: end.Pitch}},
	}
}
