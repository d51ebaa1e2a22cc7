package glide

import (
	"sync/atomic"

	"go-gliss/midi"
)

// GlideView is a read-only copy of one glide
type GlideView struct {
	Channel uint8
	Note    uint8
	Target  uint8
	Pitch   float64
	Bend    midi.Bend
	Phase   Phase
	Shape   Shape
	Start   float64
	Stop    float64
	Release float64
}

// ChordView is a read-only copy of one captured chord
type ChordView struct {
	Start      float64
	Notes      []midi.NoteEvent
	Dispatched bool
}

// Snapshot is an immutable picture of the engine for readers on other
// goroutines.
type Snapshot struct {
	Time     float64
	Settings Settings
	Chords   []ChordView
	Glides   []GlideView
	Renders  []Render
	Stats    Stats
}

// Snapshot copies the engine state at now. It allocates and is meant to be
// called after a tick, not inside one.
func (e *Engine) Snapshot(now float64) *Snapshot {
	s := &Snapshot{
		Time:     now,
		Settings: e.settings,
		Chords:   make([]ChordView, len(e.chords)),
		Glides:   make([]GlideView, len(e.glides)),
		Renders:  make([]Render, len(e.renders)),
		Stats:    e.stats,
	}
	for i, c := range e.chords {
		s.Chords[i] = ChordView{
			Start:      c.Start,
			Notes:      append([]midi.NoteEvent(nil), c.Notes...),
			Dispatched: c.Dispatched,
		}
	}
	for i, g := range e.glides {
		s.Glides[i] = GlideView{
			Channel: g.Channel,
			Note:    g.Note.Number,
			Target:  g.Target.Number,
			Pitch:   g.CurrentPitch(),
			Bend:    g.CurrentBend,
			Phase:   g.PhaseAt(now),
			Shape:   g.Path.Shape,
			Start:   g.Start,
			Stop:    g.Stop,
			Release: g.Release,
		}
	}
	// render point slices are never mutated after creation, sharing is safe
	copy(s.Renders, e.renders)
	return s
}

// Exchange is a single-slot mailbox: the owner publishes, readers load the
// latest value without blocking the owner.
type Exchange struct {
	p atomic.Pointer[Snapshot]
}

// Publish replaces the current snapshot
func (x *Exchange) Publish(s *Snapshot) {
	x.p.Store(s)
}

// Load returns the latest snapshot, or nil before the first publish
func (x *Exchange) Load() *Snapshot {
	return x.p.Load()
}
