package glide

import (
	"cmp"
	"errors"
	"slices"

	"go-gliss/midi"
)

var (
	ErrTooEarly  = errors.New("glide: note belongs to an earlier chord")
	ErrTooLate   = errors.New("glide: note arrived after the capture window")
	ErrDuplicate = errors.New("glide: note already in chord")
)

// Chord is a set of near-simultaneous notes, sorted by note number.
// It is never empty.
type Chord struct {
	Notes      []midi.NoteEvent
	Start      float64
	Window     float64
	Dispatched bool
}

// NewChord opens a capture starting at the note's time
func NewChord(note midi.NoteEvent, window float64) *Chord {
	return &Chord{
		Notes:  []midi.NoteEvent{note},
		Start:  note.Time,
		Window: window,
	}
}

// Append adds a note captured within the window
func (c *Chord) Append(note midi.NoteEvent) error {
	if note.Time < c.Start-c.Window {
		return ErrTooEarly
	}
	if note.Time > c.Start+c.Window {
		return ErrTooLate
	}
	idx, found := slices.BinarySearchFunc(c.Notes, note.Number, func(n midi.NoteEvent, num uint8) int {
		return cmp.Compare(n.Number, num)
	})
	if found {
		return ErrDuplicate
	}
	c.Notes = slices.Insert(c.Notes, idx, note)
	if note.Time < c.Start {
		c.Start = note.Time
	}
	return nil
}

// DoneCapturing reports whether the window has elapsed
func (c *Chord) DoneCapturing(now float64) bool {
	return now > c.Start+c.Window
}

// MarkReleased flags a key release; the note stays in the chord
func (c *Chord) MarkReleased(number uint8) bool {
	hit := false
	for i := range c.Notes {
		if c.Notes[i].Number == number {
			c.Notes[i].KeyReleased = true
			hit = true
		}
	}
	return hit
}

// Numbers returns the note numbers in ascending order
func (c *Chord) Numbers() []uint8 {
	out := make([]uint8, len(c.Notes))
	for i, n := range c.Notes {
		out[i] = n.Number
	}
	return out
}
