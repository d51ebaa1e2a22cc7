package glide

import (
	"errors"
	"slices"
	"testing"

	"go-gliss/midi"
)

func note(number uint8, at float64) midi.NoteEvent {
	return midi.NoteEvent{Number: number, Velocity: 100, Time: at, BendDuration: 2}
}

func TestChordCaptureWindow(t *testing.T) {
	c := NewChord(note(64, 1), 0.25)

	if err := c.Append(note(67, 1.1)); err != nil {
		t.Fatalf("in window: %v", err)
	}
	if err := c.Append(note(72, 1.25+1e-9)); !errors.Is(err, ErrTooLate) {
		t.Fatalf("just after window: %v", err)
	}
	if err := c.Append(note(55, 0.75-1e-9)); !errors.Is(err, ErrTooEarly) {
		t.Fatalf("before window: %v", err)
	}
	if err := c.Append(note(67, 1.2)); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: %v", err)
	}
	if len(c.Notes) != 2 {
		t.Fatalf("rejected notes were kept: %v", c.Numbers())
	}
}

func TestChordKeepsNotesSorted(t *testing.T) {
	c := NewChord(note(67, 0), 0.25)
	for _, n := range []uint8{60, 72, 64, 48} {
		if err := c.Append(note(n, 0.01)); err != nil {
			t.Fatalf("append %d: %v", n, err)
		}
	}
	if got, want := c.Numbers(), []uint8{48, 60, 64, 67, 72}; !slices.Equal(got, want) {
		t.Fatalf("Numbers = %v, want %v", got, want)
	}
}

func TestChordStartIsEarliestNote(t *testing.T) {
	c := NewChord(note(60, 1), 0.25)
	if err := c.Append(note(64, 0.9)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if c.Start != 0.9 {
		t.Fatalf("Start = %v, want 0.9", c.Start)
	}
}

func TestChordDoneCapturing(t *testing.T) {
	c := NewChord(note(60, 1), 0.25)
	if c.DoneCapturing(1.25) {
		t.Fatalf("done at the window edge")
	}
	if !c.DoneCapturing(1.25 + 1e-9) {
		t.Fatalf("not done after the window")
	}
}

func TestChordMarkReleased(t *testing.T) {
	c := NewChord(note(60, 0), 0.25)
	c.Append(note(64, 0))
	if !c.MarkReleased(64) {
		t.Fatalf("release of a chord note missed")
	}
	if c.MarkReleased(65) {
		t.Fatalf("release of a foreign note hit")
	}
	if c.Notes[0].KeyReleased || !c.Notes[1].KeyReleased {
		t.Fatalf("release flags = %v %v", c.Notes[0].KeyReleased, c.Notes[1].KeyReleased)
	}
}
