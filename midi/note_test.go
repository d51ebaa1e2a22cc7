package midi

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewNoteEvent(t *testing.T) {
	n, err := NewNoteEvent(RawEvent{Status: 0x91, Note: 60, Velocity: 100, Time: 1.25}, 2)
	if err != nil {
		t.Fatalf("NewNoteEvent: %v", err)
	}
	if n.Number != 60 || n.Velocity != 100 || n.Channel != 2 || n.BendDuration != 2 {
		t.Fatalf("unexpected note %+v", n)
	}
	if n.DisplayTime != 1250*time.Millisecond {
		t.Fatalf("display time = %v", n.DisplayTime)
	}
	if n.NewVoice || n.KeyReleased {
		t.Fatalf("flags set on a fresh note: %+v", n)
	}
}

func TestNewNoteEventRejects(t *testing.T) {
	_, err := NewNoteEvent(RawEvent{Status: NoteOn, Note: 60, Velocity: 100, Time: math.NaN()}, 2)
	if !errors.Is(err, ErrNaNTime) {
		t.Fatalf("NaN time: err = %v", err)
	}
	_, err = NewNoteEvent(RawEvent{Status: NoteOff, Note: 60, Time: 1}, 2)
	if !errors.Is(err, ErrNotNoteOn) {
		t.Fatalf("note-off: err = %v", err)
	}
}

func TestNewNoteEventDefaultVelocity(t *testing.T) {
	n, err := NewNoteEvent(RawEvent{Status: NoteOn, Note: 60, Time: 0}, 1)
	if err != nil {
		t.Fatalf("NewNoteEvent: %v", err)
	}
	if n.Velocity != DefaultVelocity {
		t.Fatalf("velocity = %d, want %d", n.Velocity, DefaultVelocity)
	}
}
