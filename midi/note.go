package midi

import (
	"errors"
	"math"
	"time"
)

var (
	ErrNotNoteOn = errors.New("midi: not a note-on message")
	ErrNaNTime   = errors.New("midi: note time is NaN")
)

// NoteEvent is a captured note-on
type NoteEvent struct {
	Channel      uint8 // source channel, informational
	Number       uint8
	Velocity     uint8
	Time         float64 // seconds since engine origin
	BendDuration float64
	DisplayTime  time.Duration

	NewVoice    bool
	KeyReleased bool
}

// NewNoteEvent parses a raw note-on
func NewNoteEvent(raw RawEvent, bendDuration float64) (NoteEvent, error) {
	if math.IsNaN(raw.Time) {
		return NoteEvent{}, ErrNaNTime
	}
	if !raw.IsNoteOn() {
		return NoteEvent{}, ErrNotNoteOn
	}
	vel := raw.Velocity
	if vel == 0 {
		vel = DefaultVelocity
	}
	return NoteEvent{
		Channel:      raw.SourceChannel(),
		Number:       raw.Note & 0x7F,
		Velocity:     vel,
		Time:         raw.Time,
		BendDuration: bendDuration,
		DisplayTime:  SecondsToDuration(raw.Time),
	}, nil
}

// SecondsToDuration converts engine seconds into a display duration
func SecondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
