package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn    uint8 = 0x90
	NoteOff   uint8 = 0x80
	PitchBend uint8 = 0xE0
)

// Output channel bounds. Channel 1 is left to the pass-through instrument.
const (
	FirstVoiceChannel uint8 = 2
	LastVoiceChannel  uint8 = 16
	MaxVoices               = int(LastVoiceChannel-FirstVoiceChannel) + 1
)

// DefaultVelocity is used when a note has no captured velocity
const DefaultVelocity uint8 = 64

// Event is an outbound message. Channel is 1-based (1-16).
type Event struct {
	Type     uint8 // NoteOn, NoteOff, PitchBend
	Channel  uint8
	Note     uint8
	Velocity uint8
	Bend     Bend
}

// Message converts the event into a gomidi message (gomidi channels are 0-based)
func (e Event) Message() gomidi.Message {
	ch := e.Channel - 1
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(ch, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOff(ch, e.Note)
	case PitchBend:
		return e.Bend.Message(e.Channel)
	}
	return nil
}

// Bytes returns the three wire bytes of the event
func (e Event) Bytes() [3]byte {
	status := e.Type | ((e.Channel - 1) & 0x0F)
	switch e.Type {
	case PitchBend:
		lsb, msb := e.Bend.Bytes()
		return [3]byte{status, lsb, msb}
	case NoteOff:
		return [3]byte{status, e.Note, 0}
	default:
		return [3]byte{status, e.Note, e.Velocity}
	}
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("note-on ch=%d note=%d vel=%d", e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return fmt.Sprintf("note-off ch=%d note=%d", e.Channel, e.Note)
	case PitchBend:
		return fmt.Sprintf("bend ch=%d value=%d", e.Channel, e.Bend)
	}
	return fmt.Sprintf("event type=%#x ch=%d", e.Type, e.Channel)
}

// RawEvent is an incoming channel-voice message stamped with the engine clock
// (seconds since the engine origin).
type RawEvent struct {
	Status   uint8
	Note     uint8
	Velocity uint8
	Time     float64
}

// IsNoteOn reports a note-on status byte (144-159)
func (r RawEvent) IsNoteOn() bool {
	return r.Status >= 0x90 && r.Status <= 0x9F
}

// IsNoteOff reports a note-off status byte (128-143)
func (r RawEvent) IsNoteOff() bool {
	return r.Status >= 0x80 && r.Status <= 0x8F
}

// SourceChannel returns the 1-based channel encoded in the status byte
func (r RawEvent) SourceChannel() uint8 {
	return r.Status&0x0F + 1
}

// FromMessage converts a gomidi note message into a RawEvent.
// Anything other than note-on/note-off is rejected.
func FromMessage(msg gomidi.Message, t float64) (RawEvent, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		return RawEvent{Status: NoteOn | ch, Note: key, Velocity: vel, Time: t}, true
	case msg.GetNoteOff(&ch, &key, &vel):
		return RawEvent{Status: NoteOff | ch, Note: key, Velocity: vel, Time: t}, true
	}
	return RawEvent{}, false
}
