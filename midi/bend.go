package midi

import (
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Bend is a 14-bit pitch bend value. 8192 is no bend.
type Bend uint16

const (
	BendMin    Bend = 0
	BendCenter Bend = 8192
	BendMax    Bend = 16383
)

// DecodeBend rebuilds a bend from its two 7-bit wire bytes
func DecodeBend(msb, lsb uint8) Bend {
	return Bend(uint16(msb&0x7F)<<7 | uint16(lsb&0x7F))
}

// Clamp limits b to the 14-bit range
func (b Bend) Clamp() Bend {
	if b > BendMax {
		return BendMax
	}
	return b
}

// Bytes returns the (lsb, msb) wire bytes. Out of range values are sent as
// maximum bend since the wire format cannot carry them.
func (b Bend) Bytes() (lsb, msb uint8) {
	v := uint16(b.Clamp())
	return uint8(v & 0x7F), uint8(v >> 7)
}

// Message builds a pitch bend message for a 1-based output channel
func (b Bend) Message(channel uint8) gomidi.Message {
	return gomidi.Pitchbend(channel-1, int16(int(b.Clamp())-int(BendCenter)))
}

// Semitones converts the bend to a signed semitone offset for the given range
func (b Bend) Semitones(bendRange float64) float64 {
	return bendRange * (float64(b) - float64(BendCenter)) / float64(BendCenter)
}

// Split returns whole semitones (rounded down) and the non-negative
// sub-semitone remainder in bend units.
func (b Bend) Split(bendRange float64) (whole, remainder int) {
	semis := b.Semitones(bendRange)
	w := math.Floor(semis)
	return int(w), int((semis - w) / bendRange * float64(BendCenter))
}

// BendFromSemitones is the inverse of Semitones, clamped to the 14-bit range
func BendFromSemitones(semis, bendRange float64) Bend {
	return BendFromFloat(float64(BendCenter) * (1 + semis/bendRange))
}

// BendFromFloat rounds v and clamps it into the 14-bit range
func BendFromFloat(v float64) Bend {
	switch {
	case math.IsNaN(v) || v <= 0:
		return BendMin
	case v >= float64(BendMax):
		return BendMax
	}
	return Bend(math.Round(v))
}
