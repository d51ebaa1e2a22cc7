package midi

import (
	"math"
	"testing"
)

func TestDecodeBend(t *testing.T) {
	if got := DecodeBend(95, 120); got != 12280 {
		t.Fatalf("DecodeBend(95, 120) = %d, want 12280", got)
	}
	if got := DecodeBend(0x40, 0); got != BendCenter {
		t.Fatalf("center decode = %d", got)
	}
	if got := DecodeBend(0x7F, 0x7F); got != BendMax {
		t.Fatalf("max decode = %d", got)
	}
}

func TestBendBytesRoundTrip(t *testing.T) {
	for v := BendMin; v <= BendMax; v++ {
		lsb, msb := v.Bytes()
		if lsb > 0x7F || msb > 0x7F {
			t.Fatalf("%d: data bytes out of range lsb=%d msb=%d", v, lsb, msb)
		}
		if got := DecodeBend(msb, lsb); got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestBendClamp(t *testing.T) {
	if got := Bend(20000).Clamp(); got != BendMax {
		t.Fatalf("Clamp = %d", got)
	}
	lsb, msb := Bend(20000).Bytes()
	if lsb != 0x7F || msb != 0x7F {
		t.Fatalf("overflow bytes = %d %d", lsb, msb)
	}
	if got := Bend(100).Clamp(); got != 100 {
		t.Fatalf("in-range clamp changed value: %d", got)
	}
}

func TestBendSemitones(t *testing.T) {
	if s := BendCenter.Semitones(24); s != 0 {
		t.Fatalf("center = %v semitones", s)
	}
	if s := BendMin.Semitones(24); s != -24 {
		t.Fatalf("min = %v semitones", s)
	}
	if b := BendFromSemitones(12, 24); b != 12288 {
		t.Fatalf("+12 of 24 = %d, want 12288", b)
	}
	if b := BendFromSemitones(24, 24); b != BendMax {
		t.Fatalf("full range = %d, want clamp to %d", b, BendMax)
	}
	if b := BendFromSemitones(-30, 24); b != BendMin {
		t.Fatalf("below range = %d", b)
	}
	b := BendFromSemitones(3.5, 24)
	if s := b.Semitones(24); math.Abs(s-3.5) > 24.0/8192 {
		t.Fatalf("3.5 semitones came back as %v", s)
	}
}

func TestBendFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want Bend
	}{
		{math.NaN(), BendMin},
		{-5, BendMin},
		{0, BendMin},
		{100.4, 100},
		{100.5, 101},
		{1e9, BendMax},
		{math.Inf(1), BendMax},
	}
	for _, c := range cases {
		if got := BendFromFloat(c.in); got != c.want {
			t.Fatalf("BendFromFloat(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBendSplitOrdersByPitch(t *testing.T) {
	whole, rem := BendCenter.Split(24)
	if whole != 0 || rem != 0 {
		t.Fatalf("center split = %d, %d", whole, rem)
	}

	// slightly flat must sort below the unbent note
	whole, rem = BendFromSemitones(-0.5, 24).Split(24)
	if whole != -1 {
		t.Fatalf("half semitone flat: whole = %d, want -1", whole)
	}
	if rem <= 0 || rem >= int(BendCenter)/24 {
		t.Fatalf("half semitone flat: remainder = %d", rem)
	}

	whole, _ = BendFromSemitones(2.25, 24).Split(24)
	if whole != 2 {
		t.Fatalf("2.25 semitones: whole = %d", whole)
	}
}

func TestBendMessage(t *testing.T) {
	msg := Bend(12280).Message(2)

	var ch uint8
	var rel int16
	var abs uint16
	if !msg.GetPitchBend(&ch, &rel, &abs) {
		t.Fatalf("not a pitch bend: %v", msg)
	}
	if ch != 1 {
		t.Fatalf("channel = %d, want 1 (0-based)", ch)
	}
	if abs != 12280 || rel != 12280-8192 {
		t.Fatalf("abs=%d rel=%d", abs, rel)
	}

	raw := []byte(msg)
	if len(raw) != 3 || raw[0] != 0xE1 || raw[1] != 120 || raw[2] != 95 {
		t.Fatalf("wire bytes = % x", raw)
	}
}
