package theme

import (
	"strings"
	"testing"
)

const gpl = `GIMP Palette
Name: Test
Columns: 2
# comment
0 0 0	black
255 255 255	white
not a color
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if p.Name != "Test" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 127}) {
		t.Fatalf("midpoint = %v", got)
	}
	if p.Lookup(-1) != (RGB{}) || p.Lookup(2) != (RGB{255, 255, 255}) {
		t.Fatalf("lookup does not clamp")
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Fatalf("empty palette accepted")
	}
	if _, err := ParseGPL(strings.NewReader("300 0 0\n")); err == nil {
		t.Fatalf("out of range component accepted")
	}
}

func TestVoiceColors(t *testing.T) {
	th := New(nil)
	if th.Palette.Name != "gliss" {
		t.Fatalf("default palette = %s", th.Palette.Name)
	}
	if th.Voice(2) == th.Voice(16) {
		t.Fatalf("first and last voice share a color")
	}
	if th.Voice(0) != th.Voice(2) || th.Voice(20) != th.Voice(16) {
		t.Fatalf("voice colors not clamped to the channel range")
	}
	if c := string(th.Voice(9)); !strings.HasPrefix(c, "#") || len(c) != 7 {
		t.Fatalf("color = %q", c)
	}
}
