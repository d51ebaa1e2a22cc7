package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-gliss/midi"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols used by the glide lanes
type Symbols struct {
	Empty    rune // · nothing sounding
	Bend     rune // • bend in progress
	Hold     rune // ─ holding on the target
	Head     rune // ● current position
	Selected rune // ▶ focused parameter
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Empty:    '·',
			Bend:     '•',
			Hold:     '─',
			Head:     '●',
			Selected: '▶',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.25
	RoleFG      = 0.45
	RoleAccent  = 0.5
	RoleCursor  = 0.6
	RoleWarning = 0.8
	RoleSuccess = 1.0

	// voices are spread over this part of the ramp
	voiceLow  = 0.3
	voiceHigh = 1.0
)

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

func (t *Theme) Cursor() lipgloss.Color {
	return t.Color(RoleCursor)
}

func (t *Theme) Warning() lipgloss.Color {
	return t.Color(RoleWarning)
}

func (t *Theme) Success() lipgloss.Color {
	return t.Color(RoleSuccess)
}

// Voice returns the color of an output channel (2-16)
func (t *Theme) Voice(channel uint8) lipgloss.Color {
	idx := int(channel) - int(midi.FirstVoiceChannel)
	idx = min(max(idx, 0), midi.MaxVoices-1)
	norm := voiceLow + (voiceHigh-voiceLow)*float64(idx)/float64(midi.MaxVoices-1)
	return t.Color(norm)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Hex(t.Palette.Lookup(norm))
}

// Hex formats an RGB triple as a lipgloss color
func Hex(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
