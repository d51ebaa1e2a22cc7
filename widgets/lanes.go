package widgets

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"go-gliss/glide"
	"go-gliss/midi"
	"go-gliss/theme"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName formats a MIDI note number, middle C (60) is C4
func NoteName(n uint8) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n)/12-1)
}

// Window is the span of time drawn around the snapshot time
type Window struct {
	Past  time.Duration
	Ahead time.Duration
}

func (w Window) bounds(now float64) (from, to time.Duration) {
	t := midi.SecondsToDuration(now)
	return t - w.Past, t + w.Ahead
}

// column returns the time at the center of column c
func (w Window) column(now float64, c, width int) time.Duration {
	from, to := w.bounds(now)
	return from + time.Duration((float64(c)+0.5)*float64(to-from)/float64(width))
}

// cell is one styled character
type cell struct {
	r     rune
	color lipgloss.Color
}

// renderRow joins cells, styling runs of equal color together
func renderRow(cells []cell) string {
	var out strings.Builder
	var run strings.Builder
	var color lipgloss.Color
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if color == "" {
			out.WriteString(run.String())
		} else {
			out.WriteString(lipgloss.NewStyle().Foreground(color).Render(run.String()))
		}
		run.Reset()
	}
	for _, c := range cells {
		if c.color != color {
			flush()
			color = c.color
		}
		run.WriteRune(c.r)
	}
	flush()
	return out.String()
}

// Lanes draws one row per voice channel: where each channel is bending or
// holding across the window, plus its current note and pitch.
type Lanes struct {
	Theme  *theme.Theme
	Width  int
	Window Window
}

func (l Lanes) View(s *glide.Snapshot) string {
	if s == nil || l.Width <= 0 {
		return ""
	}
	sym := l.Theme.Symbols
	dim := lipgloss.NewStyle().Foreground(l.Theme.Muted())
	nowCol := int(float64(l.Width) * float64(l.Window.Past) / float64(l.Window.Past+l.Window.Ahead))

	var active [midi.LastVoiceChannel + 1]*glide.GlideView
	for i := range s.Glides {
		active[s.Glides[i].Channel] = &s.Glides[i]
	}

	lines := make([]string, 0, midi.MaxVoices)
	cells := make([]cell, l.Width)
	for ch := midi.FirstVoiceChannel; ch <= midi.LastVoiceChannel; ch++ {
		color := l.Theme.Voice(ch)
		for c := range cells {
			cells[c] = cell{r: sym.Empty, color: l.Theme.Muted()}
			t := l.Window.column(s.Time, c, l.Width)
			// later renders supersede earlier ones on the same channel
			for _, r := range s.Renders {
				if r.Channel != ch || t < r.Start() || t > r.End() {
					continue
				}
				cells[c] = cell{r: sym.Hold, color: color}
				if t < r.Hold[0].Time {
					cells[c].r = sym.Bend
				}
			}
			if c == nowCol && cells[c].r != sym.Empty {
				cells[c].r = sym.Head
			}
		}

		label := dim.Render(fmt.Sprintf("ch%02d %-14s", ch, ""))
		if g := active[ch]; g != nil {
			text := fmt.Sprintf("ch%02d %-4s→%-4s %+5.1f", ch, NoteName(g.Note), NoteName(g.Target), g.Pitch-float64(g.Target))
			label = lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%-20s", text))
		}
		lines = append(lines, label+" "+renderRow(cells))
	}
	return strings.Join(lines, "\n")
}

// Plot draws the rendered glide trajectories on a pitch/time grid
type Plot struct {
	Theme  *theme.Theme
	Width  int
	Height int
	Window Window
}

func (p Plot) View(s *glide.Snapshot) string {
	if s == nil || p.Width <= 0 || p.Height <= 1 {
		return ""
	}
	from, to := p.Window.bounds(s.Time)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range s.Renders {
		if r.End() < from || r.Start() > to {
			continue
		}
		for _, pt := range r.Bend {
			lo, hi = math.Min(lo, pt.Pitch), math.Max(hi, pt.Pitch)
		}
	}
	if math.IsInf(lo, 0) {
		return lipgloss.NewStyle().Foreground(p.Theme.Muted()).Render("no glides")
	}
	lo, hi = math.Floor(lo)-1, math.Ceil(hi)+1

	grid := make([][]cell, p.Height)
	for y := range grid {
		grid[y] = make([]cell, p.Width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}
	sym := p.Theme.Symbols
	for _, r := range s.Renders {
		color := p.Theme.Voice(r.Channel)
		for x := 0; x < p.Width; x++ {
			t := p.Window.column(s.Time, x, p.Width)
			pitch, ok := r.PitchAt(t)
			if !ok {
				continue
			}
			y := int(math.Round((hi - pitch) / (hi - lo) * float64(p.Height-1)))
			y = min(max(y, 0), p.Height-1)
			c := cell{r: sym.Hold, color: color}
			if t < r.Hold[0].Time {
				c.r = sym.Bend
			}
			grid[y][x] = c
		}
	}

	dim := lipgloss.NewStyle().Foreground(p.Theme.Muted())
	lines := make([]string, p.Height)
	for y, row := range grid {
		pitch := hi - (hi-lo)*float64(y)/float64(p.Height-1)
		label := "     "
		if y == 0 || y == p.Height-1 || y == p.Height/2 {
			label = fmt.Sprintf("%-5s", NoteName(uint8(min(max(math.Round(pitch), 0), 127))))
		}
		lines[y] = dim.Render(label) + renderRow(row)
	}
	return strings.Join(lines, "\n")
}
