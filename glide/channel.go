package glide

import (
	"cmp"
	"errors"
	"fmt"
	"math"

	"go-gliss/midi"
)

var ErrBendRange = errors.New("glide: target outside pitch bend range")

// Phase of a channel glide
type Phase int

const (
	Bending Phase = iota
	Holding
	Released
)

func (p Phase) String() string {
	switch p {
	case Bending:
		return "bend"
	case Holding:
		return "hold"
	}
	return "off"
}

// ChannelGlide drives one output channel: a sounding note whose pitch is
// bent from StartBend to TargetBend over [Start, Stop], held until Release,
// then released.
type ChannelGlide struct {
	Channel uint8
	Note    midi.NoteEvent // the note-on that is sounding
	Target  midi.NoteEvent // the note currently glided towards

	Start   float64
	Stop    float64
	Release float64

	StartBend   midi.Bend
	TargetBend  midi.Bend
	CurrentBend midi.Bend

	Path   Path
	Range  float64
	Active bool
}

// StartGlide creates a glide on channel and returns the note-on to send
func StartGlide(channel uint8, note midi.NoteEvent, now, bendDuration, holdDuration, bendRange float64, path Path) (*ChannelGlide, midi.Event) {
	g := &ChannelGlide{
		Channel:     channel,
		Note:        note,
		Target:      note,
		Start:       now,
		Stop:        now + bendDuration,
		Release:     now + bendDuration + holdDuration,
		StartBend:   midi.BendCenter,
		TargetBend:  midi.BendCenter,
		CurrentBend: midi.BendCenter,
		Path:        path,
		Range:       bendRange,
		Active:      true,
	}
	return g, midi.Event{
		Type:     midi.NoteOn,
		Channel:  channel,
		Note:     note.Number,
		Velocity: note.Velocity,
	}
}

// Retarget glides the sounding note towards a new note from the current bend.
// It fails with ErrBendRange when the interval cannot be expressed as a bend,
// leaving the glide untouched.
func (g *ChannelGlide) Retarget(note midi.NoteEvent, now, bendDuration, holdDuration float64, path Path) error {
	delta := float64(note.Number) - float64(g.Note.Number)
	if math.Abs(delta) > g.Range {
		return fmt.Errorf("%w: %+.0f semitones on channel %d (range %.0f)", ErrBendRange, delta, g.Channel, g.Range)
	}
	g.Target = note
	g.TargetBend = midi.BendFromSemitones(delta, g.Range)
	g.StartBend = g.CurrentBend
	g.Start = now
	g.Stop = now + bendDuration
	g.Release = now + bendDuration + holdDuration
	g.Path = path
	return nil
}

// BendAt evaluates the glide's path at time t without changing state.
// Times outside the bend phase are clamped to its ends.
func (g *ChannelGlide) BendAt(t float64) midi.Bend {
	span := g.Stop - g.Start
	progress := 1.0
	if span > 0 {
		progress = min(max((t-g.Start)/span, 0), 1)
	}
	return g.Path.Bend(progress, g.StartBend, g.TargetBend)
}

// Sample advances the glide to now. During the bend it returns a pitch bend;
// at release it returns the note-off exactly once; while holding it returns
// nothing.
func (g *ChannelGlide) Sample(now float64) (midi.Event, bool) {
	if !g.Active {
		return midi.Event{}, false
	}
	if g.Start <= now && now <= g.Stop {
		g.CurrentBend = g.BendAt(now)
		return midi.Event{Type: midi.PitchBend, Channel: g.Channel, Bend: g.CurrentBend}, true
	}
	if now >= g.Release {
		g.Active = false
		return midi.Event{Type: midi.NoteOff, Channel: g.Channel, Note: g.Note.Number}, true
	}
	return midi.Event{}, false
}

// PhaseAt reports which part of the envelope now falls in
func (g *ChannelGlide) PhaseAt(now float64) Phase {
	switch {
	case !g.Active || now >= g.Release:
		return Released
	case now <= g.Stop:
		return Bending
	}
	return Holding
}

// CurrentPitch is the sounding pitch in fractional semitones
func (g *ChannelGlide) CurrentPitch() float64 {
	return float64(g.Note.Number) + g.CurrentBend.Semitones(g.Range)
}

// Compare orders glides by sounding pitch: whole semitones first, then the
// sub-semitone remainder, then channel.
func Compare(a, b *ChannelGlide) int {
	aWhole, aRem := a.CurrentBend.Split(a.Range)
	bWhole, bRem := b.CurrentBend.Split(b.Range)
	if c := cmp.Compare(int(a.Note.Number)+aWhole, int(b.Note.Number)+bWhole); c != 0 {
		return c
	}
	if c := cmp.Compare(aRem, bRem); c != 0 {
		return c
	}
	return cmp.Compare(a.Channel, b.Channel)
}
