package glide

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"go-gliss/debug"
	"go-gliss/midi"
)

var (
	ErrNoFreeChannel = errors.New("glide: all output channels in use")
	ErrIgnored       = errors.New("glide: not a note message")
)

const (
	DefaultHistoryLimit = 16
	// renders are kept this long after their release for the monitor
	renderRetention = 5.0
)

// Config sets up an Engine
type Config struct {
	// Origin is the wall-clock instant engine time 0 refers to
	Origin       time.Time
	Settings     Settings
	Rand         *rand.Rand
	HistoryLimit int
}

// Stats counts notable engine outcomes
type Stats struct {
	Chords     uint64
	Spawned    uint64
	Retargeted uint64
	Overflows  uint64 // retargets beyond the bend range
	Dropped    uint64 // voices lost to channel exhaustion
	Rejected   uint64 // capture conflicts and malformed input
}

// Tick is the output of one Advance. Events is reused by the next Advance.
type Tick struct {
	Events  []midi.Event
	Renders []Render
}

// Engine turns captured chords into gliding voices on channels 2-16.
// It is owned by a single goroutine.
type Engine struct {
	origin       time.Time
	settings     Settings
	rng          *rand.Rand
	historyLimit int

	chords  []*Chord
	glides  []*ChannelGlide
	renders []Render
	stats   Stats

	events  []midi.Event
	pitches []float64
}

// New creates an engine. A zero Config gets default settings, the current
// time as origin and a time-seeded RNG.
func New(cfg Config) *Engine {
	if cfg.Origin.IsZero() {
		cfg.Origin = time.Now()
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}
	if cfg.Rand == nil {
		seed := uint64(cfg.Origin.UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &Engine{
		origin:       cfg.Origin,
		settings:     cfg.Settings,
		rng:          cfg.Rand,
		historyLimit: cfg.HistoryLimit,
		events:       make([]midi.Event, 0, 4*midi.MaxVoices),
		pitches:      make([]float64, 0, midi.MaxVoices),
	}
}

// Origin returns the wall-clock reference of engine time 0
func (e *Engine) Origin() time.Time {
	return e.origin
}

// Seconds converts a wall-clock instant into engine time
func (e *Engine) Seconds(t time.Time) float64 {
	return t.Sub(e.origin).Seconds()
}

// Settings returns the settings used for the next dispatch
func (e *Engine) Settings() Settings {
	return e.settings
}

// SetSettings replaces the live settings. Glides already running keep their
// own durations, range and path. Invalid settings are rejected and the
// previous ones stay in effect.
func (e *Engine) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.settings = s
	return nil
}

// Stats returns the outcome counters
func (e *Engine) Stats() Stats {
	return e.stats
}

// Glides returns the active glides. The slice is owned by the engine.
func (e *Engine) Glides() []*ChannelGlide {
	return e.glides
}

// Chords returns the chord history, oldest first
func (e *Engine) Chords() []*Chord {
	return e.chords
}

func (e *Engine) latest() *Chord {
	if len(e.chords) == 0 {
		return nil
	}
	return e.chords[len(e.chords)-1]
}

// Ingest feeds one raw input event. Errors are informational: the event was
// dropped and the engine is unaffected.
func (e *Engine) Ingest(raw midi.RawEvent) error {
	switch {
	case raw.IsNoteOn() && raw.Velocity > 0:
		return e.noteOn(raw)
	case raw.IsNoteOff() || raw.IsNoteOn():
		if c := e.latest(); c != nil {
			c.MarkReleased(raw.Note)
		}
		return nil
	}
	return ErrIgnored
}

func (e *Engine) noteOn(raw midi.RawEvent) error {
	note, err := midi.NewNoteEvent(raw, e.settings.BendDuration)
	if err != nil {
		e.stats.Rejected++
		debug.Log("input", "drop %v: %v", raw, err)
		return err
	}

	c := e.latest()
	if c == nil || c.Dispatched {
		e.openChord(note)
		return nil
	}
	switch err := c.Append(note); {
	case err == nil:
		return nil
	case errors.Is(err, ErrTooLate):
		e.openChord(note)
		return nil
	default:
		e.stats.Rejected++
		debug.Log("input", "note %d at %.4f: %v", note.Number, note.Time, err)
		return err
	}
}

func (e *Engine) openChord(note midi.NoteEvent) {
	e.chords = append(e.chords, NewChord(note, e.settings.CaptureWindow))
	if over := len(e.chords) - e.historyLimit; over > 0 {
		e.chords = slices.Delete(e.chords, 0, over)
	}
}

// Advance moves engine time to now: dispatches finished captures oldest
// first, samples every glide and drops the ones that were released.
func (e *Engine) Advance(now float64) Tick {
	e.events = e.events[:0]
	var tick Tick

	// a late tick can find more than one closed capture
	for _, c := range e.chords {
		if !c.Dispatched && c.DoneCapturing(now) {
			tick.Renders = append(tick.Renders, e.dispatch(c, now)...)
		}
	}

	for _, g := range e.glides {
		if ev, ok := g.Sample(now); ok {
			e.events = append(e.events, ev)
		}
	}
	e.glides = slices.DeleteFunc(e.glides, func(g *ChannelGlide) bool { return !g.Active })

	if len(tick.Renders) > 0 || len(e.renders) > 0 {
		e.keepRenders(tick.Renders, now)
	}

	tick.Events = e.events
	return tick
}

func (e *Engine) dispatch(c *Chord, now float64) []Render {
	c.Dispatched = true
	e.stats.Chords++
	s := e.settings

	display := midi.SecondsToDuration(c.Start + c.Window)
	for i := range c.Notes {
		c.Notes[i].DisplayTime = display
	}

	slices.SortFunc(e.glides, Compare)
	e.pitches = e.pitches[:0]
	for _, g := range e.glides {
		e.pitches = append(e.pitches, g.CurrentPitch())
	}
	existing := len(e.glides)

	plan := Map(s.Mapping, e.pitches, c.Notes, e.rng)
	if debug.Enabled() {
		debug.Log("dispatch", "chord %v mode=%s channels=%d plan=%v", c.Numbers(), s.Mapping, existing, plan)
	}

	var renders []Render
	var reached, overflowed [maxNotes]bool

	for _, idx := range plan.NewVoices {
		if g := e.spawn(c, idx, now); g != nil {
			reached[idx] = true
			renders = append(renders, g.Render(RenderSamples))
		}
	}

	for i, idx := range plan.Retarget {
		g := e.glides[i]
		err := g.Retarget(c.Notes[idx], now, s.BendDuration, s.HoldDuration, s.Path.Build(e.rng))
		if err != nil {
			e.stats.Overflows++
			overflowed[idx] = true
			debug.Warn("dispatch", "%v", err)
			continue
		}
		e.stats.Retargeted++
		reached[idx] = true
		renders = append(renders, g.Render(RenderSamples))
	}

	// Notes no channel could bend to are retriggered on a fresh channel.
	// The glides that failed keep their previous trajectory.
	for idx := range c.Notes {
		if overflowed[idx] && !reached[idx] {
			if g := e.spawn(c, idx, now); g != nil {
				reached[idx] = true
				renders = append(renders, g.Render(RenderSamples))
			}
		}
	}

	if debug.Enabled() {
		debug.Log("dispatch", "active channels=%d (was %d)", len(e.glides), existing)
	}
	return renders
}

// spawn starts a new voice for note idx of c on the lowest free channel
func (e *Engine) spawn(c *Chord, idx int, now float64) *ChannelGlide {
	ch, err := e.freeChannel()
	if err != nil {
		e.stats.Dropped++
		debug.Warn("dispatch", "note %d dropped: %v", c.Notes[idx].Number, err)
		return nil
	}
	c.Notes[idx].NewVoice = true
	s := e.settings
	g, noteOn := StartGlide(ch, c.Notes[idx], now, s.BendDuration, s.HoldDuration, s.BendRange, HoldPath)

	// the channel may still carry the bend of its previous voice
	e.events = append(e.events,
		midi.Event{Type: midi.PitchBend, Channel: ch, Bend: midi.BendCenter},
		noteOn,
	)
	e.glides = append(e.glides, g)
	e.stats.Spawned++
	return g
}

func (e *Engine) freeChannel() (uint8, error) {
	var used [midi.LastVoiceChannel + 1]bool
	for _, g := range e.glides {
		used[g.Channel] = true
	}
	for ch := midi.FirstVoiceChannel; ch <= midi.LastVoiceChannel; ch++ {
		if !used[ch] {
			return ch, nil
		}
	}
	return 0, ErrNoFreeChannel
}

// keepRenders ages out old renders and adds fresh ones. A fresh render ends
// any older render on the same channel at its start.
func (e *Engine) keepRenders(fresh []Render, now float64) {
	cutoff := midi.SecondsToDuration(now - renderRetention)
	e.renders = slices.DeleteFunc(e.renders, func(r Render) bool { return r.End() < cutoff })
	for _, f := range fresh {
		for i := range e.renders {
			if e.renders[i].Channel == f.Channel {
				e.renders[i].truncate(f.Start())
			}
		}
		e.renders = slices.DeleteFunc(e.renders, func(r Render) bool { return r.empty() })
		e.renders = append(e.renders, f)
	}
}

// ReleaseAll ends every glide immediately: note-off and bend reset per
// channel. Used when the processor shuts down.
func (e *Engine) ReleaseAll() []midi.Event {
	out := make([]midi.Event, 0, 2*len(e.glides))
	for _, g := range e.glides {
		out = append(out,
			midi.Event{Type: midi.NoteOff, Channel: g.Channel, Note: g.Note.Number},
			midi.Event{Type: midi.PitchBend, Channel: g.Channel, Bend: midi.BendCenter},
		)
		g.Active = false
	}
	e.glides = e.glides[:0]
	return out
}
