package glide

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"go-gliss/debug"
	"go-gliss/midi"
)

// DefaultTickInterval is the control rate of the processor
const DefaultTickInterval = 2 * time.Millisecond

// Snapshot refresh rate while nothing changes
const uiFPS = 30

// Sender delivers outbound events (a MIDI output port in production)
type Sender interface {
	Send(events []midi.Event) error
}

// SettingsSource provides live parameters, read once per tick
type SettingsSource interface {
	Settings() Settings
}

// Processor owns an Engine and drives it from a ticker. Input from other
// goroutines goes through a buffered channel drained at the top of each
// tick; state is published as snapshots after each tick.
type Processor struct {
	engine   *Engine
	sender   Sender
	params   SettingsSource
	interval time.Duration
	now      func() time.Time

	input chan midi.RawEvent
	snap  Exchange

	lastPublish float64

	dropped    atomic.Uint64
	sendErrors atomic.Uint64

	// Notify UI of new snapshots (coalesced)
	UpdateChan chan struct{}
}

// NewProcessor wires an engine to its output and parameter source.
// params may be nil to keep the engine's own settings.
func NewProcessor(engine *Engine, sender Sender, params SettingsSource, interval time.Duration) *Processor {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Processor{
		engine:     engine,
		sender:     sender,
		params:     params,
		interval:   interval,
		now:        time.Now,
		input:      make(chan midi.RawEvent, 256),
		UpdateChan: make(chan struct{}, 1),
	}
}

// Clock returns the current engine time; it stamps incoming MIDI
func (p *Processor) Clock() float64 {
	return p.engine.Seconds(p.now())
}

// Input queues a raw event without blocking. Events are dropped when the
// queue is full.
func (p *Processor) Input(raw midi.RawEvent) bool {
	select {
	case p.input <- raw:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// Attach forwards a controller's notes until its channel closes
func (p *Processor) Attach(c midi.Controller) {
	go func() {
		for raw := range c.NoteEvents() {
			p.Input(raw)
		}
		debug.Log("input", "%s detached", c.ID())
	}()
}

// Snapshot returns the latest published state (nil before the first tick)
func (p *Processor) Snapshot() *Snapshot {
	return p.snap.Load()
}

// Dropped returns how many input events were lost to a full queue
func (p *Processor) Dropped() uint64 {
	return p.dropped.Load()
}

// SendErrors returns how many ticks failed to deliver their events
func (p *Processor) SendErrors() uint64 {
	return p.sendErrors.Load()
}

// Run ticks until ctx is done, then releases every sounding voice
func (p *Processor) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Shutdown()
			return ctx.Err()
		case t := <-ticker.C:
			p.Step(p.engine.Seconds(t))
		}
	}
}

// Step runs one tick at engine time now
func (p *Processor) Step(now float64) {
	p.drain()
	if p.params != nil {
		if err := p.engine.SetSettings(p.params.Settings()); err != nil {
			debug.LogEvery(1000, "params", "settings ignored: %v", err)
		}
	}

	tick := p.engine.Advance(now)
	p.send(tick.Events)

	// publish on dispatch, otherwise at the UI frame rate
	if len(tick.Renders) > 0 || now-p.lastPublish >= 1.0/uiFPS || p.snap.Load() == nil {
		p.publish(now)
	}
}

func (p *Processor) drain() {
	for {
		select {
		case raw := <-p.input:
			p.engine.Ingest(raw)
		default:
			return
		}
	}
}

func (p *Processor) send(events []midi.Event) {
	if len(events) == 0 || p.sender == nil {
		return
	}
	if err := p.sender.Send(events); err != nil {
		n := p.sendErrors.Add(1)
		debug.LogEvery(100, "output", "send failed (%d total): %v", n, err)
	}
}

func (p *Processor) publish(now float64) {
	p.lastPublish = now
	p.snap.Publish(p.engine.Snapshot(now))
	select {
	case p.UpdateChan <- struct{}{}:
	default:
	}
}

// Shutdown sends note-off and bend reset for every active voice
func (p *Processor) Shutdown() {
	events := p.engine.ReleaseAll()
	p.send(events)
	p.publish(p.Clock())
	debug.Log("output", "released %d events on shutdown", len(events))
}
