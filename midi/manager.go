package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-gliss/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// PortPatterns selects which input ports are treated as keyboards.
// Matching is case-insensitive substring.
type PortPatterns struct {
	Preferred []string
	Excluded  []string
}

// DeviceManager handles hot-plug detection of MIDI keyboards.
// Only one keyboard is connected at a time; a preferred port wins.
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	patterns    PortPatterns
	clock       Clock
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(patterns PortPatterns, clock Clock) *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		patterns:    patterns,
		clock:       clock,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	copy := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		copy[k] = v
	}
	return copy
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Port enumeration can hang on some backends
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("ports", "input scan timed out")
		return
	}

	names := make([]string, len(inPorts))
	for i, p := range inPorts {
		names[i] = p.String()
	}
	pick := dm.patterns.Select(names)

	seenIDs := make(map[string]bool)
	if pick >= 0 {
		id := names[pick]
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()

		if !exists {
			kb, err := NewKeyboardController(id, inPorts[pick], dm.clock)
			if err != nil {
				debug.Log("ports", "connect %s: %v", id, err)
			} else {
				dm.mu.Lock()
				dm.controllers[id] = kb
				dm.mu.Unlock()

				debug.Log("ports", "connected %s", id)
				dm.events <- DeviceEvent{
					Type:       DeviceConnected,
					Controller: kb,
					ID:         id,
				}
			}
		}
	}

	// Check for disconnects (or a newly preferred port displacing the old one)
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		debug.Log("ports", "disconnected %s", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// Select returns the index of the port to use, or -1.
// Excluded ports are never picked; the first preferred match wins, otherwise
// the first remaining port.
func (p PortPatterns) Select(names []string) int {
	fallback := -1
	for i, name := range names {
		if matchAny(name, p.Excluded) {
			continue
		}
		if matchAny(name, p.Preferred) {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func matchAny(name string, patterns []string) bool {
	name = strings.ToLower(name)
	for _, pat := range patterns {
		if pat != "" && strings.Contains(name, strings.ToLower(pat)) {
			return true
		}
	}
	return false
}
