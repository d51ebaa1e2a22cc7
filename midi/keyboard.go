package midi

import (
	"sync/atomic"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-gliss/debug"
)

// KeyboardController handles a standard MIDI keyboard
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()
	clock    Clock

	noteChan chan RawEvent
	dropped  atomic.Uint64
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In, clock Clock) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		clock:    clock,
		noteChan: make(chan RawEvent, 64),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, kb.receive)
		if err != nil {
			return nil, errors.Wrapf(err, "open input %q", id)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

// receive runs on the driver's thread and must never block
func (kb *KeyboardController) receive(msg gomidi.Message, timestampms int32) {
	raw, ok := FromMessage(msg, kb.clock())
	if !ok {
		return
	}
	select {
	case kb.noteChan <- raw:
	default:
		n := kb.dropped.Add(1)
		debug.LogEvery(16, "input", "%s: input queue full, dropped=%d", kb.id, n)
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) NoteEvents() <-chan RawEvent {
	return kb.noteChan
}

// Dropped returns how many events were discarded because the queue was full
func (kb *KeyboardController) Dropped() uint64 {
	return kb.dropped.Load()
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.noteChan)
	return nil
}
