package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// Clock returns the current engine time in seconds
type Clock func() float64

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Note-on/note-off input, stamped with the engine clock
	NoteEvents() <-chan RawEvent

	// Lifecycle
	Close() error
}
