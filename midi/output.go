package midi

import (
	"strings"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Output sends events to a MIDI output port
type Output struct {
	name string
	send func(msg gomidi.Message) error
}

// OpenOutput finds an output port whose name contains name (case-insensitive)
// and opens it.
func OpenOutput(name string) (*Output, error) {
	port, err := FindOutPort(name)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %q", port.String())
	}
	return &Output{name: port.String(), send: send}, nil
}

// FindOutPort looks up an output port by substring
func FindOutPort(name string) (drivers.Out, error) {
	want := strings.ToLower(name)
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), want) {
			return port, nil
		}
	}
	return nil, errors.Errorf("no output port matching %q", name)
}

func (o *Output) Name() string {
	return o.name
}

// Send writes all events in order, returning the first failure
func (o *Output) Send(events []Event) error {
	for _, e := range events {
		msg := e.Message()
		if msg == nil {
			continue
		}
		if err := o.send(msg); err != nil {
			return errors.Wrapf(err, "send %s", e)
		}
	}
	return nil
}
