// Package channel provides the output sinks the arbiter drives: one
// channel per hardware control node, each accepting a single textual value
// per write.
package channel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

type ID int

const (
	Backlight ID = iota
	RedLED
	GreenLED
	BlueLED
	BlueDutyPcts
	BlueStartIdx
	BluePauseLo
	BluePauseHi
	BlueRampStepMs
	RedBlink
	BlueBlink

	numIDs
)

var idNames = [numIDs]string{
	Backlight:      "backlight",
	RedLED:         "red",
	GreenLED:       "green",
	BlueLED:        "blue",
	BlueDutyPcts:   "blue_duty_pcts",
	BlueStartIdx:   "blue_start_idx",
	BluePauseLo:    "blue_pause_lo",
	BluePauseHi:    "blue_pause_hi",
	BlueRampStepMs: "blue_ramp_step_ms",
	RedBlink:       "red_blink",
	BlueBlink:      "blue_blink",
}

func (id ID) String() string {
	if id < 0 || id >= numIDs {
		return fmt.Sprintf("channel(%d)", int(id))
	}
	return idNames[id]
}

// IDs returns every channel in declaration order.
func IDs() []ID {
	ids := make([]ID, 0, numIDs)
	for id := ID(0); id < numIDs; id++ {
		ids = append(ids, id)
	}
	return ids
}

// ParseID maps a profile key such as "blue_pause_hi" to its ID.
func ParseID(name string) (ID, error) {
	for id, n := range idNames {
		if n == name {
			return ID(id), nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", name)
}

// Channel is a single output sink.
type Channel interface {
	Write(value string) error
}

var ErrIncompleteBank = errors.New("channel bank is incomplete")

// WriteError records which channel rejected a write.
type WriteError struct {
	ID    ID
	Value string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %q to %s: %v", e.Value, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Bank holds one channel for every ID.
type Bank struct {
	channels [numIDs]Channel
}

// NewBank returns a Bank over channels, which must cover every ID.
func NewBank(channels map[ID]Channel) (*Bank, error) {
	b := &Bank{}
	var missing []string
	for _, id := range IDs() {
		ch, ok := channels[id]
		if !ok || ch == nil {
			missing = append(missing, id.String())
			continue
		}
		b.channels[id] = ch
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrIncompleteBank, missing)
	}
	return b, nil
}

// Write sends value to the channel. Failures are returned as *WriteError.
func (b *Bank) Write(id ID, value string) error {
	if id < 0 || id >= numIDs {
		return &WriteError{ID: id, Value: value, Err: errors.New("no such channel")}
	}
	if err := b.channels[id].Write(value); err != nil {
		return &WriteError{ID: id, Value: value, Err: err}
	}
	return nil
}

func (b *Bank) WriteInt(id ID, value int) error {
	return b.Write(id, strconv.Itoa(value))
}

// Close closes every channel that implements io.Closer.
func (b *Bank) Close() error {
	var errs []error
	for _, ch := range b.channels {
		if c, ok := ch.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
