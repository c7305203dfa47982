package events

import "github.com/scheerer/indicator-lights/lights"

// Event type constants for kelindar/event.
const (
	TypeIndicatorResolved uint32 = iota + 1
	TypeBacklightChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// IndicatorResolvedEvent is published after every successful arbitration.
// Winner is only meaningful when Lit is true.
type IndicatorResolvedEvent struct {
	Lit    bool
	Winner lights.Type
	State  lights.State
}

func (e IndicatorResolvedEvent) Type() uint32 { return TypeIndicatorResolved }

// BacklightChangedEvent carries the value written to the backlight node.
type BacklightChangedEvent struct {
	Requested lights.State
	Level     uint32
}

func (e BacklightChangedEvent) Type() uint32 { return TypeBacklightChanged }
