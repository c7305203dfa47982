// Package arbiter decides what the device's lights show. The backlight is
// written straight through. Notification, attention and battery requests
// compete for the single indicator LED: every update re-runs the
// precedence rules and rewrites the indicator channels from scratch.
package arbiter

import (
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/scheerer/indicator-lights/internal/channel"
	"github.com/scheerer/indicator-lights/internal/events"
	"github.com/scheerer/indicator-lights/internal/logging"
	"github.com/scheerer/indicator-lights/internal/metrics"
	"github.com/scheerer/indicator-lights/lights"
)

var logger = logging.New("arbiter")

// DefaultMaxBrightness is the range light requests are expressed in.
const DefaultMaxBrightness = 255

type Config struct {
	// MaxBrightness is the panel's real backlight maximum. Zero means
	// DefaultMaxBrightness.
	MaxBrightness uint32
	// Events receives resolution and backlight events. Optional.
	Events *events.Bus
}

// requests holds the last request of each arbitrated role.
type requests struct {
	notification lights.State
	attention    lights.State
	battery      lights.State
}

func (r *requests) get(t lights.Type) lights.State {
	switch t {
	case lights.TypeNotifications:
		return r.notification
	case lights.TypeAttention:
		return r.attention
	case lights.TypeBattery:
		return r.battery
	}
	return lights.State{}
}

func (r *requests) set(t lights.Type, s lights.State) {
	switch t {
	case lights.TypeNotifications:
		r.notification = s
	case lights.TypeAttention:
		r.attention = s
	case lights.TypeBattery:
		r.battery = s
	}
}

type Arbiter struct {
	bank          *channel.Bank
	maxBrightness uint32
	bus           *events.Bus
	handlers      map[lights.Type]handler

	// mu serialises every channel write, backlight included, and guards
	// the fields below.
	mu        sync.Mutex
	state     requests
	winner    lights.Type
	lit       bool
	backlight uint32
}

var _ lights.Service = (*Arbiter)(nil)

// New returns an Arbiter driving bank. All roles start off; call Refresh
// to push that state to the hardware.
func New(bank *channel.Bank, config Config) *Arbiter {
	maxBrightness := config.MaxBrightness
	if maxBrightness == 0 {
		maxBrightness = DefaultMaxBrightness
	}

	return &Arbiter{
		bank:          bank,
		maxBrightness: maxBrightness,
		bus:           config.Events,
		handlers:      newDispatchTable(),
	}
}

// SetLight applies state to the light of type t.
func (a *Arbiter) SetLight(t lights.Type, state lights.State) (lights.Status, error) {
	h, ok := a.handlers[t]
	if !ok {
		metrics.RecordRequest(t.String(), metrics.ResultNotSupported)
		logger.With(zap.Stringer("type", t)).Debug("Light type not supported")
		return lights.StatusLightNotSupported, nil
	}

	if err := h.apply(a, state); err != nil {
		metrics.RecordRequest(t.String(), metrics.ResultWriteFailed)
		logger.With(zap.Stringer("type", t), zap.Error(err)).Error("Failed to set light, hardware state is unknown")
		return lights.StatusSuccess, err
	}

	metrics.RecordRequest(t.String(), metrics.ResultSuccess)
	return lights.StatusSuccess, nil
}

// SupportedTypes returns the dispatchable roles ordered by type value.
func (a *Arbiter) SupportedTypes() []lights.Type {
	return supportedTypes(a.handlers)
}

// Refresh rewrites the indicator channels from the stored requests.
func (a *Arbiter) Refresh() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolveLocked()
}

// Snapshot is a copy of the arbiter's view of the lights.
type Snapshot struct {
	Requests map[lights.Type]lights.State
	// Winner is the indicator role being shown; only valid when Lit.
	Winner    lights.Type
	Lit       bool
	Backlight uint32
}

func (a *Arbiter) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Snapshot{
		Requests:  make(map[lights.Type]lights.State, len(precedence)),
		Winner:    a.winner,
		Lit:       a.lit,
		Backlight: a.backlight,
	}
	for _, ind := range precedence {
		s.Requests[ind.role] = a.state.get(ind.role)
	}
	return s
}

func (a *Arbiter) writeInt(id channel.ID, value int) error {
	return a.write(id, strconv.Itoa(value))
}

func (a *Arbiter) write(id channel.ID, value string) error {
	err := a.bank.Write(id, value)
	if err != nil {
		var writeErr *channel.WriteError
		if errors.As(err, &writeErr) {
			metrics.RecordWriteFailure(writeErr.ID.String())
		}
	}
	return err
}

func (a *Arbiter) publish(ev events.Event) {
	if a.bus != nil {
		a.bus.Publish(ev)
	}
}
