package arbiter

import (
	"slices"

	"github.com/scheerer/indicator-lights/lights"
)

type handler interface {
	apply(a *Arbiter, s lights.State) error
}

type backlightHandler struct{}

func (backlightHandler) apply(a *Arbiter, s lights.State) error {
	return a.setBacklight(s)
}

// indicatorHandler stores the request for its role and re-arbitrates.
type indicatorHandler struct {
	role lights.Type
}

func (h indicatorHandler) apply(a *Arbiter, s lights.State) error {
	return a.setIndicator(h.role, s)
}

func newDispatchTable() map[lights.Type]handler {
	return map[lights.Type]handler{
		lights.TypeBacklight:     backlightHandler{},
		lights.TypeAttention:     indicatorHandler{role: lights.TypeAttention},
		lights.TypeBattery:       indicatorHandler{role: lights.TypeBattery},
		lights.TypeNotifications: indicatorHandler{role: lights.TypeNotifications},
	}
}

func supportedTypes(table map[lights.Type]handler) []lights.Type {
	types := make([]lights.Type, 0, len(table))
	for t := range table {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
