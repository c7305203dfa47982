package lights

import (
	"fmt"
	"strings"
)

// Type identifies the logical purpose of a light. Values follow the
// light HAL numbering so that roles this device does not drive remain
// representable.
type Type int32

const (
	TypeBacklight Type = iota
	TypeKeyboard
	TypeButtons
	TypeBattery
	TypeNotifications
	TypeAttention
	TypeBluetooth
	TypeWifi
)

var typeNames = map[Type]string{
	TypeBacklight:     "backlight",
	TypeKeyboard:      "keyboard",
	TypeButtons:       "buttons",
	TypeBattery:       "battery",
	TypeNotifications: "notifications",
	TypeAttention:     "attention",
	TypeBluetooth:     "bluetooth",
	TypeWifi:          "wifi",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int32(t))
}

// ParseType accepts the lowercase role names returned by String, case
// insensitively. "notification" is accepted as an alias.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "notification" {
		return TypeNotifications, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

// Flash selects how a light should blink.
type Flash int32

const (
	FlashNone Flash = iota
	FlashTimed
	// FlashHardware is accepted but handled like FlashNone.
	FlashHardware
)

var flashNames = map[Flash]string{
	FlashNone:     "none",
	FlashTimed:    "timed",
	FlashHardware: "hardware",
}

func (f Flash) String() string {
	if name, ok := flashNames[f]; ok {
		return name
	}
	return fmt.Sprintf("flash(%d)", int32(f))
}

// ParseFlash parses a flash mode name. The empty string means FlashNone.
func ParseFlash(s string) (Flash, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FlashNone, nil
	}
	for f, n := range flashNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown flash mode %q", s)
}

// State is a single light request. A new State for a role replaces the
// previous one entirely.
type State struct {
	Color      uint32
	FlashMode  Flash
	FlashOnMs  int32
	FlashOffMs int32
}

type Status int32

const (
	StatusSuccess Status = iota
	StatusLightNotSupported
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusLightNotSupported:
		return "LIGHT_NOT_SUPPORTED"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Service is the inbound surface of a lights implementation.
//
// SetLight reports StatusLightNotSupported for roles the implementation
// does not drive. A non-nil error means an output write failed and the
// physical light state is unknown; the Status is meaningless in that case.
type Service interface {
	SetLight(t Type, state State) (Status, error)
	SupportedTypes() []Type
}
