package lights

import (
	"fmt"
	"strconv"
	"strings"
)

type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// RGB extracts the colour channels of a packed ARGB value.
func RGB(color uint32) Color {
	return Color{
		Red:   uint8(color >> 16),
		Green: uint8(color >> 8),
		Blue:  uint8(color),
	}
}

// Pack returns c as an ARGB value with the given alpha.
func (c Color) Pack(alpha uint8) uint32 {
	return uint32(alpha)<<24 | uint32(c.Red)<<16 | uint32(c.Green)<<8 | uint32(c.Blue)
}

// RGBToBrightness returns the luma of the low 24 bits of color, truncated.
func RGBToBrightness(color uint32) uint32 {
	color &= 0x00ffffff
	return (77*((color>>16)&0xff) + 150*((color>>8)&0xff) + 29*(color&0xff)) >> 8
}

// IsLit reports whether any of the red, green or blue bits are set.
func IsLit(color uint32) bool {
	return color&0x00ffffff != 0
}

// Alpha returns the top byte of color. Indicators use it as their
// intensity and the battery light as the charge level.
func Alpha(color uint32) uint32 {
	return (color & 0xff000000) >> 24
}

// ParseColor parses "0xAARRGGBB", "#AARRGGBB", "#RRGGBB" or a decimal
// value. The six digit form gets a full alpha.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		switch len(hex) {
		case 6:
			return uint32(v) | 0xff000000, nil
		case 8:
			return uint32(v), nil
		default:
			return 0, fmt.Errorf("invalid color %q: expected 6 or 8 hex digits", s)
		}
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}
