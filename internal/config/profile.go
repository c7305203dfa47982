package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/scheerer/indicator-lights/internal/channel"
)

// Profile describes where a device exposes its light nodes.
//
//	[backlight]
//	path = "/sys/class/leds/lcd-backlight/brightness"
//	max_brightness_path = "/sys/class/leds/lcd-backlight/max_brightness"
//
//	[channels]
//	red = "/sys/class/leds/red/brightness"
//	blue_duty_pcts = "/sys/class/leds/blue/duty_pcts"
type Profile struct {
	Backlight BacklightProfile  `toml:"backlight"`
	Channels  map[string]string `toml:"channels"`
}

type BacklightProfile struct {
	Path string `toml:"path"`
	// MaxBrightness is the panel maximum. It is ignored when
	// MaxBrightnessPath is set.
	MaxBrightness     uint32 `toml:"max_brightness"`
	MaxBrightnessPath string `toml:"max_brightness_path"`
}

// DefaultProfile returns the node layout of the reference device.
func DefaultProfile() *Profile {
	return &Profile{
		Backlight: BacklightProfile{
			Path:          "/sys/class/leds/lcd-backlight/brightness",
			MaxBrightness: 255,
		},
		Channels: map[string]string{
			channel.RedLED.String():         "/sys/class/leds/red/brightness",
			channel.GreenLED.String():       "/sys/class/leds/green/brightness",
			channel.BlueLED.String():        "/sys/class/leds/blue/brightness",
			channel.BlueDutyPcts.String():   "/sys/class/leds/blue/duty_pcts",
			channel.BlueStartIdx.String():   "/sys/class/leds/blue/start_idx",
			channel.BluePauseLo.String():    "/sys/class/leds/blue/pause_lo",
			channel.BluePauseHi.String():    "/sys/class/leds/blue/pause_hi",
			channel.BlueRampStepMs.String(): "/sys/class/leds/blue/ramp_step_ms",
			channel.RedBlink.String():       "/sys/class/leds/red/blink",
			channel.BlueBlink.String():      "/sys/class/leds/blue/blink",
		},
	}
}

// LoadProfile reads a TOML profile. Anything the file leaves out keeps
// its default, and a missing file yields DefaultProfile.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var file Profile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if file.Backlight.Path != "" {
		profile.Backlight.Path = file.Backlight.Path
	}
	if file.Backlight.MaxBrightness != 0 {
		profile.Backlight.MaxBrightness = file.Backlight.MaxBrightness
	}
	if file.Backlight.MaxBrightnessPath != "" {
		profile.Backlight.MaxBrightnessPath = file.Backlight.MaxBrightnessPath
	}
	for name, p := range file.Channels {
		profile.Channels[name] = p
	}

	if _, err := profile.ChannelPaths(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return profile, nil
}

// ChannelPaths resolves the profile to one node path per channel.
func (p *Profile) ChannelPaths() (map[channel.ID]string, error) {
	paths := make(map[channel.ID]string, len(p.Channels)+1)
	for name, path := range p.Channels {
		id, err := channel.ParseID(name)
		if err != nil {
			return nil, err
		}
		if id == channel.Backlight {
			return nil, errors.New("the backlight path belongs in [backlight]")
		}
		paths[id] = path
	}
	paths[channel.Backlight] = p.Backlight.Path

	var missing []string
	for _, id := range channel.IDs() {
		if paths[id] == "" {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no path for %s", strings.Join(missing, ", "))
	}
	return paths, nil
}

// CalibrationMax returns the backlight maximum, read from
// MaxBrightnessPath when it is set.
func (p *Profile) CalibrationMax() (uint32, error) {
	if p.Backlight.MaxBrightnessPath == "" {
		if p.Backlight.MaxBrightness == 0 {
			return 255, nil
		}
		return p.Backlight.MaxBrightness, nil
	}

	data, err := os.ReadFile(p.Backlight.MaxBrightnessPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read backlight max brightness: %w", err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid backlight max brightness in %s: %w", p.Backlight.MaxBrightnessPath, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("backlight max brightness in %s is zero", p.Backlight.MaxBrightnessPath)
	}
	return uint32(v), nil
}
