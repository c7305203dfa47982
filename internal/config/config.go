package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env"
	"github.com/spf13/pflag"
)

// Config is the daemon configuration. Values come from the environment,
// and flags explicitly set on the command line win over them.
type Config struct {
	Profile    string `env:"LIGHTS_PROFILE" envDefault:"/etc/indicator-lights/profile.toml"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8095"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	DryRun     bool   `env:"DRY_RUN" envDefault:"false"`

	LifxEnabled       bool    `env:"LIFX_ENABLED" envDefault:"false"`
	LifxGroupName     string  `env:"LIFX_GROUP_NAME" envDefault:"INDICATOR"`
	LifxMaxBrightness float64 `env:"LIFX_MAX_BRIGHTNESS" envDefault:"0.65"`
	LifxMinBrightness float64 `env:"LIFX_MIN_BRIGHTNESS" envDefault:"0"`

	AmbientEnabled  bool          `env:"AMBIENT_ENABLED" envDefault:"false"`
	CaptureInterval time.Duration `env:"CAPTURE_INTERVAL" envDefault:"500ms"`
	ColorAlgo       string        `env:"COLOR_ALGO" envDefault:"AVERAGE"`
	PixelGridSize   int           `env:"PIXEL_GRID_SIZE" envDefault:"5"`
	ScreenNumber    int           `env:"SCREEN_NUMBER" envDefault:"0"`
}

// Flag names understood by Load.
const (
	FlagProfile  = "profile"
	FlagListen   = "listen"
	FlagLogLevel = "log-level"
	FlagDryRun   = "dry-run"
)

// Load parses the environment and applies any changed flags from flags,
// which may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if flags == nil {
		return cfg, nil
	}

	var flagErr error
	flags.Visit(func(f *pflag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case FlagProfile:
			cfg.Profile = value
		case FlagListen:
			cfg.ListenAddr = value
		case FlagLogLevel:
			cfg.LogLevel = value
		case FlagDryRun:
			b, err := strconv.ParseBool(value)
			if err != nil {
				flagErr = fmt.Errorf("invalid --%s: %w", FlagDryRun, err)
				return
			}
			cfg.DryRun = b
		}
	})
	if flagErr != nil {
		return cfg, flagErr
	}

	return cfg, nil
}
