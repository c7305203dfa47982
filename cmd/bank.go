package cmd

import (
	"github.com/scheerer/indicator-lights/internal/arbiter"
	"github.com/scheerer/indicator-lights/internal/channel"
	"github.com/scheerer/indicator-lights/internal/config"
	"github.com/scheerer/indicator-lights/internal/events"
)

// device is an arbiter wired to the profile's channels, or to a recorder
// when dry-running.
type device struct {
	arbiter  *arbiter.Arbiter
	bank     *channel.Bank
	recorder *channel.Recorder
}

func openDevice(cfg config.Config, bus *events.Bus) (*device, error) {
	profile, err := config.LoadProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}
	maxBrightness, err := profile.CalibrationMax()
	if err != nil {
		return nil, err
	}

	d := &device{}
	if cfg.DryRun {
		d.recorder = channel.NewRecorder()
		d.bank = d.recorder.Bank()
	} else {
		paths, err := profile.ChannelPaths()
		if err != nil {
			return nil, err
		}
		if d.bank, err = channel.OpenBank(paths); err != nil {
			return nil, err
		}
	}

	d.arbiter = arbiter.New(d.bank, arbiter.Config{
		MaxBrightness: maxBrightness,
		Events:        bus,
	})
	return d, nil
}

func (d *device) Close() error {
	return d.bank.Close()
}
