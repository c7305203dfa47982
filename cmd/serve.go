package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scheerer/indicator-lights/internal/ambient"
	"github.com/scheerer/indicator-lights/internal/api"
	"github.com/scheerer/indicator-lights/internal/channel"
	"github.com/scheerer/indicator-lights/internal/config"
	"github.com/scheerer/indicator-lights/internal/events"
	"github.com/scheerer/indicator-lights/internal/lights/lifx"
	"github.com/scheerer/indicator-lights/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the light service",
	Long: `Opens the device's light channels, turns every indicator off and serves
the HTTP API until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String(config.FlagListen, "", "API listen address, overrides LISTEN_ADDR")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(shutdown)
		select {
		case <-shutdown:
			logger.Info("Shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return executeServe(ctx, cfg)
}

func executeServe(ctx context.Context, cfg config.Config) error {
	logger.With(zap.Any("config", cfg)).Info("Starting indicator lights")

	bus := events.New()
	dev, err := openDevice(cfg, bus)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to close light channels")
		}
	}()

	if dev.recorder != nil {
		logger.Info("Dry run, channel writes are logged only")
		dev.recorder.OnWrite(func(w channel.Write) {
			logger.With(zap.Stringer("channel", w.ID), zap.String("value", w.Value)).Info("Channel write")
		})
	}

	// Start from all-off so the hardware matches the empty request set.
	if err := dev.arbiter.Refresh(); err != nil {
		logger.With(zap.Error(err)).Error("Failed to reset indicator")
	}

	if cfg.LifxEnabled {
		mirror, err := lifx.New(ctx, lifx.Config{
			GroupName:     cfg.LifxGroupName,
			MaxBrightness: cfg.LifxMaxBrightness,
			MinBrightness: cfg.LifxMinBrightness,
		}, bus)
		if err != nil {
			return err
		}
		defer mirror.Close()
	}

	if cfg.AmbientEnabled {
		source, err := ambient.New(ambient.Config{
			CaptureInterval: cfg.CaptureInterval,
			ColorAlgo:       cfg.ColorAlgo,
			PixelGridSize:   cfg.PixelGridSize,
			ScreenNumber:    cfg.ScreenNumber,
		}, dev.arbiter)
		if err != nil {
			return err
		}
		go source.Run(ctx)
	}

	srv := api.NewServer(cfg.ListenAddr, api.Options{
		Lights:         dev.arbiter,
		State:          dev.arbiter,
		MetricsHandler: metrics.Handler(),
	})
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to notify systemd")
	} else if ok {
		logger.Debug("Notified systemd")
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
