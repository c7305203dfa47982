// Package cmd implements the indicator-lights command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scheerer/indicator-lights/internal/config"
	"github.com/scheerer/indicator-lights/internal/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var logger = logging.New("main")

var rootCmd = &cobra.Command{
	Use:   "indicator-lights",
	Short: "Backlight and indicator LED controller",
	Long: `indicator-lights owns the display backlight and the RGB indicator LED.

Notification, attention and battery requests compete for the indicator;
the highest priority lit request is shown. Configuration comes from the
environment and can be overridden with flags.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("indicator-lights %s (built: %s)\n", Version, BuildTime))
	rootCmd.PersistentFlags().String(config.FlagProfile, "", "device profile (TOML), overrides LIGHTS_PROFILE")
	rootCmd.PersistentFlags().String(config.FlagLogLevel, "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().Bool(config.FlagDryRun, false, "record channel writes instead of touching hardware, overrides DRY_RUN")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion updates the version shown by --version.
func SetVersion(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("indicator-lights %s (built: %s)\n", version, buildTime))
}

// loadConfig reads the environment, applies flags and sets log levels.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return cfg, err
	}
	if err := logging.SetGlobalLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}
