package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scheerer/indicator-lights/internal/config"
	"github.com/scheerer/indicator-lights/lights"
)

type setOptions struct {
	color string
	flash string
	onMs  int32
	offMs int32
}

var setOpts setOptions

var setCmd = &cobra.Command{
	Use:   "set <type>",
	Short: "Apply a single light request",
	Long: `Writes one request straight to the device's channels, as if it were the
only request the service had received. Useful for checking a profile.

  indicator-lights set backlight --color '#808080'
  indicator-lights set notifications --color 0xff0000ff --flash timed --on 1000 --off 2000`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setOpts.color, "color", "", "ARGB colour (0xAARRGGBB, #AARRGGBB or #RRGGBB)")
	setCmd.Flags().StringVar(&setOpts.flash, "flash", "none", "flash mode: none, timed or hardware")
	setCmd.Flags().Int32Var(&setOpts.onMs, "on", 0, "time on per blink in milliseconds")
	setCmd.Flags().Int32Var(&setOpts.offMs, "off", 0, "time off per blink in milliseconds")
	_ = setCmd.MarkFlagRequired("color")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return executeSet(cmd.OutOrStdout(), cfg, args[0], setOpts)
}

func executeSet(w io.Writer, cfg config.Config, typeName string, opts setOptions) error {
	t, err := lights.ParseType(typeName)
	if err != nil {
		return err
	}
	color, err := lights.ParseColor(opts.color)
	if err != nil {
		return err
	}
	flash, err := lights.ParseFlash(opts.flash)
	if err != nil {
		return err
	}

	dev, err := openDevice(cfg, nil)
	if err != nil {
		return err
	}
	defer dev.Close()

	status, err := dev.arbiter.SetLight(t, lights.State{
		Color:      color,
		FlashMode:  flash,
		FlashOnMs:  opts.onMs,
		FlashOffMs: opts.offMs,
	})
	if dev.recorder != nil {
		for _, write := range dev.recorder.Writes() {
			fmt.Fprintf(w, "%s = %s\n", write.ID, write.Value)
		}
	}
	if err != nil {
		return err
	}
	if status != lights.StatusSuccess {
		return fmt.Errorf("%s: %s", t, status)
	}

	fmt.Fprintf(w, "[OK] %s\n", t)
	return nil
}
