package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scheerer/indicator-lights/internal/arbiter"
	"github.com/scheerer/indicator-lights/internal/channel"
	"github.com/scheerer/indicator-lights/lights"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the light types this device supports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		executeTypes(cmd.OutOrStdout(), supportedTypes())
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

// supportedTypes asks an arbiter on a recorder; the answer does not
// depend on the hardware.
func supportedTypes() []lights.Type {
	return arbiter.New(channel.NewRecorder().Bank(), arbiter.Config{}).SupportedTypes()
}

func executeTypes(w io.Writer, types []lights.Type) {
	for _, t := range types {
		fmt.Fprintf(w, "%d\t%s\n", int32(t), t)
	}
}
