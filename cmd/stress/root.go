// stress inverts striated fault-plane measurements for the reduced stress
// tensor: the orientation of the three principal axes plus the stress ratio
// R = (sigma2-sigma3)/(sigma1-sigma3).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xaliphostes/stress/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "stress",
	Short: "Paleostress inversion from striated fault data",
	Long: `Stress inverts sets of striated fault-plane measurements for the reduced
stress tensor, searching orientation space on a Fibonacci lattice and
scoring candidates with angular, friction or pole-rotation misfit criteria.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(*cobra.Command, []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(invertCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
