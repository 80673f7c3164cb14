package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xaliphostes/stress/internal/display"
	"github.com/xaliphostes/stress/internal/invert"
)

var invertFlags struct {
	data      datasetFlags
	crit      criterionFlags
	params    string
	workers   int
	earlyExit bool
	jsonOut   bool
}

var invertCmd = &cobra.Command{
	Use:   "invert",
	Short: "Invert a fault set for the reduced stress tensor",
	Long: `Invert sweeps orientation space on a Fibonacci lattice, scores every
trial tensor against the fault set with the selected misfit criterion,
refines the best local minima and reports the winning tensor.`,
	RunE: runInvert,
}

func init() {
	f := invertCmd.Flags()
	f.StringVar(&invertFlags.data.file, "dataset", "", "Path to a fault dataset YAML file")
	f.StringVar(&invertFlags.data.sample, "sample", "", "Embedded sample dataset name (see 'stress datasets')")
	f.StringVar(&invertFlags.crit.criterion, "criterion", "angular", "Misfit criterion (angular, friction, pole-rotation)")
	f.StringVar(&invertFlags.crit.method, "method", "fibonacci-cone", "Pole search for pole-rotation (fibonacci-cone, conical-grid, regular-grid, monte-carlo)")
	f.Float64Var(&invertFlags.crit.cohesion, "cohesion", 0, "Rock cohesion for the friction criterion (normalized units)")
	f.Float64Var(&invertFlags.crit.frictionAngle, "friction-angle", 0, "Rock friction angle in degrees (required by the friction criterion)")
	f.Float64Var(&invertFlags.crit.frictionWeight, "friction-weight", 1, "Weight of the friction penalty")
	f.IntVar(&invertFlags.crit.maxFaults, "max-faults", 0, "Score only the best-fitting N faults (0 = all)")
	f.StringVar(&invertFlags.params, "params", "", "Search parameter YAML file (defaults when empty)")
	f.IntVar(&invertFlags.workers, "workers", 0, "Parallel sweep workers (0 = value from params)")
	f.BoolVar(&invertFlags.earlyExit, "early-exit", false, "Stop the sweep on an exact zero misfit")
	f.BoolVar(&invertFlags.jsonOut, "json", false, "Emit the report as JSON instead of text")
}

func runInvert(cmd *cobra.Command, _ []string) error {
	name, set, err := loadSet(invertFlags.data)
	if err != nil {
		return err
	}
	params, err := loadParams(invertFlags.params)
	if err != nil {
		return err
	}
	if invertFlags.workers > 0 {
		params.Workers = invertFlags.workers
	}
	if invertFlags.earlyExit {
		params.EarlyExit = true
	}

	cfg := invert.DefaultRunConfig()
	cfg.Dataset = name
	cfg.Set = set
	cfg.Params = params
	invertFlags.crit.apply(&cfg)

	rep, err := invert.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if invertFlags.jsonOut {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprint(out, display.FormatReport(rep))
	return nil
}
