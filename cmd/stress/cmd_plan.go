package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/invert"
)

var planFlags struct {
	params string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the sweep dimensions for a set of search parameters",
	Long: `Plan reports how large the orientation sweep would be for the given
search parameters, plus nearest-neighbor spacing statistics of the
Fibonacci lattice, without running an inversion.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFlags.params, "params", "", "Search parameter YAML file (defaults when empty)")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	params, err := loadParams(planFlags.params)
	if err != nil {
		return err
	}

	plan := params.Plan()
	mean, stddev := invert.LatticeSpacing(params.Hemisphere())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rotation axes:      %d (H = %d)\n", plan.Axes, params.Hemisphere())
	fmt.Fprintf(out, "Rotation angles:    %d per axis\n", plan.Magnitudes)
	fmt.Fprintf(out, "Stress ratios:      %d per angle\n", plan.Ratios)
	fmt.Fprintf(out, "Evaluations:        %d\n", plan.Evaluations)
	fmt.Fprintf(out, "Lattice spacing:    %.2f deg mean, %.2f deg stddev (target %.2f)\n",
		geom.Degrees(mean), geom.Degrees(stddev), geom.Degrees(params.DeltaRotAngle))
	return nil
}
