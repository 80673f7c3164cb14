package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xaliphostes/stress/internal/dataset"
)

var datasetsFlags struct {
	validate string
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List embedded sample datasets or validate a dataset file",
	RunE:  runDatasets,
}

func init() {
	datasetsCmd.Flags().StringVar(&datasetsFlags.validate, "validate", "", "Validate a dataset YAML file instead of listing samples")
}

func runDatasets(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if datasetsFlags.validate != "" {
		f, err := dataset.Load(datasetsFlags.validate)
		if err != nil {
			return err
		}
		set, err := f.FaultSet()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: OK (%d faults)\n", f.Name, len(set))
		return nil
	}

	for _, name := range dataset.List() {
		f, err := dataset.LoadEmbedded(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %3d faults  %s\n", f.Name, len(f.Faults), oneLine(f.Description))
	}
	return nil
}

func oneLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
