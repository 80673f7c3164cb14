// Package display renders inversion reports as plain text for terminals.
// JSON output stays on the Report struct itself; this package is words for
// humans.
package display

import (
	"fmt"
	"strings"

	"github.com/xaliphostes/stress/internal/invert"
)

var axisNames = [3]string{"sigma1", "sigma2", "sigma3"}

// FormatReport produces the human-readable inversion report.
func FormatReport(rep *invert.Report) string {
	var b strings.Builder

	b.WriteString("=== Stress Inversion Report ===\n")
	if rep.Dataset != "" {
		b.WriteString(fmt.Sprintf("Dataset:      %s\n", rep.Dataset))
	}
	criterion := rep.Criterion
	if rep.Method != "" {
		criterion += " / " + rep.Method
	}
	b.WriteString(fmt.Sprintf("Criterion:    %s\n", criterion))
	b.WriteString(fmt.Sprintf("Faults:       %d\n", rep.Faults))
	b.WriteString(fmt.Sprintf("Stress ratio: %.3f\n", rep.StressRatio))
	b.WriteString(fmt.Sprintf("Misfit:       %.4f rad  %s\n", rep.Misfit, boolMark(rep.Improved)))
	b.WriteString(fmt.Sprintf("Search:       %d evaluations in %s\n\n", rep.Evaluations, rep.Duration))

	b.WriteString("--- Principal axes (compression negative) ---\n")
	for i, ax := range rep.Axes {
		name := fmt.Sprintf("axis%d", i+1)
		if i < len(axisNames) {
			name = axisNames[i]
		}
		b.WriteString(fmt.Sprintf("%-7s %7.3f   trend %6.1f  plunge %5.1f\n",
			name, ax.Value, ax.Trend, ax.Plunge))
	}
	b.WriteString("\n")

	b.WriteString("--- Tensor (East-North-Up) ---\n")
	for _, row := range rep.Tensor {
		b.WriteString(fmt.Sprintf("[ %8.4f %8.4f %8.4f ]\n", row[0], row[1], row[2]))
	}
	b.WriteString("\n")

	b.WriteString("--- Per-fault misfit (degrees) ---\n")
	withFriction := false
	for _, fit := range rep.PerFault {
		if fit.FrictionPenalty != 0 {
			withFriction = true
			break
		}
	}
	for i, fit := range rep.PerFault {
		label := fit.Label
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if withFriction {
			b.WriteString(fmt.Sprintf("%-12s %-3s angular %6.2f  friction %6.2f  total %6.2f\n",
				label, fit.Sense, fit.AngularDeg, fit.FrictionPenalty, fit.TotalDeg))
		} else {
			b.WriteString(fmt.Sprintf("%-12s %-3s angular %6.2f\n",
				label, fit.Sense, fit.AngularDeg))
		}
	}

	return b.String()
}

func boolMark(improved bool) string {
	if improved {
		return "✓ improved"
	}
	return "✗ no improvement over starting estimate"
}
