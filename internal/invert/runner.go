package invert

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/logging"
	"github.com/xaliphostes/stress/internal/mech"
)

// RunConfig assembles one inversion: the fault set, the criterion and
// pole-search selectors, the sweep parameters and the starting estimate.
type RunConfig struct {
	// Dataset names the fault set in reports; informational only.
	Dataset string
	Set     fault.Set

	Criterion       CriterionKind
	CriterionConfig CriterionConfig

	// Method and PoleOptions configure the per-fault pole search; consumed
	// only by the pole-rotation criterion.
	Method      Method
	PoleOptions PoleOptions

	Params Params

	// Rrot is the rough-to-geographic rotation of the starting estimate
	// and StressRatio0 its stress ratio. A zero Rrot means identity: the
	// search frame starts aligned with geographic axes.
	Rrot         geom.Matrix3x3
	StressRatio0 float64
}

// DefaultRunConfig returns a runnable configuration for a fault set; the
// caller fills Set and adjusts selectors.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Criterion:       CriterionAngular,
		CriterionConfig: CriterionConfig{FrictionWeight: 1},
		Method:          MethodFibonacciCone,
		PoleOptions:     DefaultPoleOptions(),
		Params:          DefaultParams(),
		Rrot:            geom.Identity(),
		StressRatio0:    0.5,
	}
}

// PrincipalAxisReport is one principal stress axis in report form.
type PrincipalAxisReport struct {
	Value  float64 `json:"value"`
	Trend  float64 `json:"trend_deg"`
	Plunge float64 `json:"plunge_deg"`
}

// FaultFit is the winning tensor's per-fault breakdown.
type FaultFit struct {
	Label           string  `json:"label,omitempty"`
	Sense           string  `json:"sense"`
	AngularDeg      float64 `json:"angular_deviation_deg"`
	FrictionPenalty float64 `json:"friction_penalty_deg,omitempty"`
	TotalDeg        float64 `json:"total_deg"`
}

// Report is the result of one inversion run.
type Report struct {
	Dataset     string                `json:"dataset,omitempty"`
	Criterion   string                `json:"criterion"`
	Method      string                `json:"method,omitempty"`
	Faults      int                   `json:"faults"`
	StressRatio float64               `json:"stress_ratio"`
	Misfit      float64               `json:"misfit"`
	Improved    bool                  `json:"improved"`
	Evaluations int64                 `json:"evaluations"`
	Duration    string                `json:"duration"`
	Tensor      geom.Matrix3x3        `json:"tensor"`
	Axes        []PrincipalAxisReport `json:"principal_axes"`
	PerFault    []FaultFit            `json:"per_fault"`
}

// Run performs one inversion end to end: criterion assembly, lattice
// sweep, refinement and report building. Configuration errors surface
// before any search runs.
func Run(ctx context.Context, cfg RunConfig) (*Report, error) {
	if len(cfg.Set) == 0 {
		return nil, fmt.Errorf("run: empty fault set")
	}

	var search PoleSearch
	if cfg.Criterion == CriterionPoleRotation {
		var err error
		search, err = NewPoleSearch(cfg.Method, cfg.PoleOptions)
		if err != nil {
			return nil, err
		}
	}
	criterion, err := NewCriterion(cfg.Criterion, cfg.Set, cfg.CriterionConfig, search)
	if err != nil {
		return nil, err
	}

	rrot := cfg.Rrot
	if rrot == (geom.Matrix3x3{}) {
		rrot = geom.Identity()
	}

	log := logging.New("invert")
	lattice, err := NewFibonacciLattice(criterion, cfg.Params, log)
	if err != nil {
		return nil, err
	}

	sol := NewSolution(rrot, cfg.StressRatio0)
	start := time.Now()
	improved, err := lattice.Run(ctx, sol)
	if err != nil {
		return nil, fmt.Errorf("lattice search: %w", err)
	}
	elapsed := time.Since(start)

	log.Info("inversion done",
		"dataset", cfg.Dataset, "misfit", sol.Misfit, "stress_ratio", sol.StressRatio,
		"improved", improved, "evaluations", lattice.Evaluations(), "duration", elapsed)

	return buildReport(cfg, sol, lattice.Evaluations(), elapsed)
}

// Evaluate scores a fixed tensor against the fault set without searching:
// the eval surface of the CLI and MCP server.
func Evaluate(cfg RunConfig, st geom.Matrix3x3, stressRatio float64) (*Report, error) {
	if len(cfg.Set) == 0 {
		return nil, fmt.Errorf("evaluate: empty fault set")
	}
	var search PoleSearch
	if cfg.Criterion == CriterionPoleRotation {
		var err error
		search, err = NewPoleSearch(cfg.Method, cfg.PoleOptions)
		if err != nil {
			return nil, err
		}
	}
	criterion, err := NewCriterion(cfg.Criterion, cfg.Set, cfg.CriterionConfig, search)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Dataset:     cfg.Dataset,
		Criterion:   string(cfg.Criterion),
		Faults:      len(cfg.Set),
		StressRatio: stressRatio,
		Misfit:      criterion.Value(st),
		Evaluations: 1,
		Duration:    "0s",
		Tensor:      st,
	}
	if cfg.Criterion == CriterionPoleRotation {
		rep.Method = string(cfg.Method)
	}
	if err := fillAxes(rep, st); err != nil {
		return nil, err
	}
	fillPerFault(rep, cfg, st)
	return rep, nil
}

func buildReport(cfg RunConfig, sol *Solution, evals int64, elapsed time.Duration) (*Report, error) {
	st := sol.Tensor()
	rep := &Report{
		Dataset:     cfg.Dataset,
		Criterion:   string(cfg.Criterion),
		Faults:      len(cfg.Set),
		StressRatio: sol.StressRatio,
		Misfit:      sol.Misfit,
		Improved:    sol.Improved,
		Evaluations: evals,
		Duration:    elapsed.Round(time.Millisecond).String(),
		Tensor:      st,
	}
	if cfg.Criterion == CriterionPoleRotation {
		rep.Method = string(cfg.Method)
	}
	if err := fillAxes(rep, st); err != nil {
		return nil, err
	}
	fillPerFault(rep, cfg, st)
	return rep, nil
}

func fillAxes(rep *Report, st geom.Matrix3x3) error {
	axes, err := mech.PrincipalAxes(st)
	if err != nil {
		return err
	}
	rep.Axes = make([]PrincipalAxisReport, 3)
	for i, ax := range axes {
		trend, plunge := geom.TrendPlunge(ax.Direction)
		rep.Axes[i] = PrincipalAxisReport{Value: ax.Value, Trend: trend, Plunge: plunge}
	}
	return nil
}

// fillPerFault re-evaluates the winning tensor fault by fault. The
// friction penalty column is populated only under the friction criterion.
func fillPerFault(rep *Report, cfg RunConfig, st geom.Matrix3x3) {
	var friction *FrictionAngularDeviation
	if cfg.Criterion == CriterionFriction {
		friction, _ = NewFrictionAngularDeviation(cfg.Set, cfg.CriterionConfig)
	}

	rep.PerFault = make([]FaultFit, len(cfg.Set))
	for i, f := range cfg.Set {
		angular := striationMisfit(st, f)
		fit := FaultFit{
			Label:      f.Label,
			Sense:      string(f.Sense),
			AngularDeg: geom.Degrees(angular),
		}
		total := angular
		if friction != nil {
			ps := mech.StressOnPlane(st, f.Normal)
			penalty := friction.frictionPenalty(ps)
			fit.FrictionPenalty = geom.Degrees(penalty)
			total += cfg.CriterionConfig.FrictionWeight * penalty
		}
		fit.TotalDeg = geom.Degrees(total)
		fit.AngularDeg = roundDeg(fit.AngularDeg)
		fit.FrictionPenalty = roundDeg(fit.FrictionPenalty)
		fit.TotalDeg = roundDeg(fit.TotalDeg)
		rep.PerFault[i] = fit
	}
}

func roundDeg(d float64) float64 {
	return math.Round(d*100) / 100
}
