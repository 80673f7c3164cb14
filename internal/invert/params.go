package invert

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/xaliphostes/stress/internal/geom"
)

// Params dimensions the Fibonacci-lattice sweep and its refinement pass.
type Params struct {
	// RotAngleHalfInterval is the half-apex angle (radians) of the cone of
	// orientations explored around the starting estimate.
	RotAngleHalfInterval float64 `yaml:"rot_angle_half_interval"`
	// DeltaRotAngle is both the target angular spacing between lattice
	// axes and the rotation-magnitude increment per axis.
	DeltaRotAngle float64 `yaml:"delta_rot_angle"`
	// StressRatioHalfInterval and DeltaStressRatio dimension the stress
	// ratio sweep around the starting ratio; values outside [0,1] are
	// skipped.
	StressRatioHalfInterval float64 `yaml:"stress_ratio_half_interval"`
	DeltaStressRatio        float64 `yaml:"delta_stress_ratio"`
	// LocalMinima is the capacity of the retained-candidate list.
	LocalMinima int `yaml:"local_minima"`
	// RefineDelta and RefineSteps dimension the local two-angle grid
	// polished around each retained candidate: offsets run over
	// [-RefineSteps, RefineSteps] in both angles, spaced RefineDelta.
	RefineDelta float64 `yaml:"refine_delta"`
	RefineSteps int     `yaml:"refine_steps"`
	// Workers > 1 splits the axis range across goroutines.
	Workers int `yaml:"workers"`
	// EarlyExit stops the sweep as soon as an exact-zero misfit is found.
	EarlyExit bool `yaml:"early_exit"`
}

// DefaultParams returns a sweep sized for interactive use.
func DefaultParams() Params {
	return Params{
		RotAngleHalfInterval:    geom.Radians(20),
		DeltaRotAngle:           geom.Radians(5),
		StressRatioHalfInterval: 0.2,
		DeltaStressRatio:        0.05,
		LocalMinima:             10,
		RefineDelta:             geom.Radians(1),
		RefineSteps:             3,
		Workers:                 1,
	}
}

// Validate rejects parameter sets that would stall or skip the sweep.
func (p Params) Validate() error {
	if p.DeltaRotAngle <= 0 {
		return fmt.Errorf("params: delta_rot_angle must be > 0, got %g", p.DeltaRotAngle)
	}
	if p.RotAngleHalfInterval <= 0 {
		return fmt.Errorf("params: rot_angle_half_interval must be > 0, got %g", p.RotAngleHalfInterval)
	}
	if p.DeltaStressRatio <= 0 {
		return fmt.Errorf("params: delta_stress_ratio must be > 0, got %g", p.DeltaStressRatio)
	}
	if p.StressRatioHalfInterval < 0 {
		return fmt.Errorf("params: stress_ratio_half_interval must be >= 0, got %g", p.StressRatioHalfInterval)
	}
	if p.LocalMinima < 1 {
		return fmt.Errorf("params: local_minima must be >= 1, got %d", p.LocalMinima)
	}
	if p.RefineDelta <= 0 {
		return fmt.Errorf("params: refine_delta must be > 0, got %g", p.RefineDelta)
	}
	if p.RefineSteps < 0 {
		return fmt.Errorf("params: refine_steps must be >= 0, got %d", p.RefineSteps)
	}
	return nil
}

// Hemisphere returns H, the per-hemisphere node count of the axis lattice:
// ceil(2*pi/delta^2) makes the average inter-node spacing approximately
// DeltaRotAngle.
func (p Params) Hemisphere() int {
	return int(math.Ceil(2 * math.Pi / (p.DeltaRotAngle * p.DeltaRotAngle)))
}

// magnitudeSteps is the positive rotation-magnitude count per axis.
func (p Params) magnitudeSteps() int {
	return int(math.Ceil(p.RotAngleHalfInterval / p.DeltaRotAngle))
}

// ratioSteps is the one-sided stress-ratio offset count.
func (p Params) ratioSteps() int {
	return int(math.Ceil(p.StressRatioHalfInterval / p.DeltaStressRatio))
}

// Plan describes the sweep a parameter set produces before running it.
type Plan struct {
	Axes        int   `json:"axes"`
	Magnitudes  int   `json:"magnitudes"`
	Ratios      int   `json:"ratios"`
	Evaluations int64 `json:"evaluations"`
}

// Plan returns the sweep dimensions. Evaluations is an upper bound: ratio
// offsets leaving [0,1] are skipped at run time.
func (p Params) Plan() Plan {
	axes := 2*p.Hemisphere() + 1
	mags := p.magnitudeSteps()
	ratios := 2*p.ratioSteps() + 1
	return Plan{
		Axes:        axes,
		Magnitudes:  mags,
		Ratios:      ratios,
		Evaluations: int64(axes) * int64(mags) * int64(ratios),
	}
}

// LatticeSpacing measures the axis lattice against the configured spacing:
// the mean and standard deviation of nearest-neighbor angular distances
// (radians) over the 2h+1 nodes.
func LatticeSpacing(h int) (mean, stddev float64) {
	axes := geom.FibonacciAxes(h)
	vecs := make([]geom.Vector3, len(axes))
	for i, a := range axes {
		vecs[i] = a.Vector()
	}
	nearest := make([]float64, len(vecs))
	for i, v := range vecs {
		best := math.Pi
		for j, u := range vecs {
			if i == j {
				continue
			}
			if d := math.Acos(geom.ClampUnit(v.Dot(u))); d < best {
				best = d
			}
		}
		nearest[i] = best
	}
	return stat.Mean(nearest, nil), stat.StdDev(nearest, nil)
}

// LoadParams reads a Params YAML file. Missing fields keep their defaults.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
