package invert

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/logging"
	"github.com/xaliphostes/stress/internal/mech"
)

// Solution is a search's working estimate, mutated in place by Run.
//
// Frames: S is geographic (East, North, Up); Sr is the rough principal
// frame of the caller's starting estimate; Sw is the principal frame of
// the current candidate, ordered (sigma1, sigma3, sigma2) along (X, Y, Z).
type Solution struct {
	// Rrot maps the rough frame Sr to geographic S. Fixed by the caller.
	Rrot geom.Matrix3x3
	// Drot maps Sr to Sw for the best candidate; Wrot maps S to Sw.
	Drot geom.Matrix3x3
	Wrot geom.Matrix3x3
	// StressRatio is R = (s2-s3)/(s1-s3), in [0,1].
	StressRatio float64
	// Misfit is the criterion value of the best tensor seen.
	Misfit float64
	// Improved reports whether Run beat the caller's starting solution.
	Improved bool
}

// NewSolution builds the starting solution around a rough-to-geographic
// rotation and a stress ratio estimate. The misfit starts unbounded; the
// zero-rotation evaluation pins it.
func NewSolution(rrot geom.Matrix3x3, stressRatio float64) *Solution {
	return &Solution{
		Rrot:        rrot,
		Drot:        geom.Identity(),
		Wrot:        rrot.Transpose(),
		StressRatio: stressRatio,
		Misfit:      math.Inf(1),
	}
}

// SearchMethod locates a better stress tensor than the solution it is
// handed, mutating the solution in place and reporting whether it
// improved.
type SearchMethod interface {
	Run(ctx context.Context, sol *Solution) (bool, error)
}

// errEarlyExit short-circuits the sweep when an exact-zero misfit is
// found; it is consumed inside Run, never surfaced to callers.
var errEarlyExit = errors.New("exact-zero misfit found")

// FibonacciLattice sweeps candidate tensors over a golden-angle axis
// lattice, positive rotation magnitudes and a stress-ratio interval,
// retains the lowest-misfit candidates and polishes them with a local
// two-angle grid.
type FibonacciLattice struct {
	criterion Criterion
	params    Params
	log       *slog.Logger
	evals     atomic.Int64
}

// NewFibonacciLattice validates the parameters and builds the search.
func NewFibonacciLattice(criterion Criterion, params Params, log *slog.Logger) (*FibonacciLattice, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.New("lattice")
	}
	return &FibonacciLattice{criterion: criterion, params: params, log: log}, nil
}

// Evaluations returns how many criterion evaluations the last Run made.
func (s *FibonacciLattice) Evaluations() int64 { return s.evals.Load() }

// Run sweeps the lattice and mutates sol with the best refined candidate.
// The zero-rotation case (the caller's starting estimate) is evaluated
// once before the sweep, so it always competes. Ties keep the first
// candidate encountered in axis-major, magnitude-next, ratio-innermost
// order.
func (s *FibonacciLattice) Run(ctx context.Context, sol *Solution) (bool, error) {
	h := s.params.Hemisphere()
	s.evals.Store(0)

	plan := s.params.Plan()
	s.log.Debug("starting lattice sweep",
		"axes", plan.Axes, "magnitudes", plan.Magnitudes, "ratios", plan.Ratios,
		"workers", s.params.Workers)

	wtrot0 := sol.Rrot
	m0 := s.criterion.Value(mech.TrialTensor(sol.StressRatio, wtrot0.Transpose(), wtrot0))
	s.evals.Add(1)
	if m0 < sol.Misfit {
		sol.Misfit = m0
	}
	baseline := sol.Misfit

	minima := NewLocalMinima(s.params.LocalMinima)
	var err error
	if s.params.Workers > 1 {
		err = s.sweepParallel(ctx, sol, h, minima)
	} else {
		err = s.sweepRange(ctx, sol, -h, h, minima)
	}
	if err != nil && !errors.Is(err, errEarlyExit) {
		return false, err
	}

	best, ok := minima.Best()
	if !ok {
		sol.Improved = false
		return false, nil
	}
	for _, c := range minima.Candidates() {
		if rc := s.refine(sol, c); rc.Misfit < best.Misfit {
			best = rc
		}
	}

	s.log.Debug("lattice sweep done",
		"evaluations", s.evals.Load(), "best_misfit", best.Misfit, "baseline", baseline)

	if best.Misfit >= baseline {
		sol.Improved = false
		return false, nil
	}
	s.apply(sol, best)
	sol.Improved = true
	return true, nil
}

// sweepRange evaluates lattice axes lo..hi inclusive, inserting every
// candidate into minima. It returns errEarlyExit when configured to stop
// on an exact-zero misfit.
func (s *FibonacciLattice) sweepRange(ctx context.Context, sol *Solution, lo, hi int, minima *LocalMinima) error {
	h := s.params.Hemisphere()
	nMag := s.params.magnitudeSteps()
	nRatio := s.params.ratioSteps()
	r0 := sol.StressRatio

	for i := lo; i <= hi; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		node := geom.FibonacciNode(i, h)
		axis := node.Vector()
		for j := 1; j <= nMag; j++ {
			angle := float64(j) * s.params.DeltaRotAngle
			dtrot := geom.RotationAbout(axis, angle)
			wtrot := sol.Rrot.Mul(dtrot)
			wrot := wtrot.Transpose()
			for l := -nRatio; l <= nRatio; l++ {
				r := r0 + float64(l)*s.params.DeltaStressRatio
				if r < 0 || r > 1 {
					continue
				}
				m := s.criterion.Value(mech.TrialTensor(r, wrot, wtrot))
				s.evals.Add(1)
				minima.Insert(Candidate{Axis: node, RotAngle: angle, StressRatio: r, Misfit: m})
				if s.params.EarlyExit && m == 0 {
					return errEarlyExit
				}
			}
		}
	}
	return nil
}

// refine polishes a retained candidate with a local two-angle
// (phi, theta) grid around its axis, re-evaluating the criterion at the
// candidate's magnitude and ratio for each offset.
func (s *FibonacciLattice) refine(sol *Solution, c Candidate) Candidate {
	best := c
	n := s.params.RefineSteps
	d := s.params.RefineDelta
	for dp := -n; dp <= n; dp++ {
		for dt := -n; dt <= n; dt++ {
			if dp == 0 && dt == 0 {
				continue
			}
			axis := geom.Spherical{
				Theta: c.Axis.Theta + float64(dt)*d,
				Phi:   c.Axis.Phi + float64(dp)*d,
			}
			if axis.Theta < 0 || axis.Theta > math.Pi {
				continue
			}
			dtrot := geom.RotationAbout(axis.Vector(), c.RotAngle)
			wtrot := sol.Rrot.Mul(dtrot)
			m := s.criterion.Value(mech.TrialTensor(c.StressRatio, wtrot.Transpose(), wtrot))
			s.evals.Add(1)
			if m < best.Misfit {
				best = Candidate{Axis: axis, RotAngle: c.RotAngle, StressRatio: c.StressRatio, Misfit: m}
			}
		}
	}
	return best
}

// apply writes a winning candidate's tensors into the solution.
func (s *FibonacciLattice) apply(sol *Solution, c Candidate) {
	dtrot := geom.RotationAbout(c.Axis.Vector(), c.RotAngle)
	wtrot := sol.Rrot.Mul(dtrot)
	sol.Drot = dtrot.Transpose()
	sol.Wrot = wtrot.Transpose()
	sol.StressRatio = c.StressRatio
	sol.Misfit = c.Misfit
}

// Tensor returns the geographic-frame stress tensor of the solution's
// current estimate.
func (sol *Solution) Tensor() geom.Matrix3x3 {
	wtrot := sol.Wrot.Transpose()
	return mech.TrialTensor(sol.StressRatio, sol.Wrot, wtrot)
}
