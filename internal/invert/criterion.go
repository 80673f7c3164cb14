// Package invert is the optimization engine of the paleostress inversion:
// misfit criteria scoring a trial stress tensor against a fault set, the
// per-fault pole refinement strategies, and the Fibonacci-lattice global
// search over tensor orientations and stress ratios.
package invert

import (
	"fmt"
	"math"
	"sort"

	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/mech"
)

// Epsilon bounds the magnitudes below which shear and shifted normal
// stresses are treated as degenerate, and the smallest friction angle the
// friction criterion accepts.
const Epsilon = 1e-7

// Criterion scores a trial stress tensor against a fault set. Lower is
// better; values are nonnegative. Implementations are safe for concurrent
// use: they hold only constructor-time data.
type Criterion interface {
	Value(st geom.Matrix3x3) float64
}

// CriterionConfig carries the tunable parts of a criterion.
type CriterionConfig struct {
	// Cohesion and FrictionAngle (radians) parameterize the Mohr-Coulomb
	// friction line. FrictionAngle must be positive when the friction
	// criterion is selected.
	Cohesion      float64
	FrictionAngle float64
	// FrictionWeight scales the friction penalty relative to the angular
	// deviation.
	FrictionWeight float64
	// MaxFaults caps how many per-fault values contribute to the sum: the
	// smallest MaxFaults are kept, tolerating outlier measurements.
	// Zero means all faults contribute.
	MaxFaults int
}

// CriterionKind selects a Criterion implementation.
type CriterionKind string

const (
	CriterionAngular      CriterionKind = "angular"
	CriterionFriction     CriterionKind = "friction"
	CriterionPoleRotation CriterionKind = "pole-rotation"
)

// NewCriterion builds the selected criterion over set. search is consumed
// only by the pole-rotation criterion and may be nil otherwise.
func NewCriterion(kind CriterionKind, set fault.Set, cfg CriterionConfig, search PoleSearch) (Criterion, error) {
	switch kind {
	case CriterionAngular:
		return NewAngularDeviation(set, cfg), nil
	case CriterionFriction:
		return NewFrictionAngularDeviation(set, cfg)
	case CriterionPoleRotation:
		if search == nil {
			return nil, fmt.Errorf("criterion %q requires a pole search strategy", kind)
		}
		return NewPoleRotation(set, cfg, search), nil
	}
	return nil, fmt.Errorf("unknown criterion %q (available: %s, %s, %s)",
		kind, CriterionAngular, CriterionFriction, CriterionPoleRotation)
}

// striationMisfit is the per-fault angular deviation in [0, pi] between the
// measured striation and the slip predicted by st. A plane whose shear
// magnitude is below Epsilon is sub-perpendicular to a principal axis and
// cannot be meaningfully sheared; it receives the fixed maximal penalty
// pi/2 so it never dominates or aborts the fit.
func striationMisfit(st geom.Matrix3x3, f *fault.Fault) float64 {
	ps := mech.StressOnPlane(st, f.Normal)
	if ps.ShearMag <= Epsilon {
		return math.Pi / 2
	}
	return mech.StriationAngle(f.Striation, ps.Shear, ps.ShearMag)
}

// aggregate sums per-fault misfits. With a positive cap the values are
// sorted ascending (stable, so ties keep original fault order) and only the
// smallest maxFaults contribute.
func aggregate(vals []float64, maxFaults int) float64 {
	if maxFaults > 0 && maxFaults < len(vals) {
		sort.Stable(sort.Float64Slice(vals))
		vals = vals[:maxFaults]
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum
}

// AngularDeviation is the Etchecopar-style criterion: the sum of angular
// differences between measured and predicted striations.
type AngularDeviation struct {
	set       fault.Set
	maxFaults int
}

// NewAngularDeviation builds the angular-deviation criterion. Only
// cfg.MaxFaults is consulted.
func NewAngularDeviation(set fault.Set, cfg CriterionConfig) *AngularDeviation {
	return &AngularDeviation{set: set, maxFaults: cfg.MaxFaults}
}

func (c *AngularDeviation) Value(st geom.Matrix3x3) float64 {
	vals := make([]float64, len(c.set))
	for i, f := range c.set {
		vals[i] = striationMisfit(st, f)
	}
	return aggregate(vals, c.maxFaults)
}

// FrictionAngularDeviation augments the angular deviation with a penalty
// for planes violating the Mohr-Coulomb friction law.
type FrictionAngularDeviation struct {
	set           fault.Set
	frictionAngle float64
	weight        float64
	maxFaults     int

	// deltaNormal shifts the normalized Mohr circle along the normal-stress
	// axis so the friction line passes through the origin, making the
	// apparent friction angle of a plane directly comparable to the rock's.
	deltaNormal float64
}

// NewFrictionAngularDeviation builds the friction-augmented criterion.
// It fails at configuration time when cfg.FrictionAngle <= Epsilon: no
// valid Mohr-circle shift exists for a non-positive friction angle.
func NewFrictionAngularDeviation(set fault.Set, cfg CriterionConfig) (*FrictionAngularDeviation, error) {
	if cfg.FrictionAngle <= Epsilon {
		return nil, fmt.Errorf("friction criterion: friction angle must be > 0, got %g", cfg.FrictionAngle)
	}
	return &FrictionAngularDeviation{
		set:           set,
		frictionAngle: cfg.FrictionAngle,
		weight:        cfg.FrictionWeight,
		maxFaults:     cfg.MaxFaults,
		deltaNormal:   cfg.Cohesion / math.Tan(cfg.FrictionAngle),
	}, nil
}

func (c *FrictionAngularDeviation) Value(st geom.Matrix3x3) float64 {
	vals := make([]float64, len(c.set))
	for i, f := range c.set {
		ps := mech.StressOnPlane(st, f.Normal)

		angular := math.Pi / 2
		if ps.ShearMag > Epsilon {
			angular = mech.StriationAngle(f.Striation, ps.Shear, ps.ShearMag)
		}

		vals[i] = angular + c.weight*c.frictionPenalty(ps)
	}
	return aggregate(vals, c.maxFaults)
}

// frictionPenalty is the angle by which a plane falls short of the rock
// friction angle, zero when the plane satisfies the friction law. A
// shifted normal stress below Epsilon means the plane is cohesionless and
// sub-perpendicular to sigma3; the penalty is then maximal.
func (c *FrictionAngularDeviation) frictionPenalty(ps mech.PlaneStress) float64 {
	shifted := -ps.Normal + c.deltaNormal
	if shifted <= Epsilon {
		return c.frictionAngle
	}
	apparent := math.Atan(ps.ShearMag / shifted)
	if apparent >= c.frictionAngle {
		return 0
	}
	return c.frictionAngle - apparent
}

// PoleRotation is the Gephart-style criterion: the per-fault misfit is the
// minimal rotation angle reconciling the predicted and observed plane/slip
// geometry, refined from the closed-form striation bound by the configured
// pole search strategy.
type PoleRotation struct {
	set       fault.Set
	search    PoleSearch
	maxFaults int
}

// NewPoleRotation builds the pole-rotation criterion around a pole search
// strategy.
func NewPoleRotation(set fault.Set, cfg CriterionConfig, search PoleSearch) *PoleRotation {
	return &PoleRotation{set: set, search: search, maxFaults: cfg.MaxFaults}
}

func (c *PoleRotation) Value(st geom.Matrix3x3) float64 {
	vals := make([]float64, len(c.set))
	for i, f := range c.set {
		bound := striationMisfit(st, f)
		vals[i] = c.search.Refine(f, st, bound)
	}
	return aggregate(vals, c.maxFaults)
}
