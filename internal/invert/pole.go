package invert

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/mech"
)

// PoleSearch refines the minimal rotation angle reconciling one fault with
// a trial tensor. The returned angle never exceeds bound: refinement only
// tightens. Implementations are safe for concurrent use.
type PoleSearch interface {
	Refine(f *fault.Fault, st geom.Matrix3x3, bound float64) float64
}

// Method selects a PoleSearch implementation.
type Method string

const (
	MethodFibonacciCone Method = "fibonacci-cone"
	MethodConicalGrid   Method = "conical-grid"
	MethodMonteCarlo    Method = "monte-carlo"
	MethodRegularGrid   Method = "regular-grid"
)

// PoleOptions carries the per-strategy tunables.
type PoleOptions struct {
	// SpiralNodes is the hemisphere node count of the fibonacci-cone spiral.
	SpiralNodes int
	// Step is the angular increment (radians) of the grid strategies.
	Step float64
	// Trials and Seed parameterize the monte-carlo strategy.
	Trials int
	Seed   int64
}

// DefaultPoleOptions returns the tunables used when the caller has no
// opinion.
func DefaultPoleOptions() PoleOptions {
	return PoleOptions{
		SpiralNodes: 200,
		Step:        geom.Radians(2),
		Trials:      500,
		Seed:        1,
	}
}

// NewPoleSearch builds the selected strategy. An unknown selector is a
// configuration error.
func NewPoleSearch(m Method, opts PoleOptions) (PoleSearch, error) {
	switch m {
	case MethodFibonacciCone:
		if opts.SpiralNodes < 1 {
			return nil, fmt.Errorf("pole search %q: spiral nodes must be >= 1, got %d", m, opts.SpiralNodes)
		}
		return fibonacciCone{nodes: opts.SpiralNodes}, nil
	case MethodConicalGrid:
		if opts.Step <= 0 {
			return nil, fmt.Errorf("pole search %q: step must be > 0, got %g", m, opts.Step)
		}
		return conicalGrid{step: opts.Step}, nil
	case MethodMonteCarlo:
		if opts.Trials < 1 {
			return nil, fmt.Errorf("pole search %q: trials must be >= 1, got %d", m, opts.Trials)
		}
		return monteCarlo{trials: opts.Trials, seed: opts.Seed}, nil
	case MethodRegularGrid:
		if opts.Step <= 0 {
			return nil, fmt.Errorf("pole search %q: step must be > 0, got %g", m, opts.Step)
		}
		return regularGrid{step: opts.Step}, nil
	}
	return nil, fmt.Errorf("unknown pole search method %q (available: %s, %s, %s, %s)",
		m, MethodFibonacciCone, MethodConicalGrid, MethodMonteCarlo, MethodRegularGrid)
}

// candidateNormal tilts the fault normal by colatitude theta toward azimuth
// phi of the fault's tangent frame. Parametric form; cheaper than composing
// a rotation tensor per node.
func candidateNormal(f *fault.Fault, theta, phi float64) geom.Vector3 {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return f.Normal.Mul(cosT).
		Add(f.ETheta.Mul(sinT * cosP)).
		Add(f.EPhi.Mul(sinT * sinP))
}

// alignmentRotation returns the minimal rotation angle that brings the
// candidate plane and its predicted slip onto the measured plane and
// striation. The tilt axis w is normal to the great circle through both
// poles; tilting the candidate shear into the measured plane leaves an
// in-plane striation mismatch, and the two-angle decomposition below
// combines tilt and parallel-circle rotation into one exact angle.
//
// A candidate with degenerate shear cannot predict slip and returns pi,
// which never improves a bound. Coincident planes reduce to the pure
// in-plane mismatch.
func alignmentRotation(f *fault.Fault, st geom.Matrix3x3, candidate geom.Vector3) float64 {
	ps := mech.StressOnPlane(st, candidate)
	if ps.ShearMag <= Epsilon {
		return math.Pi
	}

	w := candidate.Cross(f.Normal)
	wAngle := math.Asin(geom.ClampUnit(w.Norm()))
	if wAngle <= Epsilon {
		return mech.StriationAngle(f.Striation, ps.Shear, ps.ShearMag)
	}

	tilt := geom.RotationAbout(w.Mul(1/w.Norm()), wAngle)
	shearRot := tilt.MulVec(ps.Shear)
	angDif := mech.StriationAngle(f.Striation, shearRot, ps.ShearMag)

	phi := angDif / 2
	sinPhi, cosPhi := math.Sincos(phi)
	den := math.Sqrt(1 - cosPhi*cosPhi*math.Cos(wAngle/2))
	theta := math.Asin(geom.ClampUnit(sinPhi / den))
	return 2 * math.Atan(math.Tan(wAngle/2)/math.Cos(theta))
}

// fibonacciCone samples candidate normals on a golden-angle spiral confined
// to the cone of half-angle bound around the measured normal. Node j of the
// nodes-count hemisphere spiral sits at colatitude pi/2 - asin(2j/(2n+1));
// iterating j downward walks outward from the normal, so the scan stops as
// soon as a node's colatitude exceeds the current bound — the bound only
// shrinks, so later nodes can never be profitable.
type fibonacciCone struct {
	nodes int
}

func (s fibonacciCone) Refine(f *fault.Fault, st geom.Matrix3x3, bound float64) float64 {
	best := bound
	total := float64(2*s.nodes + 1)
	jCone := int(math.Ceil(math.Cos(bound) * total / 2))
	for j := s.nodes; j >= jCone; j-- {
		colat := math.Pi/2 - math.Asin(geom.ClampUnit(2*float64(j)/total))
		if colat > best {
			break
		}
		lon := 2 * math.Pi * float64(j) / math.Phi
		cand := candidateNormal(f, colat, lon)
		if omega := alignmentRotation(f, st, cand); omega < best {
			best = omega
		}
	}
	return best
}

// conicalGrid walks a deterministic polar grid: radial rings spaced by
// step, each ring carrying floor(2*pi*sin(r)/step) + 1 samples so arc
// spacing along the ring matches the radial spacing (areal-density
// correction).
type conicalGrid struct {
	step float64
}

func (s conicalGrid) Refine(f *fault.Fault, st geom.Matrix3x3, bound float64) float64 {
	best := bound
	nRadial := int(math.Floor(bound / s.step))
	for j := 1; j <= nRadial; j++ {
		radial := float64(j) * s.step
		nCircle := int(math.Floor(2 * math.Pi * math.Sin(radial) / s.step))
		deltaPsi := s.step / math.Sin(radial)
		for k := 0; k <= nCircle; k++ {
			cand := candidateNormal(f, radial, float64(k)*deltaPsi)
			if omega := alignmentRotation(f, st, cand); omega < best {
				best = omega
			}
		}
	}
	return best
}

// regularGrid is the conical grid without the sin correction: a fixed
// angular step in both the radial and circular directions. Denser near the
// cone apex; exposed for completeness under the same contract.
type regularGrid struct {
	step float64
}

func (s regularGrid) Refine(f *fault.Fault, st geom.Matrix3x3, bound float64) float64 {
	best := bound
	nRadial := int(math.Floor(bound / s.step))
	nCircle := int(math.Floor(2 * math.Pi / s.step))
	for j := 1; j <= nRadial; j++ {
		radial := float64(j) * s.step
		for k := 0; k <= nCircle; k++ {
			cand := candidateNormal(f, radial, float64(k)*s.step)
			if omega := alignmentRotation(f, st, cand); omega < best {
				best = omega
			}
		}
	}
	return best
}

// monteCarlo draws rotation axes uniformly on the sphere (azimuth 2*pi*U,
// colatitude acos(1-2U), the area-correct inverse-CDF transform) and
// rotation magnitudes uniform in [0, current bound). The bound shrinks as
// trials land, so the magnitude interval tightens during the scan. A fresh
// generator is seeded per call, keeping Refine deterministic and safe
// under concurrent sweeps.
type monteCarlo struct {
	trials int
	seed   int64
}

func (s monteCarlo) Refine(f *fault.Fault, st geom.Matrix3x3, bound float64) float64 {
	best := bound
	rng := rand.New(rand.NewSource(s.seed))
	for i := 0; i < s.trials; i++ {
		axis := geom.Spherical{
			Theta: math.Acos(1 - 2*rng.Float64()),
			Phi:   2 * math.Pi * rng.Float64(),
		}.Vector()
		angle := rng.Float64() * best
		cand := geom.RotationAbout(axis, angle).MulVec(f.Normal)
		if omega := alignmentRotation(f, st, cand); omega < best {
			best = omega
		}
	}
	return best
}
