package invert

import (
	"math"
	"testing"

	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
)

func allStrategies(t *testing.T) map[Method]PoleSearch {
	t.Helper()
	out := make(map[Method]PoleSearch)
	for _, m := range []Method{MethodFibonacciCone, MethodConicalGrid, MethodMonteCarlo, MethodRegularGrid} {
		s, err := NewPoleSearch(m, DefaultPoleOptions())
		if err != nil {
			t.Fatalf("NewPoleSearch(%s): %v", m, err)
		}
		out[m] = s
	}
	return out
}

func TestNewPoleSearchUnknownMethod(t *testing.T) {
	if _, err := NewPoleSearch(Method("spiral-of-doom"), DefaultPoleOptions()); err == nil {
		t.Fatal("expected configuration error for unknown method")
	}
}

func TestNewPoleSearchBadOptions(t *testing.T) {
	tests := []struct {
		name string
		m    Method
		opts PoleOptions
	}{
		{"zero spiral nodes", MethodFibonacciCone, PoleOptions{}},
		{"zero step conical", MethodConicalGrid, PoleOptions{}},
		{"zero step regular", MethodRegularGrid, PoleOptions{}},
		{"zero trials", MethodMonteCarlo, PoleOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPoleSearch(tt.m, tt.opts); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestCandidateNormalGeometry(t *testing.T) {
	f := tiltedFault(t, 30)
	for _, theta := range []float64{0, 0.1, 0.5, 1.2} {
		for _, phi := range []float64{0, 1, 3, 6} {
			cand := candidateNormal(f, theta, phi)
			if math.Abs(cand.Norm()-1) > 1e-12 {
				t.Fatalf("candidate not unit length: %v", cand)
			}
			got := math.Acos(geom.ClampUnit(cand.Dot(f.Normal)))
			if math.Abs(got-theta) > 1e-9 {
				t.Fatalf("candidate at angle %v from normal, want %v", got, theta)
			}
		}
	}
}

func TestAlignmentRotationCoincidentPlanes(t *testing.T) {
	// When the candidate plane coincides with the measured one, the
	// minimal rotation is the in-plane striation mismatch itself.
	st := geom.Diagonal(-1, 0, -0.5)
	f := tiltedFault(t, 30)
	got := alignmentRotation(f, st, f.Normal)
	if math.Abs(got-geom.Radians(30)) > 1e-9 {
		t.Errorf("alignmentRotation = %v, want %v", got, geom.Radians(30))
	}
}

func TestAlignmentRotationDegenerateCandidate(t *testing.T) {
	// A candidate on a principal plane predicts no slip and must never
	// improve a bound.
	st := geom.Diagonal(-1, 0, -0.5)
	f := tiltedFault(t, 30)
	if got := alignmentRotation(f, st, geom.Vec(0, 0, 1)); got != math.Pi {
		t.Errorf("alignmentRotation = %v, want pi", got)
	}
}

func TestRefineNeverLoosensBound(t *testing.T) {
	st := geom.Diagonal(-1, 0, -0.5)
	for _, deg := range []float64{5, 20, 45, 90, 150} {
		f := tiltedFault(t, deg)
		bound := striationMisfit(st, f)
		for m, s := range allStrategies(t) {
			got := s.Refine(f, st, bound)
			if got < 0 || got > bound+1e-12 {
				t.Errorf("%s: refined bound %v outside [0, %v] for %v-degree fault", m, got, bound, deg)
			}
		}
	}
}

func TestRefineAlignedFault(t *testing.T) {
	// Predicted and measured slip coincide: the initial bound is already
	// zero and every strategy returns it unchanged.
	st := geom.Diagonal(-1, 0, -0.5)
	f := tiltedFault(t, 0)
	bound := striationMisfit(st, f)
	if bound > 1e-9 {
		t.Fatalf("aligned fault bound = %v, want ~0", bound)
	}
	for m, s := range allStrategies(t) {
		if got := s.Refine(f, st, bound); got > bound {
			t.Errorf("%s: refined %v above bound %v", m, got, bound)
		}
	}
}

func TestMonteCarloSeededDeterminism(t *testing.T) {
	st := geom.Diagonal(-1, 0, -0.5)
	f := tiltedFault(t, 60)
	bound := striationMisfit(st, f)

	opts := DefaultPoleOptions()
	opts.Seed = 42
	a, err := NewPoleSearch(MethodMonteCarlo, opts)
	if err != nil {
		t.Fatalf("NewPoleSearch: %v", err)
	}
	b, err := NewPoleSearch(MethodMonteCarlo, opts)
	if err != nil {
		t.Fatalf("NewPoleSearch: %v", err)
	}

	r1 := a.Refine(f, st, bound)
	r2 := b.Refine(f, st, bound)
	if r1 != r2 {
		t.Errorf("same seed produced %v and %v", r1, r2)
	}
	if r1 > bound {
		t.Errorf("monte carlo bound %v exceeds initial %v", r1, bound)
	}
}

func TestPoleRotationCriterion(t *testing.T) {
	st := geom.Diagonal(-1, 0, -0.5)
	set := fault.Set{tiltedFault(t, 10), tiltedFault(t, 50)}
	search, err := NewPoleSearch(MethodFibonacciCone, DefaultPoleOptions())
	if err != nil {
		t.Fatalf("NewPoleSearch: %v", err)
	}

	pole := NewPoleRotation(set, CriterionConfig{}, search).Value(st)
	angular := NewAngularDeviation(set, CriterionConfig{}).Value(st)
	if pole < 0 {
		t.Errorf("pole-rotation misfit %v negative", pole)
	}
	// The refined rotation per fault never exceeds its closed-form bound.
	if pole > angular+1e-12 {
		t.Errorf("pole-rotation sum %v exceeds angular sum %v", pole, angular)
	}
}
