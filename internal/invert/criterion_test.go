package invert

import (
	"math"
	"testing"

	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/mech"
)

// tiltedFault is a 45-degree plane between the X and Z axes with its
// striation rotated in-plane by angleDeg away from the slip predicted by
// diag(-1, 0, -0.5).
func tiltedFault(t *testing.T, angleDeg float64) *fault.Fault {
	t.Helper()
	s := math.Sqrt2 / 2
	// In-plane basis on the plane with normal (s, 0, s): u is the predicted
	// slip direction under diag(-1, 0, -0.5), v completes the frame.
	u := geom.Vec(-s, 0, s)
	v := geom.Vec(0, 1, 0)
	a := geom.Radians(angleDeg)
	striation := u.Mul(math.Cos(a)).Add(v.Mul(math.Sin(a)))
	f, err := fault.New(geom.Vec(s, 0, s), striation, fault.SenseNormal)
	if err != nil {
		t.Fatalf("fault.New: %v", err)
	}
	return f
}

func TestStriationMisfitRegressionAnchor(t *testing.T) {
	// Fixed input, golden value: the 45-degree dipping plane under
	// diag(-1, 0, -0.5) shears along (-1, 0, 1)/sqrt2 with magnitude 0.25;
	// a striation rotated 45 degrees in-plane deviates by exactly pi/4.
	st := geom.Diagonal(-1, 0, -0.5)
	f := tiltedFault(t, 45)
	got := striationMisfit(st, f)
	if math.Abs(got-math.Pi/4) > 1e-9 {
		t.Errorf("striationMisfit = %v, want %v", got, math.Pi/4)
	}
}

func TestStriationMisfitDegeneratePlane(t *testing.T) {
	// A principal plane carries no shear and takes the fixed pi/2 penalty.
	st := geom.Diagonal(-1, 0, -0.5)
	f, err := fault.New(geom.Vec(0, 0, 1), geom.Vec(1, 0, 0), fault.SenseUndefined)
	if err != nil {
		t.Fatalf("fault.New: %v", err)
	}
	if got := striationMisfit(st, f); got != math.Pi/2 {
		t.Errorf("striationMisfit = %v, want pi/2", got)
	}
}

func TestAngularDeviationRange(t *testing.T) {
	// Per-fault values stay in [0, pi] for assorted tensors.
	set := fault.Set{tiltedFault(t, 0), tiltedFault(t, 90), tiltedFault(t, 179)}
	tensors := []geom.Matrix3x3{
		geom.Diagonal(-1, 0, -0.5),
		geom.Diagonal(-1, 0, 0),
		mechTrial(0.3, geom.Vec(1, 1, 1), 0.7),
		mechTrial(0.9, geom.Vec(0, 1, -2), 1.4),
	}
	for _, st := range tensors {
		for i, f := range set {
			v := striationMisfit(st, f)
			if v < 0 || v > math.Pi {
				t.Errorf("fault %d: misfit %v outside [0, pi]", i, v)
			}
		}
	}
}

// mechTrial builds a trial tensor rotated about axis by angle.
func mechTrial(r float64, axis geom.Vector3, angle float64) geom.Matrix3x3 {
	wtrot := geom.RotationAbout(axis.Normalize(), angle)
	wrot := wtrot.Transpose()
	return wtrot.Mul(geom.Diagonal(-1, 0, -r)).Mul(wrot)
}

func TestAngularDeviationMaxFaultsCap(t *testing.T) {
	set := fault.Set{tiltedFault(t, 10), tiltedFault(t, 60), tiltedFault(t, 120)}
	st := geom.Diagonal(-1, 0, -0.5)

	full := NewAngularDeviation(set, CriterionConfig{}).Value(st)
	capped := NewAngularDeviation(set, CriterionConfig{MaxFaults: 2}).Value(st)

	if capped > full {
		t.Errorf("capped sum %v exceeds full sum %v", capped, full)
	}
	// The two smallest contributions are the 10- and 60-degree faults.
	want := geom.Radians(10) + geom.Radians(60)
	if math.Abs(capped-want) > 1e-9 {
		t.Errorf("capped sum = %v, want %v", capped, want)
	}
}

func TestFrictionConfigValidation(t *testing.T) {
	set := fault.Set{tiltedFault(t, 0)}
	if _, err := NewFrictionAngularDeviation(set, CriterionConfig{FrictionAngle: 0}); err == nil {
		t.Fatal("expected configuration error for friction angle 0")
	}
	if _, err := NewFrictionAngularDeviation(set, CriterionConfig{FrictionAngle: -0.3}); err == nil {
		t.Fatal("expected configuration error for negative friction angle")
	}

	c, err := NewFrictionAngularDeviation(set, CriterionConfig{Cohesion: 1, FrictionAngle: math.Pi / 4})
	if err != nil {
		t.Fatalf("NewFrictionAngularDeviation: %v", err)
	}
	// cohesion / tan(pi/4) shifts the Mohr circle by exactly 1.
	if math.Abs(c.deltaNormal-1) > 1e-12 {
		t.Errorf("deltaNormal = %v, want 1", c.deltaNormal)
	}
}

func TestFrictionValueAlignedFault(t *testing.T) {
	// Predicted and measured striations coincide, so the total misfit is
	// the weighted friction penalty alone: the plane has normal stress
	// -0.75 and shear 0.25, shifted normal 1.75, apparent friction angle
	// atan(1/7) below the pi/4 rock angle.
	set := fault.Set{tiltedFault(t, 0)}
	cfg := CriterionConfig{Cohesion: 1, FrictionAngle: math.Pi / 4, FrictionWeight: 2}
	c, err := NewFrictionAngularDeviation(set, cfg)
	if err != nil {
		t.Fatalf("NewFrictionAngularDeviation: %v", err)
	}
	got := c.Value(geom.Diagonal(-1, 0, -0.5))
	want := 2 * (math.Pi/4 - math.Atan(0.25/1.75))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Value = %v, want %v", got, want)
	}
}

func TestFrictionPenaltyDegenerateShiftedNormal(t *testing.T) {
	// Cohesionless plane sub-perpendicular to sigma3: the shifted normal
	// stress vanishes and the penalty is maximal.
	set := fault.Set{tiltedFault(t, 0)}
	cfg := CriterionConfig{Cohesion: 0, FrictionAngle: math.Pi / 6, FrictionWeight: 1}
	c, err := NewFrictionAngularDeviation(set, cfg)
	if err != nil {
		t.Fatalf("NewFrictionAngularDeviation: %v", err)
	}
	f, err := fault.New(geom.Vec(0, 1, 0), geom.Vec(1, 0, 0), fault.SenseUndefined)
	if err != nil {
		t.Fatalf("fault.New: %v", err)
	}
	// Sigma3 is along Y for diag(-1, 0, -R): zero normal stress, zero shift.
	ps := mech.StressOnPlane(geom.Diagonal(-1, 0, -0.5), f.Normal)
	if got := c.frictionPenalty(ps); got != math.Pi/6 {
		t.Errorf("frictionPenalty = %v, want pi/6", got)
	}
}

func TestNewCriterionSelector(t *testing.T) {
	set := fault.Set{tiltedFault(t, 0)}
	search, err := NewPoleSearch(MethodRegularGrid, DefaultPoleOptions())
	if err != nil {
		t.Fatalf("NewPoleSearch: %v", err)
	}

	tests := []struct {
		name    string
		kind    CriterionKind
		cfg     CriterionConfig
		search  PoleSearch
		wantErr bool
	}{
		{"angular", CriterionAngular, CriterionConfig{}, nil, false},
		{"friction", CriterionFriction, CriterionConfig{FrictionAngle: 0.5}, nil, false},
		{"friction bad angle", CriterionFriction, CriterionConfig{}, nil, true},
		{"pole rotation", CriterionPoleRotation, CriterionConfig{}, search, false},
		{"pole rotation no search", CriterionPoleRotation, CriterionConfig{}, nil, true},
		{"unknown", CriterionKind("bogus"), CriterionConfig{}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCriterion(tt.kind, set, tt.cfg, tt.search)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCriterion: %v", err)
			}
			if c == nil {
				t.Fatal("nil criterion")
			}
		})
	}
}
