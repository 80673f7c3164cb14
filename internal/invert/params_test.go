package invert

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xaliphostes/stress/internal/geom"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(*Params) {}, false},
		{"zero delta rot", func(p *Params) { p.DeltaRotAngle = 0 }, true},
		{"negative half interval", func(p *Params) { p.RotAngleHalfInterval = -1 }, true},
		{"zero delta ratio", func(p *Params) { p.DeltaStressRatio = 0 }, true},
		{"negative ratio interval", func(p *Params) { p.StressRatioHalfInterval = -0.1 }, true},
		{"zero minima", func(p *Params) { p.LocalMinima = 0 }, true},
		{"zero refine delta", func(p *Params) { p.RefineDelta = 0 }, true},
		{"negative refine steps", func(p *Params) { p.RefineSteps = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestParamsHemisphere(t *testing.T) {
	p := DefaultParams()
	p.DeltaRotAngle = 0.1
	want := int(math.Ceil(2 * math.Pi / 0.01))
	if got := p.Hemisphere(); got != want {
		t.Errorf("Hemisphere = %d, want %d", got, want)
	}
}

func TestParamsPlan(t *testing.T) {
	p := DefaultParams()
	p.DeltaRotAngle = 0.3
	p.RotAngleHalfInterval = 0.65
	p.StressRatioHalfInterval = 0.1
	p.DeltaStressRatio = 0.05

	plan := p.Plan()
	wantAxes := 2*p.Hemisphere() + 1
	if plan.Axes != wantAxes {
		t.Errorf("Axes = %d, want %d", plan.Axes, wantAxes)
	}
	if plan.Magnitudes != 3 {
		t.Errorf("Magnitudes = %d, want 3", plan.Magnitudes)
	}
	if plan.Ratios != 5 {
		t.Errorf("Ratios = %d, want 5", plan.Ratios)
	}
	if want := int64(plan.Axes) * 3 * 5; plan.Evaluations != want {
		t.Errorf("Evaluations = %d, want %d", plan.Evaluations, want)
	}
}

func TestLatticeSpacingNearDelta(t *testing.T) {
	// H = ceil(2*pi/delta^2) gives each node a surface cell of about
	// delta^2, so mean nearest-neighbor spacing lands near delta.
	delta := 0.3
	p := DefaultParams()
	p.DeltaRotAngle = delta
	mean, stddev := LatticeSpacing(p.Hemisphere())
	if mean < 0.4*delta || mean > 1.2*delta {
		t.Errorf("mean nearest-neighbor spacing %v not close to delta %v", mean, delta)
	}
	if stddev > mean {
		t.Errorf("spacing stddev %v exceeds mean %v: lattice not quasi-uniform", stddev, mean)
	}
}

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	data := []byte("delta_rot_angle: 0.2\nlocal_minima: 4\nworkers: 3\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write params: %v", err)
	}

	got, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	want := DefaultParams()
	want.DeltaRotAngle = 0.2
	want.LocalMinima = 4
	want.Workers = 3
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParamsErrors(t *testing.T) {
	if _, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("delta_rot_angle: -1\n"), 0o600); err != nil {
		t.Fatalf("write params: %v", err)
	}
	if _, err := LoadParams(path); err == nil {
		t.Error("expected validation error for negative delta")
	}
}

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	if DefaultParams().RotAngleHalfInterval != geom.Radians(20) {
		t.Errorf("unexpected default half interval")
	}
}
