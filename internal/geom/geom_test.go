package geom

import (
	"math"
	"testing"
)

func TestClampUnit(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 0.5, 0.5},
		{"above", 1 + 1e-15, 1},
		{"below", -1 - 1e-15, -1},
		{"exact high", 1, 1},
		{"exact low", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampUnit(tt.in); got != tt.want {
				t.Errorf("ClampUnit(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    Spherical
	}{
		{"equator x", Spherical{Theta: math.Pi / 2, Phi: 0}},
		{"equator y", Spherical{Theta: math.Pi / 2, Phi: math.Pi / 2}},
		{"mid latitude", Spherical{Theta: 1.1, Phi: 2.3}},
		{"south", Spherical{Theta: 2.9, Phi: 5.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphericalOf(tt.s.Vector())
			if math.Abs(got.Theta-tt.s.Theta) > 1e-12 || math.Abs(got.Phi-tt.s.Phi) > 1e-12 {
				t.Errorf("round trip = %+v, want %+v", got, tt.s)
			}
		})
	}
}

func TestSphericalOfPole(t *testing.T) {
	got := SphericalOf(Vec(0, 0, 1))
	if got.Theta != 0 {
		t.Errorf("Theta = %v, want 0", got.Theta)
	}
	if got := SphericalOf(Vec(0, 0, 0)); got != (Spherical{}) {
		t.Errorf("zero vector = %+v, want origin", got)
	}
}

func TestSphericalOfNonUnit(t *testing.T) {
	v := Vec(3, 4, 0)
	got := SphericalOf(v)
	want := SphericalOf(v.Normalize())
	if math.Abs(got.Theta-want.Theta) > 1e-12 || math.Abs(got.Phi-want.Phi) > 1e-12 {
		t.Errorf("SphericalOf(3,4,0) = %+v, want %+v", got, want)
	}
}

func TestTangentFrame(t *testing.T) {
	tests := []struct {
		name string
		s    Spherical
	}{
		{"pole adjacent", Spherical{Theta: 0.1, Phi: 0.7}},
		{"equator", Spherical{Theta: math.Pi / 2, Phi: 1.2}},
		{"southern", Spherical{Theta: 2.5, Phi: 4.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.s.Vector()
			eTheta, ePhi := tt.s.TangentFrame()
			for _, check := range []struct {
				label string
				got   float64
				want  float64
			}{
				{"|eTheta|", eTheta.Norm(), 1},
				{"|ePhi|", ePhi.Norm(), 1},
				{"eTheta.n", eTheta.Dot(n), 0},
				{"ePhi.n", ePhi.Dot(n), 0},
				{"eTheta.ePhi", eTheta.Dot(ePhi), 0},
			} {
				if math.Abs(check.got-check.want) > 1e-12 {
					t.Errorf("%s = %v, want %v", check.label, check.got, check.want)
				}
			}
			// Right-handed: eTheta x ePhi points along the normal.
			cross := eTheta.Cross(ePhi)
			if cross.Sub(n).Norm() > 1e-12 {
				t.Errorf("eTheta x ePhi = %v, want %v", cross, n)
			}
		})
	}
}

func TestTrendPlunge(t *testing.T) {
	tests := []struct {
		name       string
		v          Vector3
		wantTrend  float64
		wantPlunge float64
	}{
		{"north horizontal", Vec(0, 1, 0), 0, 0},
		{"east horizontal", Vec(1, 0, 0), 90, 0},
		{"south horizontal", Vec(0, -1, 0), 180, 0},
		{"vertical down", Vec(0, 0, -1), 0, 90},
		{"northeast 45 down", Vec(0.5, 0.5, -math.Sqrt2 / 2), 45, 45},
		{"upward end flipped", Vec(0, -1, 1), 0, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, plunge := TrendPlunge(tt.v)
			if math.Abs(trend-tt.wantTrend) > 1e-9 || math.Abs(plunge-tt.wantPlunge) > 1e-9 {
				t.Errorf("TrendPlunge(%v) = (%v, %v), want (%v, %v)",
					tt.v, trend, plunge, tt.wantTrend, tt.wantPlunge)
			}
		})
	}
}

func TestFromTrendPlunge(t *testing.T) {
	tests := []struct {
		name          string
		trend, plunge float64
		want          Vector3
	}{
		{"north horizontal", 0, 0, Vec(0, 1, 0)},
		{"east horizontal", 90, 0, Vec(1, 0, 0)},
		{"vertical down", 0, 90, Vec(0, 0, -1)},
		{"southwest 30 down", 225, 30, Vec(-math.Sqrt2 / 2 * math.Cos(math.Pi/6), -math.Sqrt2 / 2 * math.Cos(math.Pi/6), -0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTrendPlunge(tt.trend, tt.plunge)
			if got.Sub(tt.want).Norm() > 1e-9 {
				t.Errorf("FromTrendPlunge(%v, %v) = %v, want %v", tt.trend, tt.plunge, got, tt.want)
			}
		})
	}
}

func TestFromTrendPlungeRoundTrip(t *testing.T) {
	for _, trend := range []float64{0, 37, 90, 181, 310} {
		for _, plunge := range []float64{0, 12, 45, 89} {
			v := FromTrendPlunge(trend, plunge)
			if math.Abs(v.Norm()-1) > 1e-12 {
				t.Fatalf("FromTrendPlunge(%v, %v) not unit length", trend, plunge)
			}
			gotTrend, gotPlunge := TrendPlunge(v)
			if math.Abs(gotTrend-trend) > 1e-9 || math.Abs(gotPlunge-plunge) > 1e-9 {
				t.Errorf("round trip (%v, %v) -> (%v, %v)", trend, plunge, gotTrend, gotPlunge)
			}
		}
	}
}

func TestDegreesRadians(t *testing.T) {
	if got := Degrees(math.Pi); math.Abs(got-180) > 1e-12 {
		t.Errorf("Degrees(pi) = %v, want 180", got)
	}
	if got := Radians(90); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("Radians(90) = %v, want pi/2", got)
	}
}
