// Package geom holds the geometric vocabulary of the inversion engine:
// unit vectors, spherical coordinates, 3x3 tensors and golden-angle
// lattice nodes.
//
// Vectors are github.com/golang/geo/r3 values in an East-North-Up frame.
// Anything documented as a direction is unit length.
package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vector3 is the engine's vector type.
type Vector3 = r3.Vector

// Vec builds a Vector3 from its components.
func Vec(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// ClampUnit limits x to [-1, 1] so inverse-trigonometric calls never see an
// out-of-domain argument produced by floating round-off.
func ClampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Spherical is a direction as colatitude Theta in [0, pi] measured from +Z
// and azimuth Phi in [0, 2*pi) measured from +X toward +Y.
type Spherical struct {
	Theta float64
	Phi   float64
}

// Vector converts s to a unit Vector3.
func (s Spherical) Vector() Vector3 {
	sinT := math.Sin(s.Theta)
	return Vector3{
		X: sinT * math.Cos(s.Phi),
		Y: sinT * math.Sin(s.Phi),
		Z: math.Cos(s.Theta),
	}
}

// SphericalOf returns the spherical coordinates of v, which need not be
// unit length. The zero vector maps to the +Z pole.
func SphericalOf(v Vector3) Spherical {
	n := v.Norm()
	if n == 0 {
		return Spherical{}
	}
	phi := math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return Spherical{
		Theta: math.Acos(ClampUnit(v.Z / n)),
		Phi:   phi,
	}
}

// TangentFrame returns the orthonormal pair (eTheta, ePhi) spanning the
// plane normal to s.Vector: eTheta points along increasing colatitude,
// ePhi along increasing azimuth.
func (s Spherical) TangentFrame() (eTheta, ePhi Vector3) {
	sinT, cosT := math.Sincos(s.Theta)
	sinP, cosP := math.Sincos(s.Phi)
	eTheta = Vector3{X: cosT * cosP, Y: cosT * sinP, Z: -sinT}
	ePhi = Vector3{X: -sinP, Y: cosP, Z: 0}
	return eTheta, ePhi
}

// FromTrendPlunge builds a unit direction from geologist angles in
// degrees: trend clockwise from North, plunge positive downward.
func FromTrendPlunge(trend, plunge float64) Vector3 {
	sinT, cosT := math.Sincos(Radians(trend))
	sinP, cosP := math.Sincos(Radians(plunge))
	return Vector3{X: sinT * cosP, Y: cosT * cosP, Z: -sinP}
}

// TrendPlunge expresses a direction as geologist-readable angles in
// degrees: trend clockwise from North and plunge positive downward.
// Lines are bidirectional, so v and -v describe the same axis; the
// downward-pointing end is reported.
func TrendPlunge(v Vector3) (trend, plunge float64) {
	n := v.Norm()
	if n == 0 {
		return 0, 0
	}
	v = v.Mul(1 / n)
	if v.Z > 0 {
		v = v.Mul(-1)
	}
	trend = Degrees(math.Atan2(v.X, v.Y))
	if trend < 0 {
		trend += 360
	}
	plunge = Degrees(math.Asin(ClampUnit(-v.Z)))
	return trend, plunge
}
