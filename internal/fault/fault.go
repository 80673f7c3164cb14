// Package fault defines the immutable striated-plane records scored by the
// inversion engine.
//
// Vectors live in the East-North-Up frame of package geom. Plane normals
// point into the upper hemisphere; the striation is the slip direction of
// the hanging wall, unit length and contained in the plane.
package fault

import (
	"fmt"
	"math"

	"github.com/xaliphostes/stress/internal/geom"
)

// Sense tags the relative movement observed on a fault surface.
type Sense string

const (
	SenseNormal       Sense = "N"
	SenseInverse      Sense = "I"
	SenseRightLateral Sense = "RL"
	SenseLeftLateral  Sense = "LL"
	SenseUndefined    Sense = "ND"
)

// ParseSense validates a movement tag. The empty string maps to
// SenseUndefined.
func ParseSense(s string) (Sense, error) {
	switch Sense(s) {
	case SenseNormal, SenseInverse, SenseRightLateral, SenseLeftLateral, SenseUndefined:
		return Sense(s), nil
	case "":
		return SenseUndefined, nil
	}
	return "", fmt.Errorf("unknown sense of movement %q", s)
}

// maxPlaneDeviation is how far (in terms of |normal . striation|) a supplied
// striation may stray from the plane before it is rejected instead of
// reprojected. Round-tripped decimal data sits well under this.
const maxPlaneDeviation = 1e-3

// Fault is one observed striated plane. ETheta and EPhi form the tangent
// frame of the plane derived from the normal's spherical coordinates.
// Fields are never mutated after construction.
type Fault struct {
	Label     string
	Normal    geom.Vector3
	Striation geom.Vector3
	ETheta    geom.Vector3
	EPhi      geom.Vector3
	Sense     Sense
}

// Set is an ordered collection of faults, read-only for the lifetime of an
// inversion run.
type Set []*Fault

// New builds a fault from a normal and a striation direction. Both are
// normalized; the striation must lie in the plane within maxPlaneDeviation
// and is reprojected exactly onto it.
func New(normal, striation geom.Vector3, sense Sense) (*Fault, error) {
	nMag := normal.Norm()
	if nMag == 0 {
		return nil, fmt.Errorf("fault: zero normal vector")
	}
	sMag := striation.Norm()
	if sMag == 0 {
		return nil, fmt.Errorf("fault: zero striation vector")
	}
	if !sense.valid() {
		return nil, fmt.Errorf("fault: unknown sense of movement %q", sense)
	}
	n := normal.Mul(1 / nMag)
	s := striation.Mul(1 / sMag)

	if dev := math.Abs(n.Dot(s)); dev > maxPlaneDeviation {
		return nil, fmt.Errorf("fault: striation deviates from plane by %.4g (max %g)", dev, maxPlaneDeviation)
	}
	s = s.Sub(n.Mul(n.Dot(s)))
	if m := s.Norm(); m == 0 {
		return nil, fmt.Errorf("fault: striation parallel to normal")
	} else {
		s = s.Mul(1 / m)
	}

	eTheta, ePhi := geom.SphericalOf(n).TangentFrame()
	return &Fault{
		Normal:    n,
		Striation: s,
		ETheta:    eTheta,
		EPhi:      ePhi,
		Sense:     sense,
	}, nil
}

// FromOrientation builds a fault from field measurements in degrees:
// strike clockwise from North, dip measured down from horizontal on the
// right-hand side of the strike direction, rake measured in the plane from
// the strike direction toward the dip vector.
func FromOrientation(strike, dip, rake float64, sense Sense) (*Fault, error) {
	if dip < 0 || dip > 90 {
		return nil, fmt.Errorf("fault: dip %.4g outside [0, 90]", dip)
	}
	sinA, cosA := math.Sincos(geom.Radians(strike))
	sinD, cosD := math.Sincos(geom.Radians(dip))
	sinR, cosR := math.Sincos(geom.Radians(rake))

	strikeVec := geom.Vec(sinA, cosA, 0)
	dipVec := geom.Vec(cosA*cosD, -sinA*cosD, -sinD)
	normal := geom.Vec(cosA*sinD, -sinA*sinD, cosD)
	striation := strikeVec.Mul(cosR).Add(dipVec.Mul(sinR))

	return New(normal, striation, sense)
}

func (s Sense) valid() bool {
	switch s {
	case SenseNormal, SenseInverse, SenseRightLateral, SenseLeftLateral, SenseUndefined:
		return true
	}
	return false
}
