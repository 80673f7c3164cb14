// Package mech implements the continuum-mechanics layer of the inversion:
// traction decomposition on fault planes, striation misfit angles, trial
// stress tensor assembly and principal-axis extraction.
//
// Stress follows the continuum-mechanics sign convention: compression is
// negative. Normalized principal values are (-1, 0, -R) carried along the
// (X, Y, Z) axes of the search frame, which orders the frame as
// (sigma1, sigma3, sigma2) and realizes R = (s2-s3)/(s1-s3).
package mech

import (
	"math"

	"github.com/xaliphostes/stress/internal/geom"
)

// PlaneStress is the decomposition of a traction vector on a plane.
type PlaneStress struct {
	Shear    geom.Vector3 // tangential component of the traction
	Normal   float64      // signed normal stress, compression negative
	ShearMag float64      // |Shear|
}

// StressOnPlane projects the stress tensor st onto the plane with unit
// normal n.
func StressOnPlane(st geom.Matrix3x3, n geom.Vector3) PlaneStress {
	traction := st.MulVec(n)
	normal := traction.Dot(n)
	shear := traction.Sub(n.Mul(normal))
	return PlaneStress{Shear: shear, Normal: normal, ShearMag: shear.Norm()}
}

// StriationAngle returns the unsigned angle in [0, pi] between a measured
// striation and the slip direction predicted by the shear traction.
// shearMag must be positive; callers guard the degenerate case.
func StriationAngle(striation, shear geom.Vector3, shearMag float64) float64 {
	return math.Acos(geom.ClampUnit(striation.Dot(shear) / shearMag))
}

// TrialTensor assembles the geographic-frame stress tensor for stress ratio
// r from the search-frame rotation pair: wrot maps geographic to search
// frame and wtrot is its transpose.
func TrialTensor(r float64, wrot, wtrot geom.Matrix3x3) geom.Matrix3x3 {
	return wtrot.Mul(geom.Diagonal(-1, 0, -r)).Mul(wrot)
}
