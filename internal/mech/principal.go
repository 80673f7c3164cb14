package mech

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/xaliphostes/stress/internal/geom"
)

// PrincipalAxis pairs a principal stress value with its direction.
type PrincipalAxis struct {
	Value     float64
	Direction geom.Vector3
}

// PrincipalAxes eigendecomposes a symmetric stress tensor and returns its
// axes ordered most compressive first (sigma1, sigma2, sigma3).
func PrincipalAxes(st geom.Matrix3x3) ([3]PrincipalAxis, error) {
	sym := mat.NewSymDense(3, []float64{
		st[0][0], st[0][1], st[0][2],
		st[1][0], st[1][1], st[1][2],
		st[2][0], st[2][1], st[2][2],
	})
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return [3]PrincipalAxis{}, errors.New("principal axes: eigendecomposition failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back ascending; with compression negative the most
	// compressive axis is the first.
	var axes [3]PrincipalAxis
	for i := 0; i < 3; i++ {
		axes[i] = PrincipalAxis{
			Value:     vals[i],
			Direction: geom.Vec(vecs.At(0, i), vecs.At(1, i), vecs.At(2, i)),
		}
	}
	return axes, nil
}
