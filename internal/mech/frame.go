package mech

import (
	"fmt"

	"github.com/xaliphostes/stress/internal/geom"
)

// FrameFromAxes builds the geographic-to-search rotation pair from a
// sigma1 direction and a sigma3 reference direction. sigma3Ref need not be
// exactly orthogonal to sigma1; its component along sigma1 is removed.
// The search frame carries (sigma1, sigma3, sigma2) along (X, Y, Z), so
// the returned pair drops straight into TrialTensor.
func FrameFromAxes(sigma1, sigma3Ref geom.Vector3) (wrot, wtrot geom.Matrix3x3, err error) {
	m1 := sigma1.Norm()
	if m1 == 0 {
		return geom.Matrix3x3{}, geom.Matrix3x3{}, fmt.Errorf("frame: zero sigma1 direction")
	}
	e1 := sigma1.Mul(1 / m1)

	e3 := sigma3Ref.Sub(e1.Mul(e1.Dot(sigma3Ref)))
	m3 := e3.Norm()
	if m3 < 1e-9 {
		return geom.Matrix3x3{}, geom.Matrix3x3{}, fmt.Errorf("frame: sigma3 direction parallel to sigma1")
	}
	e3 = e3.Mul(1 / m3)

	// e2 = e1 x e3 keeps det(wtrot) = +1 with columns (e1, e3, e2).
	e2 := e1.Cross(e3)

	wtrot = geom.Matrix3x3{
		{e1.X, e3.X, e2.X},
		{e1.Y, e3.Y, e2.Y},
		{e1.Z, e3.Z, e2.Z},
	}
	return wtrot.Transpose(), wtrot, nil
}
