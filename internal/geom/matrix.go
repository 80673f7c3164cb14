package geom

import "math"

// Matrix3x3 is a dense row-major 3x3 tensor. It carries both stress tensors
// (symmetric) and rotation tensors; rotations built by RotationAbout,
// Transpose and Mul of rotations stay orthonormal with determinant +1, so
// orthonormality is never re-validated downstream.
type Matrix3x3 [3][3]float64

// Identity returns the unit tensor.
func Identity() Matrix3x3 {
	return Matrix3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Diagonal returns the tensor with a, b, c on the main diagonal.
func Diagonal(a, b, c float64) Matrix3x3 {
	return Matrix3x3{{a, 0, 0}, {0, b, 0}, {0, 0, c}}
}

// RotationAbout returns the proper rotation of angle radians about the unit
// axis, following the right-hand rule (Rodrigues form).
func RotationAbout(axis Vector3, angle float64) Matrix3x3 {
	sin, cos := math.Sincos(angle)
	t := 1 - cos
	x, y, z := axis.X, axis.Y, axis.Z
	return Matrix3x3{
		{t*x*x + cos, t*x*y - sin*z, t*x*z + sin*y},
		{t*x*y + sin*z, t*y*y + cos, t*y*z - sin*x},
		{t*x*z - sin*y, t*y*z + sin*x, t*z*z + cos},
	}
}

// Mul returns the tensor product m*n.
func (m Matrix3x3) Mul(n Matrix3x3) Matrix3x3 {
	var out Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// MulVec returns m*v.
func (m Matrix3x3) MulVec(v Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed tensor.
func (m Matrix3x3) Transpose() Matrix3x3 {
	return Matrix3x3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Det returns the determinant.
func (m Matrix3x3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
