// Package complexmat implements the fixed-size 2x2 complex matrix algebra
// used to apply and invert antenna polarisation (Jones) matrices.
//
// Matrices are represented as a flat [4]complex128 in row-major order:
// [M00, M01, M10, M11].
package complexmat

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrSingularMatrix is returned by Inv2x2 when the matrix determinant is
// too small to invert reliably.
var ErrSingularMatrix = errors.New("complexmat: singular matrix")

// epsMach bounds the smallest determinant magnitude Inv2x2 will accept.
const epsMach = 1e-12

// Mat2 is a row-major 2x2 complex matrix: [M00, M01, M10, M11].
type Mat2 [4]complex128

// Vec2 is a 2-element complex vector: [X, Y].
type Vec2 [2]complex128

// Cp2x2 returns a copy of m.
func Cp2x2(m Mat2) Mat2 {
	return m
}

// Det2x2 returns the determinant of m.
func Det2x2(m Mat2) complex128 {
	return m[0]*m[3] - m[1]*m[2]
}

// Inv2x2 returns the inverse of m: (1/det(m)) * [[M11,-M01],[-M10,M00]].
// Returns ErrSingularMatrix if |det(m)| < epsMach.
func Inv2x2(m Mat2) (Mat2, error) {
	det := Det2x2(m)
	if cmplx.Abs(det) < epsMach {
		return Mat2{}, ErrSingularMatrix
	}
	invDet := 1 / det
	return Mat2{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
	}, nil
}

// MatMul2x2 returns a*b.
func MatMul2x2(a, b Mat2) Mat2 {
	return Mat2{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
	}
}

// Conj2x2 returns the element-wise complex conjugate of m.
func Conj2x2(m Mat2) Mat2 {
	return Mat2{cmplx.Conj(m[0]), cmplx.Conj(m[1]), cmplx.Conj(m[2]), cmplx.Conj(m[3])}
}

// Norm2x2 returns the Frobenius norm of m: sqrt(sum |m_ij|^2).
func Norm2x2(m Mat2) float64 {
	var sumSq float64
	for _, v := range m {
		a := cmplx.Abs(v)
		sumSq += a * a
	}
	return math.Sqrt(sumSq)
}

// Normalize2x2 returns m scaled so its Frobenius norm is 1. If m is the
// zero matrix (a flagged antenna), it is returned unchanged.
func Normalize2x2(m Mat2) Mat2 {
	n := Norm2x2(m)
	if n == 0 {
		return m
	}
	scale := complex(1/n, 0)
	return Mat2{m[0] * scale, m[1] * scale, m[2] * scale, m[3] * scale}
}

// MatVec2 returns m*v, the 2x2 matrix-vector product.
func MatVec2(m Mat2, v Vec2) Vec2 {
	return Vec2{
		m[0]*v[0] + m[1]*v[1],
		m[2]*v[0] + m[3]*v[1],
	}
}

// IsZero reports whether m is the all-zero matrix (the flagging convention
// for an antenna whose forward Jones matrix had zero norm).
func (m Mat2) IsZero() bool {
	return m == Mat2{}
}
