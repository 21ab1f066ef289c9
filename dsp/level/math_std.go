//go:build !fastmath

package level

import "math"

// magSqrt computes sqrt(x) using the standard library.
func magSqrt(x float64) float64 {
	return math.Sqrt(x)
}
