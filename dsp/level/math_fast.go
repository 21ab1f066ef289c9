//go:build fastmath

package level

import "github.com/meko-christian/algo-approx"

// magSqrt computes sqrt(x) using a fast approximation, trading a small
// relative error for speed in the per-second running-magnitude pass.
func magSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
