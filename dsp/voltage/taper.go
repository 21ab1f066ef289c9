package voltage

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// hannTaper returns an n-point Hann window, grounded on dsp/window's
// taper-generation style (periodic/symmetric raised-cosine coefficients).
func hannTaper(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// taperFixupCoeffs applies a Hann taper to the full-128 mode's FIR fix-up
// prototype filter, rolling its edges to zero rather than cutting them off
// abruptly. Grounded on dsp/window.Apply's vecmath.MulBlockInPlace call.
func taperFixupCoeffs(coeffs []float64) []float64 {
	tapered := make([]float64, len(coeffs))
	copy(tapered, coeffs)
	vecmath.MulBlockInPlace(tapered, hannTaper(len(coeffs)))
	return tapered
}

// applyBlockGain multiplies the real and imaginary planes of one second's
// reconstructed polarisation series by a constant gain, de-interleaving
// and recombining the same way dsp/spectrum splits complex spectra into
// re/im planes for a vecmath call. gain == 1 is a no-op pass-through; this
// is the block-multiply hook an operator-supplied manual output trim uses
// when assembling a ring-buffer segment for emission, independent of C8's
// adaptive quantisation gain.
func applyBlockGain(samples []complex128, gain float64) {
	if gain == 1 || len(samples) == 0 {
		return
	}
	n := len(samples)
	re := make([]float64, n)
	im := make([]float64, n)
	gains := make([]float64, n)
	for i := 0; i < n; i++ {
		re[i], im[i] = real(samples[i]), imag(samples[i])
		gains[i] = gain
	}
	vecmath.MulBlockInPlace(re, gains)
	vecmath.MulBlockInPlace(im, gains)
	for i := 0; i < n; i++ {
		samples[i] = complex(re[i], im[i])
	}
}
