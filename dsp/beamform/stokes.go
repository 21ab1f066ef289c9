package beamform

import "math/cmplx"

// StokesMode selects which detected output channels the Stokes detector
// (C6) produces.
type StokesMode int

const (
	// StokesIQUV produces the full [I, Q, U, V] vector.
	StokesIQUV StokesMode = iota
	// StokesI produces [I] only; in incoherent mode this is the plain
	// incoherent sum with no noise-floor debias.
	StokesI
)

// NumPols returns the number of detected output channels per sample for
// this mode.
func (m StokesMode) NumPols() int {
	if m == StokesI {
		return 1
	}
	return 4
}

// DetectStokes forms I, Q, U, V (or just I) from the coherent 2-vector B
// and the noise-floor accumulator N, subtracting the noise floor per
// spec §4.6:
//
//	I = (|Bx|^2 - N00 + |By|^2 - N11) / wsum
//	Q = (|Bx|^2 - N00 - |By|^2 + N11) / wsum
//	U = 2*Re((Bx*conj(By) - N01) / wsum)
//	V = -2*Im((Bx*conj(By) - N01) / wsum)
func DetectStokes(b CoherentVec, n NoiseFloor, wsum float64, mode StokesMode) []float64 {
	if wsum == 0 {
		if mode == StokesI {
			return []float64{0}
		}
		return []float64{0, 0, 0, 0}
	}

	powX := real(b.X) * real(b.X) + imag(b.X) * imag(b.X)
	powY := real(b.Y) * real(b.Y) + imag(b.Y) * imag(b.Y)

	i := (powX - real(n.N00) + powY - real(n.N11)) / wsum

	if mode == StokesI {
		return []float64{i}
	}

	q := (powX - real(n.N00) - powY + real(n.N11)) / wsum
	cross := (b.X*cmplx.Conj(b.Y) - n.N01) / complex(wsum, 0)
	u := 2 * real(cross)
	v := -2 * imag(cross)

	return []float64{i, q, u, v}
}

// DetectIncoherent forms the plain incoherent Stokes-I output (no debias),
// used only in incoherent mode: the spec's StokesI mode when it is fed
// from the incoherent summer rather than the coherent one.
func DetectIncoherent(incoherentSum float64) []float64 {
	return []float64{incoherentSum}
}
