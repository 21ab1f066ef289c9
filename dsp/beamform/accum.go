package beamform

import "math/cmplx"

// CoherentVec is the per-(pointing,channel) coherent 2-vector accumulator
// B = (Bx, By), zeroed at the start of each time sample.
type CoherentVec struct {
	X, Y complex128
}

// NoiseFloor is the per-channel 2x2 Hermitian auto-covariance accumulator
// N = sum_a e_a e_a*, zeroed per time sample. Only N00, N01, N11 are
// stored; N10 = conj(N01) by construction.
type NoiseFloor struct {
	N00, N01, N11 complex128
}

// Add accumulates one antenna's calibrated (eX, eY) into the noise floor.
func (n *NoiseFloor) Add(eX, eY complex128) {
	n.N00 += eX * cmplx.Conj(eX)
	n.N01 += eX * cmplx.Conj(eY)
	n.N11 += eY * cmplx.Conj(eY)
}
