package beamform

import vecmath "github.com/cwbudde/algo-vecmath"

// IncoherentAccumulator computes, for one (sample, channel), the flag-
// weighted incoherent sum of per-antenna intensities from pre-calibration
// voltages (spec §4.4):
//
//	I[s,c] = sum_a (|eX_a|^2 + |eY_a|^2) * w_a^2 / wsum
//
// It reuses algo-vecmath's block Power kernel over de-interleaved real/
// imaginary planes rather than looping in complex arithmetic directly,
// matching how dsp/spectrum unpacks complex bins into re/im scratch before
// calling the same vecmath.Power.
type IncoherentAccumulator struct {
	reX, imX []float64
	reY, imY []float64
	powX     []float64
	powY     []float64
}

// NewIncoherentAccumulator preallocates scratch for up to maxAntennas
// antennas.
func NewIncoherentAccumulator(maxAntennas int) *IncoherentAccumulator {
	return &IncoherentAccumulator{
		reX:  make([]float64, maxAntennas),
		imX:  make([]float64, maxAntennas),
		reY:  make([]float64, maxAntennas),
		imY:  make([]float64, maxAntennas),
		powX: make([]float64, maxAntennas),
		powY: make([]float64, maxAntennas),
	}
}

// Sum computes I[s,c] for the given pre-calibration per-antenna samples and
// flag weights. len(eX) == len(eY) == len(w) must hold.
func (ia *IncoherentAccumulator) Sum(eX, eY []complex128, w []float64, wsum float64) float64 {
	n := len(eX)
	if n == 0 || wsum == 0 {
		return 0
	}

	reX, imX := ia.reX[:n], ia.imX[:n]
	reY, imY := ia.reY[:n], ia.imY[:n]
	powX, powY := ia.powX[:n], ia.powY[:n]

	for i := 0; i < n; i++ {
		reX[i], imX[i] = real(eX[i]), imag(eX[i])
		reY[i], imY[i] = real(eY[i]), imag(eY[i])
	}

	vecmath.Power(powX, reX, imX)
	vecmath.Power(powY, reY, imY)

	var total float64
	for i := 0; i < n; i++ {
		total += (powX[i] + powY[i]) * w[i] * w[i]
	}

	return total / wsum
}
