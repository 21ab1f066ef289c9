package beamform

import (
	"fmt"
	"math"

	"github.com/mwatelescope/beamform/internal/complexmat"
)

// Calibration holds everything the calibration applier (C2) needs for one
// second: the complex weight table, the inverse-Jones table, the optional
// antenna-gain vector, and the derived flag/weight vector with its sum of
// squares. It is refreshed once per second by an external collaborator and
// handed to workers as a read-only view.
type Calibration struct {
	plan Plan

	// Weights is the per-input, per-channel complex weight: shape [A*P][C],
	// complex_weight = w * exp(i*phase).
	Weights [][]complex128

	// InverseJones is the per-antenna 2x2 inverse Jones matrix (already
	// Frobenius-normalised); a zero matrix flags that antenna.
	InverseJones []complexmat.Mat2

	// AntennaGains is the optional per-input complex bandpass gain; nil
	// means gains are not applied this second.
	AntennaGains []complex128

	// FlagWeight is the per-input real weight vector (w_i) used to scale
	// the incoherent sum and noise-floor normalisation.
	FlagWeight []float64

	// WSum is sum(FlagWeight[i]^2), precomputed once per second.
	WSum float64
}

// NewCalibration builds a Calibration from the raw external-shaped inputs
// described in spec §6: a real weight vector (A*P), a phase table
// (A*P*C radians), and an inverse-Jones table (already normalised and
// sign-corrected by the caller per §6's "Ji <- conj(Ji_raw)" convention).
func NewCalibration(plan Plan, weights []float64, phases []float64, invJones []complexmat.Mat2) (Calibration, error) {
	n := plan.Inputs()
	if len(weights) != n {
		return Calibration{}, fmt.Errorf("%w: weights vector has %d entries, want %d", ErrCalibrationShapeMismatch, len(weights), n)
	}
	if len(phases) != n*plan.Channels {
		return Calibration{}, fmt.Errorf("%w: phase table has %d entries, want %d", ErrCalibrationShapeMismatch, len(phases), n*plan.Channels)
	}
	if len(invJones) != plan.Antennas {
		return Calibration{}, fmt.Errorf("%w: inverse-Jones table has %d entries, want %d", ErrCalibrationShapeMismatch, len(invJones), plan.Antennas)
	}

	wtable := make([][]complex128, n)
	wsum := 0.0
	for i := 0; i < n; i++ {
		row := make([]complex128, plan.Channels)
		for c := 0; c < plan.Channels; c++ {
			sin, cos := math.Sincos(phases[i*plan.Channels+c])
			row[c] = complex(weights[i]*cos, weights[i]*sin)
		}
		wtable[i] = row
		wsum += weights[i] * weights[i]
	}

	cal := Calibration{
		plan:         plan,
		Weights:      wtable,
		InverseJones: invJones,
		FlagWeight:   append([]float64(nil), weights...),
		WSum:         wsum,
	}
	return cal, nil
}

// ZeroCalibration builds a correctly-shaped all-flagged Calibration for
// plan: every inverse-Jones matrix zero, every weight zero. Used as the
// fallback when an external CalibrationSource fails to refresh a second,
// so downstream indexing stays in-bounds and IsZero() correctly reports
// "no usable signal this second" (spec §7's zero-coherent-output path).
func ZeroCalibration(plan Plan) Calibration {
	n := plan.Inputs()
	weights := make([][]complex128, n)
	for i := range weights {
		weights[i] = make([]complex128, plan.Channels)
	}
	return Calibration{
		plan:         plan,
		Weights:      weights,
		InverseJones: make([]complexmat.Mat2, plan.Antennas),
		FlagWeight:   make([]float64, n),
		WSum:         0,
	}
}

// IsZero reports whether this Calibration carries no usable signal: every
// inverse-Jones matrix is zero. This is the "warning, zero coherent output"
// condition of spec §4.9 / §7.
func (c Calibration) IsZero() bool {
	for _, m := range c.InverseJones {
		if !m.IsZero() {
			return false
		}
	}
	return len(c.InverseJones) > 0
}

// ApplyCalibration performs the three-step calibration chain of spec §4.2
// for one antenna at one channel:
//  1. multiply (eX,eY) pointwise by the complex weights,
//  2. if applyJones, replace (eX,eY) with invJ[a] * (eX,eY) using the
//     weighted inputs,
//  3. if gains are configured, divide by the antenna gain (zero gain mutes
//     that component).
func (c Calibration) ApplyCalibration(a, ch int, eX, eY complex128, applyJones, useGains bool) (complex128, complex128) {
	wx := c.Weights[2*a][ch]
	wy := c.Weights[2*a+1][ch]
	eX *= wx
	eY *= wy

	if applyJones {
		v := complexmat.MatVec2(c.InverseJones[a], complexmat.Vec2{eX, eY})
		eX, eY = v[0], v[1]
	}

	if useGains && c.AntennaGains != nil {
		gx := c.AntennaGains[2*a]
		gy := c.AntennaGains[2*a+1]
		if gx == 0 {
			eX = 0
		} else {
			eX /= gx
		}
		if gy == 0 {
			eY = 0
		} else {
			eY /= gy
		}
	}

	return eX, eY
}
