package schedule

import (
	"github.com/mwatelescope/beamform/dsp/beamform"
	"github.com/mwatelescope/beamform/dsp/level"
	"github.com/mwatelescope/beamform/dsp/voltage"
)

// pointingState holds one pointing's per-second working buffers: the
// coherent 2-vector and noise-floor accumulators shaped [S][C] (spec.md
// §3), the detected output row buffer, the adaptive level tracker, and
// (voltage mode only) the channeliser-invert ring assembler.
type pointingState struct {
	calSrc beamform.CalibrationSource
	cal    beamform.Calibration

	coherent [][]beamform.CoherentVec
	noise    [][]beamform.NoiseFloor
	detected [][]float64 // [s][c*Npol_out + pol]

	tracker      *level.Tracker
	scaleOffsets [][]level.ScaleOffset // set by quantiseSecond, [c][pol]
	assembler    *voltage.Assembler    // nil outside voltage mode
}

func newPointingState(plan beamform.Plan, calSrc beamform.CalibrationSource, npolOut int, targetVariance float64, assembler *voltage.Assembler) *pointingState {
	coherent := make([][]beamform.CoherentVec, plan.SamplesPerSec)
	noise := make([][]beamform.NoiseFloor, plan.SamplesPerSec)
	detected := make([][]float64, plan.SamplesPerSec)
	for s := range coherent {
		coherent[s] = make([]beamform.CoherentVec, plan.Channels)
		noise[s] = make([]beamform.NoiseFloor, plan.Channels)
		detected[s] = make([]float64, plan.Channels*npolOut)
	}
	return &pointingState{
		calSrc:    calSrc,
		coherent:  coherent,
		noise:     noise,
		detected:  detected,
		tracker:   level.NewTracker(plan.Channels, npolOut, targetVariance),
		assembler: assembler,
	}
}

// resetAccumulators zeroes the coherent and noise-floor buffers for the
// next second, per spec.md §4.9 step 1 ("zero accumulators").
func (p *pointingState) resetAccumulators() {
	for s := range p.coherent {
		for c := range p.coherent[s] {
			p.coherent[s][c] = beamform.CoherentVec{}
			p.noise[s][c] = beamform.NoiseFloor{}
		}
	}
}
