package beamform

import "context"

// RawSecondSource supplies the packed raw voltage buffer for one GPS
// second (spec §6, "Raw voltage second"). A missing second is fatal
// (ErrInputMissing); a wrong-sized buffer is fatal (ErrInputMalformed).
type RawSecondSource interface {
	RawSecond(ctx context.Context, gpsSecond int64) ([]byte, error)
}

// CalibrationSource refreshes the weight/inverse-Jones tables for one GPS
// second. The scheduler pulls this before beamforming (no callbacks, per
// spec §9's cyclic-reference redesign note).
type CalibrationSource interface {
	Calibration(ctx context.Context, gpsSecond int64) (Calibration, error)
}

// AntennaGainSource supplies the optional per-input complex bandpass gain
// vector. A nil return (with nil error) means gains are not configured.
type AntennaGainSource interface {
	AntennaGains(ctx context.Context, gpsSecond int64) ([]complex128, error)
}

// ChanneliserInverter reconstructs one second of broadband dual-pol time
// series from channelised input with tap overlap (spec §4.7). The
// implementations in dsp/voltage (PassThrough, PartialInvert, FullInvert)
// share this signature but are distinct reconstructions: each gives the
// same output for identical input, and they do not give the same output
// as one another.
type ChanneliserInverter interface {
	Invert(inputWithTapOverlap [][]complex128, output [][]complex128, nchan, ntaps, nsamples int) error
}

// DetectedSecond is one second of detected Stokes output for one pointing:
// shape [S][C][Npol_out], plus the per-channel scale/offset pair the level
// tracker (C8) used to quantise it, so a sink can recover physical units.
type DetectedSecond struct {
	Pointing  int
	GPSSecond int64
	Mode      StokesMode
	Channels  int
	Samples   [][]float64 // [s][c*Npol_out + pol]
	Scale     []float64   // per channel
	Offset    []float64   // per channel
}

// VoltageSecond is one second of reconstructed dual-pol complex voltage
// for one pointing, already interleaved (Re(X),Im(X),Re(Y),Im(Y)) per
// spec §4.7, plus the scale/offset pair used to quantise it.
type VoltageSecond struct {
	Pointing    int
	GPSSecond   int64
	Interleaved []float64
	Scale       float64
	Offset      float64
}

// DetectedSink accepts one completed, quantised second of detected output.
// A write failure is fatal (ErrContainerWriteFailure); the pipeline does
// not retry.
type DetectedSink interface {
	WriteDetectedSecond(ctx context.Context, second DetectedSecond) error
}

// VoltageSink accepts one completed, quantised second of voltage output.
type VoltageSink interface {
	WriteVoltageSecond(ctx context.Context, second VoltageSecond) error
}
