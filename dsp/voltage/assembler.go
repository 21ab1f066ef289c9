package voltage

import (
	"fmt"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

// Assembler owns one pointing's X and Y rings and drives one
// beamform.ChanneliserInverter per second, producing the
// (Re(X),Im(X),Re(Y),Im(Y)) interleaved output the spec's downstream
// container contract requires.
type Assembler struct {
	x, y       *Ring
	inverter   beamform.ChanneliserInverter
	nchan      int
	nsamples   int
	ntaps      int
	outX       [][]complex128
	outY       [][]complex128
	outputGain float64
}

// NewAssembler builds an Assembler for one pointing.
func NewAssembler(nchan, nsamples, ntaps int, inverter beamform.ChanneliserInverter) (*Assembler, error) {
	x, err := NewRing(nchan, nsamples, ntaps)
	if err != nil {
		return nil, err
	}
	y, err := NewRing(nchan, nsamples, ntaps)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		x:          x,
		y:          y,
		inverter:   inverter,
		nchan:      nchan,
		nsamples:   nsamples,
		ntaps:      ntaps,
		outX:       [][]complex128{make([]complex128, nsamples)},
		outY:       [][]complex128{make([]complex128, nsamples)},
		outputGain: 1,
	}, nil
}

// SetOutputGain sets a constant manual gain trim applied to both
// polarisations' reconstructed series before interleaving, independent of
// C8's adaptive quantisation gain. The default is 1 (no trim).
func (a *Assembler) SetOutputGain(gain float64) { a.outputGain = gain }

// BodyX returns the channel c slice to fill with this second's fresh X
// polarisation channelised samples.
func (a *Assembler) BodyX(c int) []complex128 { return a.x.Body(c) }

// BodyY returns the channel c slice to fill with this second's fresh Y
// polarisation channelised samples.
func (a *Assembler) BodyY(c int) []complex128 { return a.y.Body(c) }

// InvertSecond runs the configured inverter over both polarisations and
// returns the interleaved (Re(X),Im(X),Re(Y),Im(Y)) output for one second,
// then advances both rings' tap-overlap carry for the next second.
func (a *Assembler) InvertSecond() ([]float64, error) {
	if err := a.inverter.Invert(a.x.WithTapOverlap(), a.outX, a.nchan, a.ntaps, a.nsamples); err != nil {
		return nil, fmt.Errorf("voltage: X polarisation invert failed: %w", err)
	}
	if err := a.inverter.Invert(a.y.WithTapOverlap(), a.outY, a.nchan, a.ntaps, a.nsamples); err != nil {
		return nil, fmt.Errorf("voltage: Y polarisation invert failed: %w", err)
	}

	applyBlockGain(a.outX[0], a.outputGain)
	applyBlockGain(a.outY[0], a.outputGain)

	interleaved := make([]float64, 4*a.nsamples)
	for t := 0; t < a.nsamples; t++ {
		interleaved[4*t] = real(a.outX[0][t])
		interleaved[4*t+1] = imag(a.outX[0][t])
		interleaved[4*t+2] = real(a.outY[0][t])
		interleaved[4*t+3] = imag(a.outY[0][t])
	}

	a.x.Advance()
	a.y.Advance()

	return interleaved, nil
}
