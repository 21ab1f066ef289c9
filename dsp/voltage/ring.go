// Package voltage assembles per-second complex voltage blocks for the
// channeliser-invert adapter (C7): a per-pointing, per-channel ring buffer
// with tap-overlap carry across second boundaries, plus three
// interchangeable channeliser-invert implementations.
package voltage

import "fmt"

// Ring is a per-polarisation, per-channel ring buffer: nchan independent
// rows, each holding nsamples fresh channelised samples preceded by ntaps
// carried samples from the previous second. Grounded on dsp/delay.Line's
// circular-buffer-with-explicit-write-pointer idiom, specialised to the
// "carry last ntaps samples into the head of next second" contract C7
// requires per channel, rather than arbitrary fractional-delay reads.
type Ring struct {
	rows     [][]complex128 // [nchan][ntaps+nsamples]
	nchan    int
	ntaps    int
	nsamples int
}

// NewRing allocates a ring for nchan channels, nsamples fresh samples per
// channel per second, and ntaps of carried tap overlap per channel.
func NewRing(nchan, nsamples, ntaps int) (*Ring, error) {
	if nchan <= 0 {
		return nil, fmt.Errorf("voltage: ring channel count must be > 0: %d", nchan)
	}
	if nsamples <= 0 {
		return nil, fmt.Errorf("voltage: ring sample count must be > 0: %d", nsamples)
	}
	if ntaps < 0 {
		return nil, fmt.Errorf("voltage: ring tap count must be >= 0: %d", ntaps)
	}
	rows := make([][]complex128, nchan)
	for c := range rows {
		rows[c] = make([]complex128, ntaps+nsamples)
	}
	return &Ring{rows: rows, nchan: nchan, ntaps: ntaps, nsamples: nsamples}, nil
}

// Body returns, per channel, the [ntaps : ntaps+nsamples] slice to be
// filled with this second's fresh channelised samples before the rows are
// handed to a ChanneliserInverter.
func (r *Ring) Body(c int) []complex128 {
	return r.rows[c][r.ntaps : r.ntaps+r.nsamples]
}

// WithTapOverlap returns every channel's full [ntaps+nsamples] row: the
// carried tail of the previous second followed by this second's fresh
// samples, the exact shape a ChanneliserInverter consumes.
func (r *Ring) WithTapOverlap() [][]complex128 {
	return r.rows
}

// Advance copies the last ntaps samples of each channel's row to its head,
// preserving overlap across the next second's boundary. Call once the
// current second's Body has been filled and consumed.
func (r *Ring) Advance() {
	if r.ntaps == 0 {
		return
	}
	for _, row := range r.rows {
		copy(row[:r.ntaps], row[r.nsamples:r.nsamples+r.ntaps])
	}
}
