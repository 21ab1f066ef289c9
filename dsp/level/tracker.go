// Package level implements the adaptive per-second level tracker (C8):
// per-channel, per-pol running magnitude statistics, scale/offset
// derivation, and 8-bit offset-binary quantisation for both detected and
// voltage output streams.
package level

import "math"

// ScaleOffset is the per-(channel,pol) quantisation parameter pair
// computed once per adaptive period.
type ScaleOffset struct {
	Scale  float64
	Offset float64
}

// Tracker accumulates running mean-magnitude, min, and max per channel
// and polarisation using the same single-pass Welford-style update
// stats/time.StreamingStats uses, generalised from one scalar signal to
// an nchan*npol grid of independent accumulators.
type Tracker struct {
	nchan, npol    int
	targetVariance float64

	count []int
	mean  []float64 // running mean magnitude
	min   []float64
	max   []float64
}

// NewTracker allocates a tracker for nchan channels and npol polarisations.
// targetVariance is the detected-stream normalisation constant from
// spec.md §4.8 (default 32).
func NewTracker(nchan, npol int, targetVariance float64) *Tracker {
	n := nchan * npol
	t := &Tracker{
		nchan:          nchan,
		npol:           npol,
		targetVariance: targetVariance,
		count:          make([]int, n),
		mean:           make([]float64, n),
		min:            make([]float64, n),
		max:            make([]float64, n),
	}
	return t
}

func (t *Tracker) index(c, p int) int { return c*t.npol + p }

// Add folds one complex sample's magnitude into channel c, pol p's
// running statistics.
func (t *Tracker) Add(c, p int, x complex128) {
	i := t.index(c, p)
	mag := magSqrt(real(x)*real(x) + imag(x)*imag(x))

	t.count[i]++
	t.mean[i] += (mag - t.mean[i]) / float64(t.count[i])

	if t.count[i] == 1 {
		t.min[i] = mag
		t.max[i] = mag
		return
	}
	if mag < t.min[i] {
		t.min[i] = mag
	}
	if mag > t.max[i] {
		t.max[i] = mag
	}
}

// MeanMagnitude returns the running mean magnitude for channel c, pol p.
func (t *Tracker) MeanMagnitude(c, p int) float64 {
	return t.mean[t.index(c, p)]
}

// MinMax returns the running min/max magnitude for channel c, pol p.
func (t *Tracker) MinMax(c, p int) (lo, hi float64) {
	i := t.index(c, p)
	return t.min[i], t.max[i]
}

// ScaleOffsets computes, per channel and pol, scale = mean/targetVariance
// and offset = 0, per spec.md §4.8 step 2. Calling this twice on an
// unmodified Tracker (testable property 5, idempotence) returns identical
// results both times since it reads accumulated state without mutating it.
func (t *Tracker) ScaleOffsets() [][]ScaleOffset {
	out := make([][]ScaleOffset, t.nchan)
	for c := 0; c < t.nchan; c++ {
		out[c] = make([]ScaleOffset, t.npol)
		for p := 0; p < t.npol; p++ {
			out[c][p] = ScaleOffset{
				Scale:  t.MeanMagnitude(c, p) / t.targetVariance,
				Offset: 0,
			}
		}
	}
	return out
}

// Reset clears all accumulated statistics, allowing the Tracker to be
// reused for the next adaptive period.
func (t *Tracker) Reset() {
	for i := range t.count {
		t.count[i] = 0
		t.mean[i] = 0
		t.min[i] = 0
		t.max[i] = 0
	}
}

// clip restricts v to [lo, hi].
func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
