package level

import (
	"fmt"
	"math"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

// occupancyLevels is the number of low-order positive quantisation levels
// the gain search requires non-trivial occupancy in (spec.md §4.8).
const occupancyLevels = 64

// occupancyMinFraction is the minimum fraction of the occupancyLevels
// positive levels that must receive at least one sample for the search
// to accept a candidate gain as usefully resolving the signal, rather
// than collapsing it into a handful of levels near zero. Not specified
// numerically by spec.md; chosen as a conservative non-triviality floor.
const occupancyMinFraction = 0.125

// gainStep is the search step size from spec.md §4.8.
const gainStep = 0.001

// clipFraction is the maximum tolerated fraction of samples with
// |gain*Re(x)| > 127 from spec.md §4.8.
const clipFraction = 1e-5

// meanSanityLimit is the hard-fault threshold on |mean(Re(x))| after
// scaling, from spec.md §4.8.
const meanSanityLimit = 1e-3

// SearchVoltageGain performs the voltage quantiser's occupancy-based gain
// search over re (the real part of one channel/pol's samples for the
// current adaptive period): it finds the largest gain, in steps of
// gainStep starting from 1.0, such that the fraction of samples with
// |gain*Re(x)| > 127 is below clipFraction while maintaining non-trivial
// occupancy in the first occupancyLevels positive quantisation levels.
//
// Returns beamform.ErrLevelTrackerSanity, wrapped, if |mean(Re(x))|
// exceeds meanSanityLimit (a hard fault per spec.md §4.8) or if no gain
// in (0, 1] satisfies both the clip-fraction and occupancy bounds.
func SearchVoltageGain(re []float64) (float64, error) {
	if len(re) == 0 {
		return 1, nil
	}

	var sum float64
	for _, v := range re {
		sum += v
	}
	mean := sum / float64(len(re))
	if math.Abs(mean) > meanSanityLimit {
		return 0, fmt.Errorf("%w: |mean(Re(x))| = %.6g exceeds %.1e", beamform.ErrLevelTrackerSanity, math.Abs(mean), meanSanityLimit)
	}

	var gain float64
	found := false
	for g := 1.0; g > 0; g -= gainStep {
		if clipFractionAt(re, g) >= clipFraction {
			continue
		}
		if !nonTrivialOccupancy(re, g) {
			continue
		}
		gain = g
		found = true
		break
	}
	if !found {
		return 0, fmt.Errorf("%w: no gain in (0,1] satisfies clip-fraction and occupancy bounds", beamform.ErrLevelTrackerSanity)
	}

	return gain, nil
}

func clipFractionAt(re []float64, gain float64) float64 {
	var exceed int
	for _, v := range re {
		if math.Abs(gain*v) > 127 {
			exceed++
		}
	}
	return float64(exceed) / float64(len(re))
}

// nonTrivialOccupancy reports whether at least occupancyMinFraction of the
// first occupancyLevels positive quantisation levels receive at least one
// sample under the given gain.
func nonTrivialOccupancy(re []float64, gain float64) bool {
	var occupied [occupancyLevels]bool
	var count int
	for _, v := range re {
		level := int(math.Round(gain * v))
		if level >= 0 && level < occupancyLevels {
			if !occupied[level] {
				occupied[level] = true
				count++
			}
		}
	}
	return float64(count)/float64(occupancyLevels) >= occupancyMinFraction
}
