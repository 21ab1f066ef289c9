package level

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/mwatelescope/beamform/dsp/beamform"
)

func TestSearchVoltageGainZeroMeanSucceeds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	re := make([]float64, 4096)
	for i := range re {
		re[i] = 20 * (rng.Float64() - 0.5) // spread across levels
	}
	// Remove the sample mean so the series is zero-mean to well within
	// meanSanityLimit.
	var sum float64
	for _, v := range re {
		sum += v
	}
	for i := range re {
		re[i] -= sum / float64(len(re))
	}

	gain, err := SearchVoltageGain(re)
	if err != nil {
		t.Fatalf("SearchVoltageGain: %v", err)
	}
	if gain <= 0 || gain > 1 {
		t.Errorf("gain = %v, want in (0,1]", gain)
	}
	if clipFractionAt(re, gain) >= clipFraction {
		t.Errorf("clip fraction at found gain = %v, want < %v", clipFractionAt(re, gain), clipFraction)
	}
}

func TestSearchVoltageGainRejectsNonZeroMean(t *testing.T) {
	re := make([]float64, 100)
	for i := range re {
		re[i] = 10 // constant, far from zero mean
	}
	_, err := SearchVoltageGain(re)
	if !errors.Is(err, beamform.ErrLevelTrackerSanity) {
		t.Errorf("expected ErrLevelTrackerSanity, got %v", err)
	}
}

func TestSearchVoltageGainEmptyInput(t *testing.T) {
	gain, err := SearchVoltageGain(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gain != 1 {
		t.Errorf("gain = %v, want 1 for empty input", gain)
	}
}

func TestNonTrivialOccupancyRejectsSingleLevel(t *testing.T) {
	re := make([]float64, 1000)
	for i := range re {
		re[i] = 0 // everything lands on level 0
	}
	if nonTrivialOccupancy(re, 1.0) {
		t.Error("expected non-trivial occupancy to fail for a single occupied level")
	}
}

func TestClipFractionAtMonotonicInGain(t *testing.T) {
	re := []float64{10, 20, 30, -10, -20}
	low := clipFractionAt(re, 0.1)
	high := clipFractionAt(re, 100)
	if high < low {
		t.Errorf("clip fraction should not decrease as gain grows: low=%v high=%v", low, high)
	}
}
