package analysis

import (
	"errors"
	"fmt"
	"math"
)

// Errors surfaced by the development-rate diagnostic. They are never
// converted into a numeric stand-in; a trajectory that cannot support
// the diagnostic is the caller's signal to re-run with a longer horizon
// or denser sampling.
var (
	// ErrThresholdNotReached indicates the trace never rose to the
	// half-max threshold within the sampled trajectory.
	ErrThresholdNotReached = errors.New("analysis: trace never reaches half-max threshold")

	// ErrZeroRiseTime indicates the threshold was already crossed at
	// t=0, leaving the rate 1/t undefined.
	ErrZeroRiseTime = errors.New("analysis: threshold crossed at t=0, rate undefined")

	// ErrShortTrace indicates fewer than two samples or mismatched
	// time/value lengths.
	ErrShortTrace = errors.New("analysis: trace too short for diagnostics")
)

// HalfMaxFraction is the time-constant threshold 1 - 1/e applied to the
// final sampled value.
var HalfMaxFraction = 1.0 - 1.0/math.E

// Development summarizes the rate-of-rise of a tension trace.
type Development struct {
	FMax  float64 // tension at the final sample
	FHalf float64 // (1 - 1/e) * FMax
	THalf float64 // first sample time with tension >= FHalf
	KDev  float64 // 1 / THalf
}

// RateOfDevelopment computes the characteristic rate of force
// development k_dev from a sampled tension trace. FMax is taken at the
// final sample, the threshold at (1-1/e)*FMax, and THalf from the first
// sample at or above the threshold, scanning in time order.
//
// The scan takes the first crossing regardless of what the trace does
// afterwards; for an oscillatory trace this is the first-passage time.
func RateOfDevelopment(times, tension []float64) (Development, error) {
	if len(times) < 2 || len(times) != len(tension) {
		return Development{}, fmt.Errorf("%w: %d times, %d samples",
			ErrShortTrace, len(times), len(tension))
	}

	fMax := tension[len(tension)-1]
	// A trace that ends at or below zero has no positive level to rise
	// towards, even if it peaked in between.
	if fMax <= 0 {
		return Development{}, ErrThresholdNotReached
	}
	fHalf := HalfMaxFraction * fMax

	idx := -1
	for i, v := range tension {
		if v >= fHalf {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Development{}, ErrThresholdNotReached
	}

	tHalf := times[idx]
	if tHalf == 0 {
		return Development{FMax: fMax, FHalf: fHalf}, ErrZeroRiseTime
	}

	return Development{
		FMax:  fMax,
		FHalf: fHalf,
		THalf: tHalf,
		KDev:  1.0 / tHalf,
	}, nil
}
