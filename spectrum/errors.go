package spectrum

import "fmt"

// InvalidRangeError reports a malformed frequency range, or one that lies
// outside the spectrum's frequency domain. It is never retried.
type InvalidRangeError struct {
	Range  FrequencyRange
	Domain FrequencyRange
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Domain.Width() > 0 {
		return fmt.Sprintf("invalid frequency range [%g, %g] for domain [%g, %g]: %s",
			e.Range.Min, e.Range.Max, e.Domain.Min, e.Domain.Max, e.Reason)
	}
	return fmt.Sprintf("invalid frequency range [%g, %g]: %s",
		e.Range.Min, e.Range.Max, e.Reason)
}

// InsufficientDataError reports that too few frequency bins remain after
// trimming for a fit to be attempted.
type InsufficientDataError struct {
	Bins    int
	MinBins int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d frequency bins after trimming, need at least %d",
		e.Bins, e.MinBins)
}

// DataError reports malformed spectrum values: size mismatches, non-positive
// powers, NaN/Inf values or unevenly spaced frequencies.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "spectrum data error: " + e.Reason
}
