// Package spectrum holds the power spectrum data model and the input
// preprocessing applied before model fitting: frequency-range trimming,
// line-noise interpolation and the log-power transform.
package spectrum

import (
	"fmt"
	"math"
)

// MinBins is the minimum number of frequency bins a spectrum must retain
// after trimming for a fit to be attempted.
const MinBins = 8

// Spectrum is an immutable frequency/power pair in linear units. Frequencies
// must be strictly increasing and evenly spaced; powers are linear (pre-log).
// The fitting pipeline never mutates a Spectrum it is handed.
type Spectrum struct {
	Freqs  []float64 `json:"freqs"`
	Powers []float64 `json:"powers"`
}

// New validates and wraps a frequency/power array pair.
func New(freqs, powers []float64) (*Spectrum, error) {
	if len(freqs) == 0 || len(powers) == 0 {
		return nil, &DataError{Reason: "empty input arrays"}
	}
	if len(freqs) != len(powers) {
		return nil, &DataError{Reason: fmt.Sprintf(
			"frequency and power arrays are not the same size (%d vs %d)",
			len(freqs), len(powers))}
	}
	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			return nil, &DataError{Reason: fmt.Sprintf(
				"frequencies are not strictly increasing at index %d", i)}
		}
	}
	return &Spectrum{Freqs: freqs, Powers: powers}, nil
}

// Len returns the number of frequency bins.
func (s *Spectrum) Len() int {
	return len(s.Freqs)
}

// Domain returns the frequency range spanned by the spectrum.
func (s *Spectrum) Domain() FrequencyRange {
	return FrequencyRange{Min: s.Freqs[0], Max: s.Freqs[len(s.Freqs)-1]}
}

// Resolution returns the frequency spacing of the spectrum.
func (s *Spectrum) Resolution() float64 {
	if len(s.Freqs) < 2 {
		return 0
	}
	return s.Freqs[1] - s.Freqs[0]
}

// Clone returns a deep copy of the spectrum.
func (s *Spectrum) Clone() *Spectrum {
	freqs := make([]float64, len(s.Freqs))
	powers := make([]float64, len(s.Powers))
	copy(freqs, s.Freqs)
	copy(powers, s.Powers)
	return &Spectrum{Freqs: freqs, Powers: powers}
}

// FrequencyRange is a validated [Min, Max] frequency bound in Hz.
type FrequencyRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks that the range is well formed (Min < Max, both finite).
func (r FrequencyRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) ||
		math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return &InvalidRangeError{Range: r, Reason: "range bounds must be finite"}
	}
	if r.Min >= r.Max {
		return &InvalidRangeError{Range: r, Reason: "min must be below max"}
	}
	return nil
}

// Width returns the span of the range in Hz.
func (r FrequencyRange) Width() float64 {
	return r.Max - r.Min
}

// Contains reports whether f lies inside the range, bounds included.
func (r FrequencyRange) Contains(f float64) bool {
	return f >= r.Min && f <= r.Max
}
