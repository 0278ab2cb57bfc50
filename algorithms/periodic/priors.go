package periodic

import (
	"fmt"
	"math"
)

// PeakPrior is an externally supplied hint of where oscillatory activity is
// expected: a center frequency and a tolerance window around it, both in Hz.
// Priors claim detected maxima before any unguided peak is considered.
type PeakPrior struct {
	Center    float64 `json:"center"`
	Tolerance float64 `json:"tolerance"`
}

// Validate checks that the prior describes a usable window.
func (p PeakPrior) Validate() error {
	if p.Center <= 0 || p.Tolerance <= 0 {
		return fmt.Errorf("peak prior must have positive center and tolerance, got center=%g tolerance=%g",
			p.Center, p.Tolerance)
	}
	return nil
}

// Window returns the [low, high] frequency window the prior covers.
func (p PeakPrior) Window() (float64, float64) {
	return p.Center - p.Tolerance, p.Center + p.Tolerance
}

// Band is a canonical frequency band, convertible to a PeakPrior.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Prior converts the band into a peak prior centered on the band.
func (b Band) Prior() PeakPrior {
	return PeakPrior{
		Center:    (b.Low + b.High) / 2,
		Tolerance: (b.High - b.Low) / 2,
	}
}

// StandardBands returns the canonical EEG band windows from delta through
// high-frequency activity.
func StandardBands() []Band {
	return []Band{
		{0.3, 1.5}, {1.5, 4}, {4, 8}, {8, 12.5}, {12.5, 30}, {30, 70}, {70, 150}, {150, 250},
	}
}

// BuzsakiBands returns the log-spaced oscillation classes of Buzsaki &
// Draguhn (2004).
func BuzsakiBands() []Band {
	return []Band{
		{1.0 / 5, 1.0 / 2}, {1.0 / 2, 1 / 0.7}, {1.5, 4}, {4, 10},
		{10, 30}, {30, 80}, {80, 200}, {200, 600},
	}
}

// LogBands splits [low, high] into n log-spaced bands.
func LogBands(low, high float64, n int) []Band {
	bands := make([]Band, 0, n)
	step := math.Log(high/low) / float64(n)
	for i := range n {
		bands = append(bands, Band{
			Low:  low * math.Exp(step*float64(i)),
			High: low * math.Exp(step*float64(i+1)),
		})
	}
	return bands
}

// LinearBands splits [low, high] into n equal-width bands.
func LinearBands(low, high float64, n int) []Band {
	bands := make([]Band, 0, n)
	step := (high - low) / float64(n)
	for i := range n {
		bands = append(bands, Band{
			Low:  low + step*float64(i),
			High: low + step*float64(i+1),
		})
	}
	return bands
}

// Subdivide splits every band into n log-spaced sub-bands.
func Subdivide(bands []Band, n int) []Band {
	if n <= 1 {
		return bands
	}
	out := make([]Band, 0, len(bands)*n)
	for _, b := range bands {
		out = append(out, LogBands(b.Low, b.High, n)...)
	}
	return out
}

// Priors converts a set of bands into peak priors, dropping bands that do
// not overlap the given fitted range.
func Priors(bands []Band, rangeLow, rangeHigh float64) []PeakPrior {
	priors := make([]PeakPrior, 0, len(bands))
	for _, b := range bands {
		if b.Low >= rangeHigh || b.High <= rangeLow {
			continue
		}
		priors = append(priors, b.Prior())
	}
	return priors
}
