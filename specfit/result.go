package specfit

import (
	"math"

	"github.com/spectralkit/specband/algorithms/aperiodic"
	"github.com/spectralkit/specband/algorithms/periodic"
	"github.com/spectralkit/specband/spectrum"
)

// Result is the outcome of one fit: the aperiodic parameters, the periodic
// components in detection order, and the goodness-of-fit metrics. Results
// are frozen at construction; every accessor that exposes a slice returns a
// copy.
type Result struct {
	// Aperiodic is the fitted broadband trend.
	Aperiodic aperiodic.Params `json:"aperiodic_params"`

	// Gaussians are the fitted periodic components in detection order.
	// When LogFrequencies is set their centers and sigmas are in natural-log
	// Hz; use PeakParams for values converted back to linear Hz.
	Gaussians []periodic.Gaussian `json:"gaussian_params"`

	// Error is the model error under the configured metric; R² is variance
	// explained, always in [0, 1].
	Error    float64 `json:"error"`
	RSquared float64 `json:"r_squared"`

	// State is the terminal controller state; Iterations is how many full
	// cycles ran.
	State      State `json:"state"`
	Iterations int   `json:"iterations"`

	// LogFrequencies records the axis the gaussians are parameterized on.
	LogFrequencies bool `json:"log_frequencies"`

	// NoisePeaks and NoiseRanges record line-noise harmonics interpolated
	// out during preprocessing.
	NoisePeaks  []float64                 `json:"noise_peaks,omitempty"`
	NoiseRanges []spectrum.FrequencyRange `json:"noise_ranges,omitempty"`

	freqs   []float64
	model   []float64
	apCurve []float64
}

// PeakParam is a fitted peak in interpretable units: center frequency in Hz,
// power above the aperiodic trend in log10 units, and two-sided bandwidth
// in Hz.
type PeakParam struct {
	CF float64 `json:"cf"`
	PW float64 `json:"pw"`
	BW float64 `json:"bw"`
}

// NumPeaks returns the number of fitted periodic components.
func (r *Result) NumPeaks() int {
	return len(r.Gaussians)
}

// Freqs returns the frequency values of the fitted range.
func (r *Result) Freqs() []float64 {
	return copySlice(r.freqs)
}

// ModelCurve returns the full modeled spectrum in log10 power over the
// fitted range.
func (r *Result) ModelCurve() []float64 {
	return copySlice(r.model)
}

// AperiodicCurve returns the aperiodic component of the model in log10
// power over the fitted range.
func (r *Result) AperiodicCurve() []float64 {
	return copySlice(r.apCurve)
}

// PeakParams converts the gaussian definitions to peak parameters: the
// center frequency in linear Hz, the power of the modeled spectrum over the
// aperiodic trend at the center, and the two-sided bandwidth in Hz. On a
// log frequency axis the bandwidth is the width of the one-sigma window
// mapped back to linear frequency.
func (r *Result) PeakParams() []PeakParam {
	params := make([]PeakParam, 0, len(r.Gaussians))
	for _, g := range r.Gaussians {
		var cf, bw float64
		if r.LogFrequencies {
			cf = math.Exp(g.Center)
			bw = math.Exp(g.Center+g.Sigma) - math.Exp(g.Center-g.Sigma)
		} else {
			cf = g.Center
			bw = g.Bandwidth()
		}

		idx := nearestIndex(r.freqs, cf)
		pw := 0.0
		if idx >= 0 {
			pw = r.model[idx] - r.apCurve[idx]
		}
		params = append(params, PeakParam{CF: cf, PW: pw, BW: bw})
	}
	return params
}

// nearestIndex finds the index of the frequency bin closest to f.
func nearestIndex(freqs []float64, f float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range freqs {
		d := math.Abs(v - f)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func copySlice(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
