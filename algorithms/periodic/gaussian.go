package periodic

import "math"

// fwhmFactor converts a full-width half-max to a gaussian standard
// deviation: std = fwhm / (2*sqrt(2*ln 2)).
const fwhmFactor = 2.3548200450309493

// FWHMToStd computes the gaussian standard deviation for a full-width
// half-max.
func FWHMToStd(fwhm float64) float64 {
	return fwhm / fwhmFactor
}

// Gaussian is one fitted periodic component. Center and Sigma are in the
// units of the fit axis (Hz, or natural-log Hz when fitting on a log
// frequency axis); Amplitude is the peak height in log10 power over the
// aperiodic trend.
type Gaussian struct {
	Center    float64 `json:"center"`
	Amplitude float64 `json:"amplitude"`
	Sigma     float64 `json:"sigma"`
}

// Bandwidth returns the two-sided bandwidth (2*Sigma).
func (g Gaussian) Bandwidth() float64 {
	return 2 * g.Sigma
}

// Evaluate returns the gaussian's value at x.
func (g Gaussian) Evaluate(x float64) float64 {
	d := x - g.Center
	return g.Amplitude * math.Exp(-d*d/(2*g.Sigma*g.Sigma))
}

// Model evaluates the sum of gaussians at every axis point.
func Model(xs []float64, gs []Gaussian) []float64 {
	out := make([]float64, len(xs))
	ModelInto(xs, gs, out)
	return out
}

// ModelInto is Model writing into a caller-supplied slice.
func ModelInto(xs []float64, gs []Gaussian, out []float64) {
	for i := range out {
		out[i] = 0
	}
	for _, g := range gs {
		if g.Sigma <= 0 {
			continue
		}
		for i, x := range xs {
			out[i] += g.Evaluate(x)
		}
	}
}
