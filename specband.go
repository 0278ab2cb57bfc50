// Package specband parameterizes neural power spectra into aperiodic
// (broadband) and periodic (oscillatory) components, with optional peak
// priors that tell the fit where oscillatory activity is expected.
//
// The input is a power spectrum in linear space; the model works on log10
// power. A fit separates the spectrum into an aperiodic trend,
// L(F) = offset - log10(knee + F^exponent), plus a sum of gaussian peaks,
// and reports the parameters with goodness-of-fit metrics.
//
// Basic usage:
//
//	spec, err := spectrum.New(freqs, powers)
//	if err != nil { ... }
//	result, err := specband.Fit(spec,
//		&spectrum.FrequencyRange{Min: 1, Max: 50},
//		periodic.Priors(periodic.StandardBands(), 1, 50),
//		specfit.DefaultConfig())
package specband

import (
	"github.com/spectralkit/specband/algorithms/periodic"
	"github.com/spectralkit/specband/specfit"
	"github.com/spectralkit/specband/spectrum"
)

// Fit parameterizes a power spectrum over the given frequency range (nil
// fits the full domain), guided by zero or more peak priors. See
// specfit.Fitter for the error contract.
func Fit(s *spectrum.Spectrum, fr *spectrum.FrequencyRange, priors []periodic.PeakPrior, cfg specfit.Config) (*specfit.Result, error) {
	fitter, err := specfit.New(cfg)
	if err != nil {
		return nil, err
	}
	return fitter.Fit(s, fr, priors)
}
