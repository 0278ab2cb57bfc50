// Package sim generates synthetic power spectra from known aperiodic and
// periodic parameters, for tests and examples.
package sim

import (
	"math"
	"math/rand/v2"

	"github.com/spectralkit/specband/algorithms/aperiodic"
	"github.com/spectralkit/specband/algorithms/periodic"
	"github.com/spectralkit/specband/spectrum"
)

// PowerSpectrum builds a linear-space power spectrum over [fr.Min, fr.Max]
// at the given resolution, as the combination of an aperiodic trend and a
// set of gaussian peaks (both defined in log10 power).
func PowerSpectrum(fr spectrum.FrequencyRange, resolution float64, ap aperiodic.Params, peaks []periodic.Gaussian) *spectrum.Spectrum {
	n := int(math.Round(fr.Width()/resolution)) + 1
	freqs := make([]float64, n)
	for i := range n {
		freqs[i] = fr.Min + float64(i)*resolution
	}

	logPowers := aperiodic.Model(freqs, ap)
	peakCurve := periodic.Model(freqs, peaks)

	powers := make([]float64, n)
	for i := range n {
		powers[i] = math.Pow(10, logPowers[i]+peakCurve[i])
	}
	return &spectrum.Spectrum{Freqs: freqs, Powers: powers}
}

// AddNoise returns a copy of the spectrum with multiplicative log-normal
// noise of the given log10 standard deviation, from a fixed seed so
// simulations stay reproducible.
func AddNoise(s *spectrum.Spectrum, level float64, seed uint64) *spectrum.Spectrum {
	rng := rand.New(rand.NewPCG(seed, seed))
	out := s.Clone()
	for i := range out.Powers {
		out.Powers[i] *= math.Pow(10, rng.NormFloat64()*level)
	}
	return out
}
