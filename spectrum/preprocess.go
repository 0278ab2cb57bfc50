package spectrum

import (
	"math"

	"github.com/spectralkit/specband/logging"
)

// Options control preprocessing behavior.
type Options struct {
	// LineNoiseFreq is the base frequency of powerline noise in Hz.
	// Harmonics of it are detected and interpolated out of the spectrum
	// before the log transform. Zero disables line-noise handling.
	LineNoiseFreq float64 `json:"line_noise_freq"`

	// LineNoiseProminence is the minimum log-power prominence a local
	// maximum near a harmonic must have to count as a noise peak.
	LineNoiseProminence float64 `json:"line_noise_prominence"`
}

// Preprocessed is the output of Preprocess: a trimmed spectrum with
// log10-transformed power, plus what was measured along the way.
type Preprocessed struct {
	// Freqs are the retained frequency values, in linear Hz.
	Freqs []float64 `json:"freqs"`

	// LogPowers are the retained power values in log10 scale.
	LogPowers []float64 `json:"log_powers"`

	// Range is the actual frequency range of the retained data.
	Range FrequencyRange `json:"range"`

	// Resolution is the frequency spacing of the retained data.
	Resolution float64 `json:"resolution"`

	// NoisePeaks and NoiseRanges record any line-noise harmonics that
	// were detected and interpolated out, in Hz.
	NoisePeaks  []float64        `json:"noise_peaks,omitempty"`
	NoiseRanges []FrequencyRange `json:"noise_ranges,omitempty"`
}

// Preprocess validates a spectrum, restricts it to the requested frequency
// range (or the full domain when fr is nil), interpolates out line-noise
// harmonics when configured, and log10-transforms the power values.
//
// A leading 0 Hz bin is always dropped, since it makes the aperiodic model
// undefined.
func Preprocess(s *Spectrum, fr *FrequencyRange, opts Options) (*Preprocessed, error) {
	if s == nil || s.Len() == 0 {
		return nil, &DataError{Reason: "no spectrum provided"}
	}
	if _, err := New(s.Freqs, s.Powers); err != nil {
		return nil, err
	}

	domain := s.Domain()
	freqs := s.Freqs
	powers := s.Powers

	if fr != nil {
		if err := fr.Validate(); err != nil {
			return nil, err
		}
		if fr.Min > domain.Max || fr.Max < domain.Min {
			return nil, &InvalidRangeError{
				Range:  *fr,
				Domain: domain,
				Reason: "range lies outside the spectrum's frequency domain",
			}
		}
		freqs, powers = trim(freqs, powers, *fr)
	}

	// A 0 Hz bin breaks the log-log aperiodic fit.
	if len(freqs) > 0 && freqs[0] == 0 {
		logging.Debug("dropping 0 Hz bin before fitting")
		freqs = freqs[1:]
		powers = powers[1:]
	}

	if len(freqs) < MinBins {
		return nil, &InsufficientDataError{Bins: len(freqs), MinBins: MinBins}
	}

	// Copy before any in-place interpolation; the input is read-only.
	outFreqs := make([]float64, len(freqs))
	outPowers := make([]float64, len(powers))
	copy(outFreqs, freqs)
	copy(outPowers, powers)

	var noisePeaks []float64
	var noiseRanges []FrequencyRange
	if opts.LineNoiseFreq > 0 {
		noisePeaks, noiseRanges = removeLineNoise(outFreqs, outPowers,
			opts.LineNoiseFreq, opts.LineNoiseProminence)
	}

	res := outFreqs[1] - outFreqs[0]
	logPowers := make([]float64, len(outPowers))
	for i, p := range outPowers {
		if p <= 0 {
			return nil, &DataError{Reason: "power values must be positive in linear scale"}
		}
		logPowers[i] = math.Log10(p)
		if math.IsNaN(logPowers[i]) || math.IsInf(logPowers[i], 0) {
			return nil, &DataError{Reason: "power values contain NaN or Inf after logging"}
		}
	}

	for i := 1; i < len(outFreqs); i++ {
		if math.Abs((outFreqs[i]-outFreqs[i-1])-res) > 1e-6*res+1e-12 {
			return nil, &DataError{Reason: "frequency values are not evenly spaced"}
		}
	}

	return &Preprocessed{
		Freqs:       outFreqs,
		LogPowers:   logPowers,
		Range:       FrequencyRange{Min: outFreqs[0], Max: outFreqs[len(outFreqs)-1]},
		Resolution:  res,
		NoisePeaks:  noisePeaks,
		NoiseRanges: noiseRanges,
	}, nil
}

// trim restricts freqs and powers to the bins inside fr, bounds included.
func trim(freqs, powers []float64, fr FrequencyRange) ([]float64, []float64) {
	lo := 0
	for lo < len(freqs) && freqs[lo] < fr.Min {
		lo++
	}
	hi := len(freqs)
	for hi > lo && freqs[hi-1] > fr.Max {
		hi--
	}
	return freqs[lo:hi], powers[lo:hi]
}
