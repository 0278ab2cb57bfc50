package spectrum

import (
	"math"

	"github.com/spectralkit/specband/logging"
)

// Relative tolerance for matching a detected peak to a powerline harmonic.
const harmonicMatchTolerance = 0.05

// removeLineNoise detects prominent peaks near harmonics of the base line
// frequency and linearly interpolates the power across each detected peak
// region, in log space. Powers are modified in place (they are a private
// copy by the time this is called). Returns the detected harmonic peak
// frequencies and the interpolated ranges.
func removeLineNoise(freqs, powers []float64, baseFreq, prominence float64) ([]float64, []FrequencyRange) {
	maxHarmonic := int(freqs[len(freqs)-1] / baseFreq)
	if maxHarmonic < 1 {
		return nil, nil
	}
	if prominence <= 0 {
		prominence = 0.5
	}

	logPowers := make([]float64, len(powers))
	for i, p := range powers {
		if p > 0 {
			logPowers[i] = math.Log10(p)
		} else {
			logPowers[i] = math.Inf(-1)
		}
	}

	var noisePeaks []float64
	var noiseRanges []FrequencyRange
	for h := 1; h <= maxHarmonic; h++ {
		target := baseFreq * float64(h)
		idx, prom := matchHarmonicPeak(freqs, logPowers, target, prominence)
		if idx < 0 {
			continue
		}

		width := halfProminenceWidth(logPowers, idx, prom)
		lo := max(idx-width, 0)
		hi := min(idx+width, len(freqs)-1)
		interpolateRange(freqs, powers, lo, hi)

		noisePeaks = append(noisePeaks, freqs[idx])
		noiseRanges = append(noiseRanges, FrequencyRange{Min: freqs[lo], Max: freqs[hi]})
	}

	if len(noisePeaks) > 0 {
		logging.Debug("interpolated line-noise harmonics", logging.Fields{
			"base_freq": baseFreq,
			"peaks":     noisePeaks,
		})
	}
	return noisePeaks, noiseRanges
}

// matchHarmonicPeak finds the most prominent local maximum within the match
// tolerance of the target frequency. Returns -1 when no maximum reaches the
// prominence floor.
func matchHarmonicPeak(freqs, logPowers []float64, target, minProminence float64) (int, float64) {
	bestIdx := -1
	bestProm := 0.0
	for i := 1; i < len(logPowers)-1; i++ {
		if math.Abs(freqs[i]-target) > harmonicMatchTolerance*target {
			continue
		}
		if logPowers[i] <= logPowers[i-1] || logPowers[i] <= logPowers[i+1] {
			continue
		}
		prom := peakProminence(logPowers, i)
		if prom >= minProminence && prom > bestProm {
			bestIdx, bestProm = i, prom
		}
	}
	return bestIdx, bestProm
}

// peakProminence measures how far a local maximum stands above the higher of
// the two valleys separating it from taller terrain on either side.
func peakProminence(values []float64, idx int) float64 {
	leftMin := values[idx]
	for i := idx - 1; i >= 0; i-- {
		if values[i] > values[idx] {
			break
		}
		leftMin = math.Min(leftMin, values[i])
	}
	rightMin := values[idx]
	for i := idx + 1; i < len(values); i++ {
		if values[i] > values[idx] {
			break
		}
		rightMin = math.Min(rightMin, values[i])
	}
	return values[idx] - math.Max(leftMin, rightMin)
}

// halfProminenceWidth measures the peak width in bins at half prominence,
// taking the wider of the two sides.
func halfProminenceWidth(values []float64, idx int, prom float64) int {
	level := values[idx] - 0.5*prom
	left := 0
	for i := idx - 1; i >= 0 && values[i] > level; i-- {
		left++
	}
	right := 0
	for i := idx + 1; i < len(values) && values[i] > level; i++ {
		right++
	}
	width := max(left, right) + 1
	return width
}

// interpolateRange replaces powers[lo..hi] with a log-linear ramp between the
// edge values.
func interpolateRange(freqs, powers []float64, lo, hi int) {
	if hi <= lo {
		return
	}
	logLo := math.Log10(powers[lo])
	logHi := math.Log10(powers[hi])
	for i := lo + 1; i < hi; i++ {
		t := (freqs[i] - freqs[lo]) / (freqs[hi] - freqs[lo])
		powers[i] = math.Pow(10, logLo+t*(logHi-logLo))
	}
}
