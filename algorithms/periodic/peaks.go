package periodic

import (
	"math"

	"github.com/spectralkit/specband/algorithms/common"
	"github.com/spectralkit/specband/logging"
)

// cfBound is how far, in units of the seed standard deviation, an unguided
// peak's center may move during the joint fit.
const cfBound = 1.5

// Candidate is one seed for the joint gaussian fit: a center/amplitude/
// bandwidth starting point plus the center window the fit may move it in.
// All frequency values are in linear Hz.
type Candidate struct {
	Center    float64 `json:"center"`
	Amplitude float64 `json:"amplitude"`
	Sigma     float64 `json:"sigma"`
	Guided    bool    `json:"guided"`
	CFLow     float64 `json:"cf_low"`
	CFHigh    float64 `json:"cf_high"`
}

// CandidateStream is a finite, single-use sequence of candidates in
// detection order. It is consumed once per fitting cycle and cannot be
// restarted.
type CandidateStream struct {
	candidates []Candidate
	pos        int
}

// Next returns the next candidate, or false when the stream is exhausted.
func (s *CandidateStream) Next() (Candidate, bool) {
	if s.pos >= len(s.candidates) {
		return Candidate{}, false
	}
	c := s.candidates[s.pos]
	s.pos++
	return c, true
}

// Remaining returns how many candidates are left to consume.
func (s *CandidateStream) Remaining() int {
	return len(s.candidates) - s.pos
}

// Detector finds candidate peak locations in the residual of a spectrum
// after the aperiodic fit, guided by peak priors.
type Detector struct {
	threshold float64 // in residual standard deviations
	maxPeaks  int
	logger    logging.Logger
}

// NewDetector creates a detector. peakThreshold is the noise floor for
// unguided maxima, in residual standard deviations; maxPeakCount bounds how
// many candidates a single detection pass may produce.
func NewDetector(peakThreshold float64, maxPeakCount int) *Detector {
	return &Detector{
		threshold: peakThreshold,
		maxPeaks:  maxPeakCount,
		logger: logging.WithFields(logging.Fields{
			"component": "peak_detector",
		}),
	}
}

// Detect scans the residual for candidate peaks and returns them as a
// single-use stream.
//
// Priors are honored first, in caller order: each prior claims the highest
// unclaimed local maximum inside its tolerance window (ties break toward the
// lower frequency), with the bandwidth seed taken from the window width
// rather than the maximum's shape. Prior claiming is not subject to the
// noise threshold; supplying a prior asserts that activity is expected
// there. Each claimed seed is subtracted from a working copy of the
// residual before the unguided scan, so the noise estimate is not inflated
// by already-claimed peaks.
//
// Unguided maxima are then accepted tallest-first (ties toward the lower
// frequency) while they exceed the threshold, each subtracted from the
// working copy in turn. Detection stops when no maximum exceeds the
// threshold or the candidate count reaches the maximum.
func (d *Detector) Detect(freqs, residual []float64, priors []PeakPrior) *CandidateStream {
	work := make([]float64, len(residual))
	copy(work, residual)

	n := len(freqs)
	res := freqs[1] - freqs[0]
	rangeWidth := freqs[n-1] - freqs[0]
	claimed := make(map[int]bool)
	var cands []Candidate

	for _, prior := range priors {
		if len(cands) >= d.maxPeaks {
			break
		}
		lo, hi := prior.Window()
		best := -1
		for i := 1; i < n-1; i++ {
			if freqs[i] < lo || freqs[i] > hi || claimed[i] {
				continue
			}
			if work[i] <= work[i-1] || work[i] <= work[i+1] {
				continue
			}
			if best < 0 || work[i] > work[best] {
				best = i
			}
		}
		if best < 0 || work[best] <= 0 {
			continue
		}

		cand := Candidate{
			Center:    freqs[best],
			Amplitude: work[best],
			Sigma:     FWHMToStd(prior.Tolerance),
			Guided:    true,
			CFLow:     math.Max(lo, freqs[0]),
			CFHigh:    math.Min(hi, freqs[n-1]),
		}
		claimed[best] = true
		subtractSeed(freqs, work, cand)
		cands = append(cands, cand)
	}

	for len(cands) < d.maxPeaks {
		std := common.StandardDeviation(work)
		if std <= 0 {
			break
		}
		floor := d.threshold * std

		best := -1
		for i := 1; i < n-1; i++ {
			if claimed[i] || work[i] <= floor {
				continue
			}
			if work[i] <= work[i-1] || work[i] <= work[i+1] {
				continue
			}
			if best < 0 || work[i] > work[best] {
				best = i
			}
		}
		if best < 0 {
			break
		}

		sigma := estimateStd(work, best, res, rangeWidth)
		cand := Candidate{
			Center:    freqs[best],
			Amplitude: work[best],
			Sigma:     sigma,
			Guided:    false,
			CFLow:     math.Max(freqs[best]-cfBound*sigma, freqs[0]),
			CFHigh:    math.Min(freqs[best]+cfBound*sigma, freqs[n-1]),
		}
		claimed[best] = true
		subtractSeed(freqs, work, cand)
		cands = append(cands, cand)
	}

	d.logger.Debug("peak detection complete", logging.Fields{
		"candidates": len(cands),
		"priors":     len(priors),
	})
	return &CandidateStream{candidates: cands}
}

// estimateStd derives a gaussian standard deviation seed from the
// half-height width of the peak at idx, using the shorter side.
func estimateStd(work []float64, idx int, res, rangeWidth float64) float64 {
	half := work[idx] / 2

	left := -1
	for i := idx - 1; i >= 0; i-- {
		if work[i] <= half {
			left = idx - i
			break
		}
	}
	right := -1
	for i := idx + 1; i < len(work); i++ {
		if work[i] <= half {
			right = i - idx
			break
		}
	}

	var halfWidthBins int
	switch {
	case left > 0 && right > 0:
		halfWidthBins = min(left, right)
	case left > 0:
		halfWidthBins = left
	case right > 0:
		halfWidthBins = right
	default:
		halfWidthBins = 2
	}

	sigma := FWHMToStd(2 * float64(halfWidthBins) * res)
	lo := res / 2
	hi := FWHMToStd(rangeWidth) / 2
	return math.Min(math.Max(sigma, lo), hi)
}

// subtractSeed removes the seed gaussian from the working residual so that
// the next threshold estimate reflects only unexplained power.
func subtractSeed(freqs, work []float64, c Candidate) {
	g := Gaussian{Center: c.Center, Amplitude: c.Amplitude, Sigma: c.Sigma}
	for i, f := range freqs {
		work[i] -= g.Evaluate(f)
	}
}
