package periodic

import (
	"fmt"
	"math"

	"github.com/spectralkit/specband/algorithms/curvefit"
	"github.com/spectralkit/specband/logging"
)

// Fitter fits a mixture of gaussians to the residual spectrum, jointly over
// the full residual so overlapping peaks are resolved against each other.
type Fitter struct {
	settings     curvefit.Settings
	minAmplitude float64
	logFreqs     bool
	logger       logging.Logger
}

// NewFitter creates a periodic fitter. Components whose fitted amplitude
// falls below minAmplitude are dropped as spurious. When logFreqs is set the
// gaussians are parameterized on a natural-log frequency axis.
func NewFitter(settings curvefit.Settings, minAmplitude float64, logFreqs bool) *Fitter {
	return &Fitter{
		settings:     settings,
		minAmplitude: minAmplitude,
		logFreqs:     logFreqs,
		logger: logging.WithFields(logging.Fields{
			"component": "periodic_fitter",
			"log_freqs": logFreqs,
		}),
	}
}

// Axis returns the axis the gaussians are parameterized on for the given
// frequencies: the frequencies themselves, or their natural logs.
func (f *Fitter) Axis(freqs []float64) []float64 {
	xs := make([]float64, len(freqs))
	if f.logFreqs {
		for i, fr := range freqs {
			xs[i] = math.Log(fr)
		}
	} else {
		copy(xs, freqs)
	}
	return xs
}

// Fit consumes the candidate stream and jointly fits one gaussian per
// candidate to the residual. The returned components are in detection order;
// components fitted below the minimum amplitude are dropped.
func (f *Fitter) Fit(freqs, residual []float64, stream *CandidateStream) ([]Gaussian, error) {
	var cands []Candidate
	for {
		c, ok := stream.Next()
		if !ok {
			break
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return nil, nil
	}

	xs := f.Axis(freqs)
	guess := make([]float64, 0, 3*len(cands))
	lower := make([]float64, 0, 3*len(cands))
	upper := make([]float64, 0, 3*len(cands))
	inf := math.Inf(1)

	for _, c := range cands {
		center, cfLow, cfHigh, sigma := f.toAxis(c)
		sigmaHigh := FWHMToStd(cfHigh - cfLow)
		if !c.Guided {
			sigmaHigh = 4 * sigma
		}

		guess = append(guess, c.Amplitude, center, sigma)
		lower = append(lower, 0, cfLow, 1e-6)
		upper = append(upper, inf, cfHigh, sigmaHigh)
	}

	model := func(params, out []float64) {
		gs := gaussiansFromVector(params)
		ModelInto(xs, gs, out)
	}

	res, err := curvefit.Solve(curvefit.Problem{
		Model:    model,
		Observed: residual,
		Guess:    guess,
		Lower:    lower,
		Upper:    upper,
	}, f.settings)
	if err != nil {
		return nil, fmt.Errorf("periodic fit: %w", err)
	}

	fitted := gaussiansFromVector(res.Params)
	kept := make([]Gaussian, 0, len(fitted))
	for _, g := range fitted {
		if g.Amplitude < f.minAmplitude {
			continue
		}
		kept = append(kept, g)
	}

	f.logger.Debug("periodic fit complete", logging.Fields{
		"candidates":  len(cands),
		"kept":        len(kept),
		"evaluations": res.Evaluations,
	})
	return kept, nil
}

// toAxis converts a candidate's Hz-valued seed and window to the fit axis.
func (f *Fitter) toAxis(c Candidate) (center, cfLow, cfHigh, sigma float64) {
	if !f.logFreqs {
		return c.Center, c.CFLow, c.CFHigh, c.Sigma
	}
	cfLow = math.Log(c.CFLow)
	cfHigh = math.Log(c.CFHigh)
	center = math.Log(c.Center)
	sigma = FWHMToStd((cfHigh - cfLow) / 2)
	return center, cfLow, cfHigh, sigma
}

// gaussiansFromVector unpacks a flat [amplitude, center, sigma, ...]
// parameter vector.
func gaussiansFromVector(params []float64) []Gaussian {
	gs := make([]Gaussian, 0, len(params)/3)
	for i := 0; i+2 < len(params); i += 3 {
		gs = append(gs, Gaussian{
			Amplitude: params[i],
			Center:    params[i+1],
			Sigma:     params[i+2],
		})
	}
	return gs
}
