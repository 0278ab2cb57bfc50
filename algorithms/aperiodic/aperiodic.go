// Package aperiodic fits the broadband (non-oscillatory) trend of a log-power
// spectrum, either as a plain power law or with a knee bend.
package aperiodic

import (
	"fmt"
	"math"

	"github.com/spectralkit/specband/algorithms/common"
	"github.com/spectralkit/specband/algorithms/curvefit"
	"github.com/spectralkit/specband/logging"
)

// Mode selects the aperiodic model variant.
type Mode string

const (
	// ModeFixed fits L(F) = offset - exponent*log10(F).
	ModeFixed Mode = "fixed"

	// ModeKnee fits L(F) = offset - log10(knee + F^exponent), capturing a
	// bend in the power-law trend.
	ModeKnee Mode = "knee"
)

// Validate checks that the mode is a known variant.
func (m Mode) Validate() error {
	switch m {
	case ModeFixed, ModeKnee:
		return nil
	}
	return fmt.Errorf("unknown aperiodic mode %q", m)
}

// Params describes the fitted broadband trend. Knee is meaningful only in
// ModeKnee and is reported as 0 otherwise. Exponent is never negative.
type Params struct {
	Offset   float64 `json:"offset"`
	Knee     float64 `json:"knee,omitempty"`
	Exponent float64 `json:"exponent"`
	Mode     Mode    `json:"mode"`
}

// Model evaluates the aperiodic curve for the given frequencies, in log10
// power units.
func Model(freqs []float64, p Params) []float64 {
	out := make([]float64, len(freqs))
	ModelInto(freqs, p, out)
	return out
}

// ModelInto is Model writing into a caller-supplied slice.
func ModelInto(freqs []float64, p Params, out []float64) {
	switch p.Mode {
	case ModeKnee:
		for i, f := range freqs {
			out[i] = p.Offset - math.Log10(p.Knee+math.Pow(f, p.Exponent))
		}
	default:
		for i, f := range freqs {
			out[i] = p.Offset - p.Exponent*math.Log10(f)
		}
	}
}

// Percentile of the flattened spectrum below which points are kept for the
// robust re-fit. Clamping negatives to zero first makes this select the
// points at or under the initial fit.
const robustPercentile = 0.00025

// Fitter fits aperiodic parameters with bounded least squares.
type Fitter struct {
	mode     Mode
	settings curvefit.Settings
	logger   logging.Logger
}

// NewFitter creates an aperiodic fitter for the given model variant.
func NewFitter(mode Mode, settings curvefit.Settings) *Fitter {
	return &Fitter{
		mode:     mode,
		settings: settings,
		logger: logging.WithFields(logging.Fields{
			"component": "aperiodic_fitter",
			"mode":      string(mode),
		}),
	}
}

// Fit runs a single bounded least-squares fit of the aperiodic model to a
// log10 power spectrum, with the initial guess derived from the spectrum's
// endpoints.
func (f *Fitter) Fit(freqs, logPowers []float64) (Params, error) {
	return f.fit(freqs, logPowers, f.guess(freqs, logPowers))
}

// FitRobust fits twice: once on the full spectrum, then again on only the
// points at or below the first fit, so that oscillatory peaks do not drag
// the broadband estimate upward.
func (f *Fitter) FitRobust(freqs, logPowers []float64) (Params, error) {
	first, err := f.Fit(freqs, logPowers)
	if err != nil {
		return Params{}, err
	}

	flat := make([]float64, len(freqs))
	ModelInto(freqs, first, flat)
	for i := range flat {
		flat[i] = logPowers[i] - flat[i]
		if flat[i] < 0 {
			flat[i] = 0
		}
	}

	thresh := common.Percentile(flat, robustPercentile)
	var maskedFreqs, maskedPowers []float64
	for i := range flat {
		if flat[i] <= thresh {
			maskedFreqs = append(maskedFreqs, freqs[i])
			maskedPowers = append(maskedPowers, logPowers[i])
		}
	}

	// Not enough non-peak points to re-fit; the first fit stands.
	if len(maskedFreqs) <= f.numParams() {
		f.logger.Debug("robust refit skipped, too few masked points", logging.Fields{
			"masked_points": len(maskedFreqs),
		})
		return first, nil
	}

	return f.fit(maskedFreqs, maskedPowers, f.toVector(first))
}

func (f *Fitter) numParams() int {
	if f.mode == ModeKnee {
		return 3
	}
	return 2
}

// guess derives initial parameters from the spectrum endpoints: offset from
// the power at the lowest frequency, exponent from the log-log slope between
// the first and last points, knee from the width of the fitted range.
func (f *Fitter) guess(freqs, logPowers []float64) []float64 {
	n := len(freqs)
	offset := logPowers[0]
	exponent := math.Abs((logPowers[n-1] - logPowers[0]) /
		(math.Log10(freqs[n-1]) - math.Log10(freqs[0])))

	if f.mode == ModeKnee {
		return []float64{offset, freqs[n-1] - freqs[0], exponent}
	}
	return []float64{offset, exponent}
}

func (f *Fitter) toVector(p Params) []float64 {
	if f.mode == ModeKnee {
		return []float64{p.Offset, p.Knee, p.Exponent}
	}
	return []float64{p.Offset, p.Exponent}
}

func (f *Fitter) fromVector(v []float64) Params {
	if f.mode == ModeKnee {
		return Params{Offset: v[0], Knee: v[1], Exponent: v[2], Mode: f.mode}
	}
	return Params{Offset: v[0], Exponent: v[1], Mode: f.mode}
}

func (f *Fitter) bounds() (lower, upper []float64) {
	inf := math.Inf(1)
	if f.mode == ModeKnee {
		return []float64{-inf, 0, 0}, []float64{inf, inf, inf}
	}
	return []float64{-inf, 0}, []float64{inf, inf}
}

func (f *Fitter) fit(freqs, logPowers, guess []float64) (Params, error) {
	lower, upper := f.bounds()
	model := func(params, out []float64) {
		ModelInto(freqs, f.fromVector(params), out)
	}

	res, err := curvefit.Solve(curvefit.Problem{
		Model:    model,
		Observed: logPowers,
		Guess:    guess,
		Lower:    lower,
		Upper:    upper,
	}, f.settings)
	if err != nil {
		return Params{}, fmt.Errorf("aperiodic fit: %w", err)
	}

	f.logger.Debug("aperiodic fit complete", logging.Fields{
		"cost":        res.Cost,
		"evaluations": res.Evaluations,
	})
	return f.fromVector(res.Params), nil
}
