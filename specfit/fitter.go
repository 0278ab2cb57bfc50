// Package specfit drives the spectral parameterization: it alternates
// aperiodic and periodic fitting over a preprocessed power spectrum until
// the model stops improving, then evaluates goodness of fit.
package specfit

import (
	"math"

	"github.com/spectralkit/specband/algorithms/aperiodic"
	"github.com/spectralkit/specband/algorithms/curvefit"
	"github.com/spectralkit/specband/algorithms/periodic"
	"github.com/spectralkit/specband/logging"
	"github.com/spectralkit/specband/spectrum"
)

// Relative tolerance handed to the least-squares fits; reduced from the
// optimizer default to speed fitting, as the original model does.
const fitTolerance = 1e-5

// Per-bin SSE floor below which a model counts as converged outright. On a
// noise-free spectrum the SSE lands at machine precision and relative
// improvement between near-zero costs never settles, so the relative test
// alone would spin until the iteration limit.
const convergedSSE = 1e-12

// Fitter fits power spectra with a shared configuration. A Fitter holds no
// per-fit state, so one Fitter may serve concurrent Fit calls on
// independent spectra.
type Fitter struct {
	cfg    Config
	logger logging.Logger
}

// New validates the configuration and creates a Fitter.
func New(cfg Config) (*Fitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ErrorMetric == "" {
		cfg.ErrorMetric = MetricSSE
	}
	return &Fitter{
		cfg: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "specfit",
			"mode":      string(cfg.AperiodicMode),
		}),
	}, nil
}

// cycle is the outcome of one full aperiodic+periodic pass, kept so the
// best model seen can be frozen into the result (or attached to a failure).
type cycle struct {
	iteration int
	ap        aperiodic.Params
	gaussians []periodic.Gaussian
	apCurve   []float64
	model     []float64
	sse       float64
}

// Fit parameterizes one power spectrum. The spectrum is read-only; all fit
// state is local to the call. It returns a Result in state Converged or
// MaxIterationsReached, a preprocessing error (InvalidRangeError,
// InsufficientDataError, DataError), or an UnfitSpectrumError carrying the
// best partial result when either fitting stage diverges.
func (f *Fitter) Fit(s *spectrum.Spectrum, fr *spectrum.FrequencyRange, priors []periodic.PeakPrior) (*Result, error) {
	for _, p := range priors {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	pre, err := spectrum.Preprocess(s, fr, spectrum.Options{
		LineNoiseFreq:       f.cfg.LineNoiseFreq,
		LineNoiseProminence: f.cfg.LineNoiseProminence,
	})
	if err != nil {
		return nil, err
	}

	settings := curvefit.Settings{
		MaxEvaluations: f.cfg.MaxFitEvaluations,
		Tolerance:      fitTolerance,
	}
	apFitter := aperiodic.NewFitter(f.cfg.AperiodicMode, settings)
	detector := periodic.NewDetector(f.cfg.PeakThreshold, f.cfg.MaxPeakCount)
	perFitter := periodic.NewFitter(settings, f.cfg.MinPeakAmplitude, f.cfg.LogFrequencies)
	axis := perFitter.Axis(pre.Freqs)

	logger := f.logger.WithFields(logging.Fields{
		"freq_range": pre.Range,
		"bins":       len(pre.Freqs),
		"priors":     len(priors),
	})
	logger.Debug("starting fit")

	n := len(pre.Freqs)
	state := Initializing
	prevSSE := math.Inf(1)
	peakRemoved := make([]float64, n)
	residual := make([]float64, n)
	var best, last *cycle

	for iteration := 1; iteration <= f.cfg.MaxIterations; iteration++ {
		state = FittingAperiodic
		var ap aperiodic.Params
		if iteration == 1 {
			// The first pass has no peak model to exclude, so fit
			// robustly against peak regions dragging the trend up.
			ap, err = apFitter.FitRobust(pre.Freqs, pre.LogPowers)
		} else {
			ap, err = apFitter.Fit(pre.Freqs, peakRemoved)
		}
		if err != nil {
			return nil, f.failed(pre, best, StageAperiodic, iteration, err)
		}

		apCurve := aperiodic.Model(pre.Freqs, ap)
		for i := range residual {
			residual[i] = pre.LogPowers[i] - apCurve[i]
		}

		state = FittingPeriodic
		candidates := detector.Detect(pre.Freqs, residual, priors)
		gaussians, err := perFitter.Fit(pre.Freqs, residual, candidates)
		if err != nil {
			return nil, f.failed(pre, best, StagePeriodic, iteration, err)
		}

		peakCurve := periodic.Model(axis, gaussians)
		model := make([]float64, n)
		for i := range model {
			model[i] = apCurve[i] + peakCurve[i]
		}
		sse, _ := Evaluate(pre.LogPowers, model, MetricSSE)

		last = &cycle{
			iteration: iteration,
			ap:        ap,
			gaussians: gaussians,
			apCurve:   apCurve,
			model:     model,
			sse:       sse,
		}
		if best == nil || sse < best.sse {
			best = last
		}

		improvement := 1.0
		if !math.IsInf(prevSSE, 1) {
			if prevSSE > 0 {
				improvement = (prevSSE - sse) / prevSSE
			} else {
				improvement = 0
			}
		}
		logger.Debug("cycle complete", logging.Fields{
			"iteration":   iteration,
			"peaks":       len(gaussians),
			"sse":         sse,
			"improvement": improvement,
		})

		if sse <= convergedSSE*float64(n) || improvement <= f.cfg.ConvergenceTolerance {
			state = Converged
			break
		}
		if iteration == f.cfg.MaxIterations {
			state = MaxIterationsReached
			break
		}

		prevSSE = sse
		for i := range peakRemoved {
			peakRemoved[i] = pre.LogPowers[i] - peakCurve[i]
		}
	}

	if state == MaxIterationsReached {
		logger.Warn("fit stopped at iteration limit", logging.Fields{
			"max_iterations": f.cfg.MaxIterations,
		})
	}
	return f.buildResult(pre, last, state), nil
}

// failed wraps a stage divergence into an UnfitSpectrumError carrying the
// best partial result obtained so far.
func (f *Fitter) failed(pre *spectrum.Preprocessed, best *cycle, stage Stage, iteration int, err error) error {
	f.logger.Error(err, "fit failed", logging.Fields{
		"stage":     stage,
		"iteration": iteration,
	})
	var partial *Result
	if best != nil {
		partial = f.buildResult(pre, best, Failed)
	}
	return &UnfitSpectrumError{
		Stage:     stage,
		Iteration: iteration,
		Partial:   partial,
		Err:       err,
	}
}

// buildResult freezes a completed cycle into an immutable Result.
func (f *Fitter) buildResult(pre *spectrum.Preprocessed, c *cycle, state State) *Result {
	errVal, rSquared := Evaluate(pre.LogPowers, c.model, f.cfg.ErrorMetric)

	gaussians := make([]periodic.Gaussian, len(c.gaussians))
	copy(gaussians, c.gaussians)

	return &Result{
		Aperiodic:      c.ap,
		Gaussians:      gaussians,
		Error:          errVal,
		RSquared:       rSquared,
		State:          state,
		Iterations:     c.iteration,
		LogFrequencies: f.cfg.LogFrequencies,
		NoisePeaks:     pre.NoisePeaks,
		NoiseRanges:    pre.NoiseRanges,
		freqs:          copySlice(pre.Freqs),
		model:          copySlice(c.model),
		apCurve:        copySlice(c.apCurve),
	}
}
