package specfit

import (
	"fmt"

	"github.com/spectralkit/specband/algorithms/aperiodic"
)

// ErrorMetric selects the error measure reported on a fit result.
type ErrorMetric string

const (
	// MetricSSE is the sum of squared residuals (the default).
	MetricSSE ErrorMetric = "sse"
	// MetricMAE is the mean absolute error.
	MetricMAE ErrorMetric = "mae"
	// MetricMSE is the mean squared error.
	MetricMSE ErrorMetric = "mse"
	// MetricRMSE is the root mean squared error.
	MetricRMSE ErrorMetric = "rmse"
)

// Validate checks that the metric is a known measure.
func (m ErrorMetric) Validate() error {
	switch m {
	case MetricSSE, MetricMAE, MetricMSE, MetricRMSE:
		return nil
	}
	return fmt.Errorf("unknown error metric %q", m)
}

// Config holds every tunable of a fit. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// AperiodicMode selects the broadband model variant, fixed or knee.
	AperiodicMode aperiodic.Mode `json:"aperiodic_mode"`

	// MaxIterations bounds how many full aperiodic/periodic cycles the
	// controller may run before reporting MaxIterationsReached.
	MaxIterations int `json:"max_iterations"`

	// ConvergenceTolerance is the relative model-error improvement between
	// successive cycles below which the fit is considered converged.
	ConvergenceTolerance float64 `json:"convergence_tolerance"`

	// PeakThreshold is the noise floor for unguided peak detection, in
	// residual standard deviations.
	PeakThreshold float64 `json:"peak_threshold"`

	// MinPeakAmplitude drops fitted components below this height.
	MinPeakAmplitude float64 `json:"min_peak_amplitude"`

	// MaxPeakCount bounds how many peaks one detection pass may produce.
	MaxPeakCount int `json:"max_peak_count"`

	// MaxFitEvaluations bounds model evaluations per least-squares fit.
	MaxFitEvaluations int `json:"max_fit_evaluations"`

	// LineNoiseFreq is the powerline base frequency to interpolate out of
	// the input spectrum; zero disables it.
	LineNoiseFreq float64 `json:"line_noise_freq"`

	// LineNoiseProminence is the detection floor for powerline harmonics.
	LineNoiseProminence float64 `json:"line_noise_prominence"`

	// LogFrequencies fits the gaussians on a natural-log frequency axis.
	LogFrequencies bool `json:"log_frequencies"`

	// ErrorMetric selects the error measure reported on the result.
	ErrorMetric ErrorMetric `json:"error_metric"`
}

// DefaultConfig returns the settings the model was tuned with.
func DefaultConfig() Config {
	return Config{
		AperiodicMode:        aperiodic.ModeFixed,
		MaxIterations:        10,
		ConvergenceTolerance: 1e-3,
		PeakThreshold:        2.0,
		MinPeakAmplitude:     0.0,
		MaxPeakCount:         6,
		MaxFitEvaluations:    5000,
		LineNoiseFreq:        0,
		LineNoiseProminence:  0.5,
		LogFrequencies:       false,
		ErrorMetric:          MetricSSE,
	}
}

// Validate checks every field against its allowed domain.
func (c Config) Validate() error {
	if err := c.AperiodicMode.Validate(); err != nil {
		return err
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.ConvergenceTolerance <= 0 {
		return fmt.Errorf("convergence_tolerance must be positive, got %g", c.ConvergenceTolerance)
	}
	if c.PeakThreshold <= 0 {
		return fmt.Errorf("peak_threshold must be positive, got %g", c.PeakThreshold)
	}
	if c.MinPeakAmplitude < 0 {
		return fmt.Errorf("min_peak_amplitude must be non-negative, got %g", c.MinPeakAmplitude)
	}
	if c.MaxPeakCount <= 0 {
		return fmt.Errorf("max_peak_count must be positive, got %d", c.MaxPeakCount)
	}
	if c.MaxFitEvaluations <= 0 {
		return fmt.Errorf("max_fit_evaluations must be positive, got %d", c.MaxFitEvaluations)
	}
	if c.LineNoiseFreq < 0 {
		return fmt.Errorf("line_noise_freq must be non-negative, got %g", c.LineNoiseFreq)
	}
	if c.ErrorMetric != "" {
		if err := c.ErrorMetric.Validate(); err != nil {
			return err
		}
	}
	return nil
}
