package specfit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectralkit/specband/algorithms/aperiodic"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.AperiodicMode = aperiodic.Mode("bent") }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"negative tolerance", func(c *Config) { c.ConvergenceTolerance = -1 }},
		{"zero threshold", func(c *Config) { c.PeakThreshold = 0 }},
		{"negative min amplitude", func(c *Config) { c.MinPeakAmplitude = -0.1 }},
		{"zero peak count", func(c *Config) { c.MaxPeakCount = 0 }},
		{"zero evaluations", func(c *Config) { c.MaxFitEvaluations = 0 }},
		{"negative line noise", func(c *Config) { c.LineNoiseFreq = -50 }},
		{"unknown metric", func(c *Config) { c.ErrorMetric = "chi2" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())

			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestNewDefaultsEmptyMetric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ErrorMetric = ""
	require.NoError(t, cfg.Validate())

	f, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, MetricSSE, f.cfg.ErrorMetric)
}

func TestErrorMetricValidate(t *testing.T) {
	for _, m := range []ErrorMetric{MetricSSE, MetricMAE, MetricMSE, MetricRMSE} {
		require.NoError(t, m.Validate())
	}
	require.Error(t, ErrorMetric("r2").Validate())
}
