package specfit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateMetrics(t *testing.T) {
	observed := []float64{1, 2, 3, 4}
	model := []float64{2, 3, 4, 5}

	sse, r2 := Evaluate(observed, model, MetricSSE)
	require.InDelta(t, 4.0, sse, 1e-12)
	require.InDelta(t, 1.0, r2, 1e-12)

	mae, _ := Evaluate(observed, model, MetricMAE)
	require.InDelta(t, 1.0, mae, 1e-12)

	mse, _ := Evaluate(observed, model, MetricMSE)
	require.InDelta(t, 1.0, mse, 1e-12)

	rmse, _ := Evaluate(observed, model, MetricRMSE)
	require.InDelta(t, 1.0, rmse, 1e-12)
}

func TestEvaluatePerfectFit(t *testing.T) {
	observed := []float64{1, 2, 3, 4}
	errVal, r2 := Evaluate(observed, observed, MetricSSE)
	require.Equal(t, 0.0, errVal)
	require.InDelta(t, 1.0, r2, 1e-12)
}

func TestEvaluateConstantInputsHaveZeroRSquared(t *testing.T) {
	observed := []float64{2, 2, 2, 2}
	model := []float64{1, 2, 3, 4}

	_, r2 := Evaluate(observed, model, MetricSSE)
	require.Equal(t, 0.0, r2)

	_, r2 = Evaluate(model, observed, MetricSSE)
	require.Equal(t, 0.0, r2)
}

func TestEvaluateDefaultsToSSE(t *testing.T) {
	observed := []float64{1, 2, 3}
	model := []float64{1, 2, 4}

	def, _ := Evaluate(observed, model, "")
	sse, _ := Evaluate(observed, model, MetricSSE)
	require.Equal(t, sse, def)
}

func TestEvaluateRSquaredBounded(t *testing.T) {
	observed := []float64{1, -2, 3, -4, 5}
	model := []float64{0.5, 1, -1, 2, 0}

	_, r2 := Evaluate(observed, model, MetricSSE)
	require.GreaterOrEqual(t, r2, 0.0)
	require.LessOrEqual(t, r2, 1.0)
}
