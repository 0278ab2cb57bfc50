package specfit

import (
	"math"

	"github.com/spectralkit/specband/algorithms/common"
)

// Evaluate computes the model error under the given metric and the R²
// (variance explained, as the squared Pearson correlation) of the modeled
// spectrum against the observed log power. Pure function; well-formed
// inputs cannot make it fail. A constant model or spectrum yields R² = 0.
func Evaluate(observed, model []float64, metric ErrorMetric) (errVal, rSquared float64) {
	switch metric {
	case MetricMAE:
		for i := range observed {
			errVal += math.Abs(observed[i] - model[i])
		}
		errVal /= float64(len(observed))
	case MetricMSE, MetricRMSE:
		for i := range observed {
			d := observed[i] - model[i]
			errVal += d * d
		}
		errVal /= float64(len(observed))
		if metric == MetricRMSE {
			errVal = math.Sqrt(errVal)
		}
	default: // MetricSSE
		for i := range observed {
			d := observed[i] - model[i]
			errVal += d * d
		}
	}

	r := common.Correlation(observed, model)
	rSquared = r * r
	switch {
	case math.IsNaN(rSquared) || math.IsInf(rSquared, 0):
		rSquared = 0
	case rSquared > 1:
		// Near-perfect fits can overshoot 1 by a rounding error.
		rSquared = 1
	}
	return errVal, rSquared
}
