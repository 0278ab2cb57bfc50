package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardDeviation(t *testing.T) {
	assert.Equal(t, 0.0, StandardDeviation([]float64{5}))
	assert.InDelta(t, 1.5811388300841898, StandardDeviation([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.Equal(t, 0.0, StandardDeviation([]float64{2, 2, 2, 2}))
}

func TestPercentile(t *testing.T) {
	data := []float64{9, 1, 7, 3, 5}
	require.Equal(t, 1.0, Percentile(data, 0.0001))
	require.Equal(t, 9.0, Percentile(data, 1))
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
	assert.Equal(t, 0.0, Percentile(data, 1.5))

	// The input is left unsorted.
	assert.Equal(t, []float64{9, 1, 7, 3, 5}, data)
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1.0, Correlation(x, y), 1e-12)

	inv := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, Correlation(x, inv), 1e-12)

	assert.Equal(t, 0.0, Correlation(x, []float64{1, 2}))
	assert.Equal(t, 0.0, Correlation(nil, nil))
}
