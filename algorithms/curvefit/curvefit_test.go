package curvefit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func xAxis(n int, step float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i) * step
	}
	return x
}

func TestSolveRecoversLinearModel(t *testing.T) {
	x := xAxis(10, 1)
	model := func(params, out []float64) {
		for i, xi := range x {
			out[i] = params[0] + params[1]*xi
		}
	}
	observed := make([]float64, len(x))
	model([]float64{2, -0.5}, observed)

	res, err := Solve(Problem{
		Model:    model,
		Observed: observed,
		Guess:    []float64{0, 0},
	}, DefaultSettings())
	require.NoError(t, err)
	require.InDelta(t, 2.0, res.Params[0], 1e-6)
	require.InDelta(t, -0.5, res.Params[1], 1e-6)
	require.Less(t, res.Cost, 1e-10)
	require.Greater(t, res.Evaluations, 0)
}

func TestSolveRecoversGaussian(t *testing.T) {
	x := xAxis(41, 0.25)
	model := func(params, out []float64) {
		amp, ctr, sigma := params[0], params[1], params[2]
		for i, xi := range x {
			d := xi - ctr
			out[i] = amp * math.Exp(-d*d/(2*sigma*sigma))
		}
	}
	observed := make([]float64, len(x))
	model([]float64{1, 5, 1}, observed)

	res, err := Solve(Problem{
		Model:    model,
		Observed: observed,
		Guess:    []float64{0.8, 4.5, 1.5},
		Lower:    []float64{0, 3, 1e-6},
		Upper:    []float64{math.Inf(1), 7, 5},
	}, DefaultSettings())
	require.NoError(t, err)
	require.InDelta(t, 1.0, res.Params[0], 1e-3)
	require.InDelta(t, 5.0, res.Params[1], 1e-3)
	require.InDelta(t, 1.0, res.Params[2], 1e-3)
}

func TestSolveRespectsBounds(t *testing.T) {
	x := xAxis(10, 1)
	model := func(params, out []float64) {
		for i, xi := range x {
			out[i] = params[0] * xi
		}
	}

	// The unconstrained optimum is a slope of -1; the lower bound pins it
	// at zero instead.
	observed := make([]float64, len(x))
	for i, xi := range x {
		observed[i] = -xi
	}

	res, err := Solve(Problem{
		Model:    model,
		Observed: observed,
		Guess:    []float64{0.5},
		Lower:    []float64{0},
	}, DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Params[0])
}

func TestSolveDivergenceOnBudget(t *testing.T) {
	x := xAxis(20, 1)
	model := func(params, out []float64) {
		for i, xi := range x {
			out[i] = params[0] * math.Exp(-params[1]*xi)
		}
	}
	observed := make([]float64, len(x))
	model([]float64{3, 0.2}, observed)

	_, err := Solve(Problem{
		Model:    model,
		Observed: observed,
		Guess:    []float64{1, 1},
	}, Settings{MaxEvaluations: 3, Tolerance: 1e-5})

	var div *DivergenceError
	require.ErrorAs(t, err, &div)
	require.LessOrEqual(t, div.Evaluations, 3)
	require.NotEmpty(t, div.Error())
}

func TestSolveRejectsMalformedProblems(t *testing.T) {
	model := func(params, out []float64) {}

	_, err := Solve(Problem{Model: model}, DefaultSettings())
	require.Error(t, err)

	_, err = Solve(Problem{
		Model:    model,
		Observed: []float64{1, 2},
		Guess:    []float64{1, 2, 3},
	}, DefaultSettings())
	require.Error(t, err)

	_, err = Solve(Problem{
		Model:    model,
		Observed: []float64{1, 2, 3},
		Guess:    []float64{1, 2},
		Lower:    []float64{0},
	}, DefaultSettings())
	require.Error(t, err)

	_, err = Solve(Problem{
		Model:    model,
		Observed: []float64{1, 2, 3},
		Guess:    []float64{1},
	}, Settings{})
	require.Error(t, err)
	var div *DivergenceError
	require.False(t, errors.As(err, &div))
}
