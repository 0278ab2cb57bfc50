package aperiodic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectralkit/specband/algorithms/curvefit"
)

func freqAxis(fmin, fmax, res float64) []float64 {
	n := int(math.Round((fmax-fmin)/res)) + 1
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = fmin + float64(i)*res
	}
	return freqs
}

func TestModeValidate(t *testing.T) {
	require.NoError(t, ModeFixed.Validate())
	require.NoError(t, ModeKnee.Validate())
	require.Error(t, Mode("lorentzian").Validate())
}

func TestFitRecoversFixedModel(t *testing.T) {
	freqs := freqAxis(1, 50, 0.5)
	truth := Params{Offset: 1, Exponent: 2, Mode: ModeFixed}
	logPowers := Model(freqs, truth)

	fitter := NewFitter(ModeFixed, curvefit.DefaultSettings())
	got, err := fitter.Fit(freqs, logPowers)
	require.NoError(t, err)
	require.InDelta(t, truth.Offset, got.Offset, 1e-4)
	require.InDelta(t, truth.Exponent, got.Exponent, 1e-4)
	require.Equal(t, ModeFixed, got.Mode)
	require.Equal(t, 0.0, got.Knee)
}

func TestFitRecoversKneeModel(t *testing.T) {
	freqs := freqAxis(1, 50, 0.5)
	truth := Params{Offset: 1, Knee: 10, Exponent: 2, Mode: ModeKnee}
	logPowers := Model(freqs, truth)

	fitter := NewFitter(ModeKnee, curvefit.DefaultSettings())
	got, err := fitter.Fit(freqs, logPowers)
	require.NoError(t, err)
	require.InDelta(t, truth.Offset, got.Offset, 0.2)
	require.InDelta(t, truth.Knee, got.Knee, 2.0)
	require.InDelta(t, truth.Exponent, got.Exponent, 0.2)
}

func TestFitRobustIgnoresPeak(t *testing.T) {
	freqs := freqAxis(1, 50, 0.5)
	truth := Params{Offset: 0, Exponent: 2, Mode: ModeFixed}
	logPowers := Model(freqs, truth)

	// Add a tall oscillatory bump around 10 Hz on top of the trend.
	for i, f := range freqs {
		d := f - 10
		logPowers[i] += 1.0 * math.Exp(-d*d/(2*2*2))
	}

	fitter := NewFitter(ModeFixed, curvefit.DefaultSettings())

	robust, err := fitter.FitRobust(freqs, logPowers)
	require.NoError(t, err)
	require.InDelta(t, truth.Exponent, robust.Exponent, 0.1)
	require.InDelta(t, truth.Offset, robust.Offset, 0.1)

	// The plain fit is dragged upward by the bump; the robust refit should
	// sit at least as close to the true trend.
	plain, err := fitter.Fit(freqs, logPowers)
	require.NoError(t, err)
	require.LessOrEqual(t,
		math.Abs(robust.Exponent-truth.Exponent),
		math.Abs(plain.Exponent-truth.Exponent)+1e-9)
}

func TestFitExponentNeverNegative(t *testing.T) {
	freqs := freqAxis(1, 30, 1)

	// An upward-sloping spectrum: the best bounded fit pins the exponent
	// at zero rather than going negative.
	logPowers := make([]float64, len(freqs))
	for i, f := range freqs {
		logPowers[i] = 0.5 * math.Log10(f)
	}

	fitter := NewFitter(ModeFixed, curvefit.DefaultSettings())
	got, err := fitter.Fit(freqs, logPowers)
	require.NoError(t, err)
	require.GreaterOrEqual(t, got.Exponent, 0.0)
	require.LessOrEqual(t, got.Exponent, 1e-9)
}

func TestFitDivergenceSurfacesError(t *testing.T) {
	freqs := freqAxis(1, 50, 0.5)
	logPowers := Model(freqs, Params{Offset: 1, Exponent: 2, Mode: ModeFixed})
	for i, f := range freqs {
		d := f - 10
		logPowers[i] += math.Exp(-d * d / 8)
	}

	fitter := NewFitter(ModeFixed, curvefit.Settings{MaxEvaluations: 3, Tolerance: 1e-5})
	_, err := fitter.Fit(freqs, logPowers)
	var div *curvefit.DivergenceError
	require.ErrorAs(t, err, &div)
}
