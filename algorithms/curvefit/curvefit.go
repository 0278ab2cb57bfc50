// Package curvefit implements bounded nonlinear least-squares fitting with a
// Levenberg-Marquardt iteration, for the aperiodic and periodic model fits.
package curvefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ModelFunc evaluates the model at every sample point for the given
// parameter vector, writing the curve into out. The function must be
// deterministic: identical params must produce identical output.
type ModelFunc func(params []float64, out []float64)

// Problem describes one least-squares fit: a model, the observed values it
// should reproduce, an initial guess, and optional box bounds per parameter.
type Problem struct {
	Model    ModelFunc
	Observed []float64
	Guess    []float64
	Lower    []float64 // nil leaves parameters unbounded below
	Upper    []float64 // nil leaves parameters unbounded above
}

// Settings bound the work the optimizer may do.
type Settings struct {
	// MaxEvaluations caps the number of model evaluations, including those
	// spent on finite-difference Jacobians.
	MaxEvaluations int `json:"max_evaluations"`

	// Tolerance is the relative cost-reduction threshold below which the
	// fit is considered converged.
	Tolerance float64 `json:"tolerance"`

	// InitialDamping is the starting Levenberg-Marquardt damping factor.
	InitialDamping float64 `json:"initial_damping"`
}

// DefaultSettings mirrors the fitting budget the model was tuned with.
func DefaultSettings() Settings {
	return Settings{
		MaxEvaluations: 5000,
		Tolerance:      1e-5,
		InitialDamping: 1e-3,
	}
}

// Result holds the fitted parameters and fit diagnostics.
type Result struct {
	Params      []float64 `json:"params"`
	Cost        float64   `json:"cost"` // sum of squared residuals
	Evaluations int       `json:"evaluations"`
	Iterations  int       `json:"iterations"`
}

// DivergenceError reports that the optimizer exhausted its evaluation budget
// or stalled before reaching the convergence tolerance.
type DivergenceError struct {
	Evaluations int
	Cost        float64
	Reason      string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("fit did not converge after %d evaluations (cost %g): %s",
		e.Evaluations, e.Cost, e.Reason)
}

const (
	sqrtEps    = 1.4901161193847656e-08 // sqrt of float64 machine epsilon
	minDamping = 1e-12
	maxDamping = 1e15
)

// Solve runs a damped least-squares iteration from the initial guess until
// the relative cost reduction falls below the tolerance. Parameters are kept
// inside the box bounds by clamping each trial step.
func Solve(p Problem, s Settings) (*Result, error) {
	n := len(p.Observed)
	np := len(p.Guess)
	if n == 0 || np == 0 {
		return nil, fmt.Errorf("curvefit: empty problem (%d observations, %d parameters)", n, np)
	}
	if np > n {
		return nil, fmt.Errorf("curvefit: underdetermined problem (%d parameters, %d observations)", np, n)
	}
	if p.Lower != nil && len(p.Lower) != np {
		return nil, fmt.Errorf("curvefit: lower bounds length %d does not match %d parameters", len(p.Lower), np)
	}
	if p.Upper != nil && len(p.Upper) != np {
		return nil, fmt.Errorf("curvefit: upper bounds length %d does not match %d parameters", len(p.Upper), np)
	}
	if s.MaxEvaluations <= 0 || s.Tolerance <= 0 {
		return nil, fmt.Errorf("curvefit: settings must have positive evaluation budget and tolerance")
	}
	if s.InitialDamping <= 0 {
		s.InitialDamping = 1e-3
	}

	params := make([]float64, np)
	copy(params, p.Guess)
	clampParams(params, p.Lower, p.Upper)

	evals := 0
	evaluate := func(ps, out []float64) bool {
		if evals >= s.MaxEvaluations {
			return false
		}
		p.Model(ps, out)
		evals++
		return true
	}

	model := make([]float64, n)
	resid := make([]float64, n)
	if !evaluate(params, model) {
		return nil, &DivergenceError{Evaluations: evals, Cost: math.Inf(1), Reason: "evaluation budget exhausted"}
	}
	cost := residuals(p.Observed, model, resid)

	jac := mat.NewDense(n, np, nil)
	perturbed := make([]float64, n)
	trial := make([]float64, np)
	trialModel := make([]float64, n)
	trialResid := make([]float64, n)
	grad := mat.NewVecDense(np, nil)
	normal := mat.NewDense(np, np, nil)
	var delta mat.VecDense

	damping := s.InitialDamping

	for iter := 1; ; iter++ {
		if !jacobian(jac, params, model, perturbed, p, evaluate) {
			return nil, &DivergenceError{Evaluations: evals, Cost: cost, Reason: "evaluation budget exhausted"}
		}

		rVec := mat.NewVecDense(n, resid)
		grad.MulVec(jac.T(), rVec)
		if mat.Norm(grad, math.Inf(1)) <= 1e-12*(1+cost) {
			return &Result{Params: params, Cost: cost, Evaluations: evals, Iterations: iter}, nil
		}

		for {
			normal.Mul(jac.T(), jac)
			for i := range np {
				normal.Set(i, i, normal.At(i, i)*(1+damping)+minDamping)
			}
			if err := delta.SolveVec(normal, grad); err != nil {
				damping *= 10
				if damping > maxDamping {
					return nil, &DivergenceError{Evaluations: evals, Cost: cost, Reason: "singular normal equations"}
				}
				continue
			}

			moved := false
			for i := range np {
				trial[i] = params[i] + delta.AtVec(i)
			}
			clampParams(trial, p.Lower, p.Upper)
			for i := range np {
				if math.Abs(trial[i]-params[i]) > 1e-12*(1+math.Abs(params[i])) {
					moved = true
					break
				}
			}
			if !moved {
				// Pinned against the bounds; nothing left to try.
				return &Result{Params: params, Cost: cost, Evaluations: evals, Iterations: iter}, nil
			}

			if !evaluate(trial, trialModel) {
				return nil, &DivergenceError{Evaluations: evals, Cost: cost, Reason: "evaluation budget exhausted"}
			}
			trialCost := residuals(p.Observed, trialModel, trialResid)

			if !math.IsNaN(trialCost) && trialCost < cost {
				drop := cost - trialCost
				copy(params, trial)
				copy(model, trialModel)
				copy(resid, trialResid)
				cost = trialCost
				damping = math.Max(damping*0.1, minDamping)

				if drop <= s.Tolerance*math.Max(cost, 1e-12) || cost <= 1e-20*float64(n) {
					return &Result{Params: params, Cost: cost, Evaluations: evals, Iterations: iter}, nil
				}
				break
			}

			damping *= 10
			if damping > maxDamping {
				return nil, &DivergenceError{Evaluations: evals, Cost: cost, Reason: "damping overflow without improvement"}
			}
		}
	}
}

// residuals fills r with observed-model and returns the sum of squares.
func residuals(observed, model, r []float64) float64 {
	cost := 0.0
	for i := range observed {
		r[i] = observed[i] - model[i]
		cost += r[i] * r[i]
	}
	return cost
}

// jacobian fills jac with forward-difference partials of the model,
// flipping to a backward step when a parameter sits at its upper bound.
func jacobian(jac *mat.Dense, params, model, perturbed []float64, p Problem, evaluate func(ps, out []float64) bool) bool {
	np := len(params)
	work := make([]float64, np)
	copy(work, params)

	for j := range np {
		h := sqrtEps * math.Max(math.Abs(params[j]), 1)
		if p.Upper != nil && params[j]+h > p.Upper[j] {
			h = -h
		}
		work[j] = params[j] + h
		if !evaluate(work, perturbed) {
			return false
		}
		for i := range model {
			jac.Set(i, j, (perturbed[i]-model[i])/h)
		}
		work[j] = params[j]
	}
	return true
}

func clampParams(params, lower, upper []float64) {
	for i := range params {
		if lower != nil && params[i] < lower[i] {
			params[i] = lower[i]
		}
		if upper != nil && params[i] > upper[i] {
			params[i] = upper[i]
		}
	}
}
