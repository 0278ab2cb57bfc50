package specfit

import "fmt"

// Stage names the fitting stage a failure came from.
type Stage string

const (
	StageAperiodic Stage = "aperiodic"
	StagePeriodic  Stage = "periodic"
)

// UnfitSpectrumError is the terminal failure surfaced when either fitting
// stage diverges. It carries the stage, the iteration it happened on, and
// the best partial result obtained before the failure (nil when the very
// first aperiodic fit diverged). It is never retried internally; the caller
// decides whether to retry with adjusted configuration.
type UnfitSpectrumError struct {
	Stage     Stage
	Iteration int
	Partial   *Result
	Err       error
}

func (e *UnfitSpectrumError) Error() string {
	return fmt.Sprintf("spectrum could not be fit: %s stage diverged on iteration %d: %v",
		e.Stage, e.Iteration, e.Err)
}

func (e *UnfitSpectrumError) Unwrap() error {
	return e.Err
}
