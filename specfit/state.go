package specfit

// State is the iteration controller's position in the fitting cycle.
type State int

const (
	Initializing State = iota
	FittingAperiodic
	FittingPeriodic
	Converged
	MaxIterationsReached
	Failed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case FittingAperiodic:
		return "fitting_aperiodic"
	case FittingPeriodic:
		return "fitting_periodic"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations_reached"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a fit. Converged and
// MaxIterationsReached both yield a usable result; MaxIterationsReached is a
// degraded-quality outcome, not an error.
func (s State) Terminal() bool {
	switch s {
	case Converged, MaxIterationsReached, Failed:
		return true
	}
	return false
}
