package specfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "initializing", Initializing.String())
	assert.Equal(t, "fitting_aperiodic", FittingAperiodic.String())
	assert.Equal(t, "fitting_periodic", FittingPeriodic.String())
	assert.Equal(t, "converged", Converged.String())
	assert.Equal(t, "max_iterations_reached", MaxIterationsReached.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, Initializing.Terminal())
	assert.False(t, FittingAperiodic.Terminal())
	assert.False(t, FittingPeriodic.Terminal())
	assert.True(t, Converged.Terminal())
	assert.True(t, MaxIterationsReached.Terminal())
	assert.True(t, Failed.Terminal())
}
