package corosched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicCoroState_CompareAndSwap(t *testing.T) {
	s := newAtomicCoroState(CoroReady)
	assert.True(t, s.CompareAndSwap(CoroReady, CoroRunning))
	assert.Equal(t, CoroRunning, s.Load())
	assert.False(t, s.CompareAndSwap(CoroReady, CoroBlocked), "stale expected value must fail")
}

func TestCoroState_String(t *testing.T) {
	assert.Equal(t, "Ready", CoroReady.String())
	assert.Equal(t, "Running", CoroRunning.String())
	assert.Equal(t, "Blocked", CoroBlocked.String())
	assert.Equal(t, "Finished", CoroFinished.String())
}

func TestResult_ErrorImplementsErrorInterface(t *testing.T) {
	var err error = Timeout
	assert.Equal(t, "corosched: Timeout", err.Error())
	assert.True(t, QueueFull.String() == "QueueFull")
	assert.True(t, Ok.IsOk())
	assert.False(t, Timeout.IsOk())
}
