package corosched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore_TryAcquireRelease(t *testing.T) {
	sched, res := NewScheduler(1, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewSemaphore(2)
	require.Equal(t, Ok, res)

	assert.Equal(t, 2, s.SlotsRemaining())
	assert.Equal(t, Ok, s.TryAcquire())
	assert.Equal(t, Ok, s.TryAcquire())
	assert.Equal(t, Overflow, s.TryAcquire())

	// A successful Release publishes its wake-up by yielding, so the
	// releases run inside a scheduled coroutine.
	co := NewCoroutine(func(co *Coroutine) {
		assert.Equal(t, Ok, s.Release(co))
		assert.Equal(t, 1, s.SlotsRemaining())
		assert.Equal(t, Ok, s.Release(co))
		assert.Equal(t, SemaphoreFull, s.Release(co), "releasing past slotCount must be rejected")
	})
	require.Equal(t, Ok, sched.AddCoro(co))

	sched.Run()
}

func TestSemaphore_AcquireFromISRReportsTimeoutNotOverflow(t *testing.T) {
	sched, res := NewScheduler(1, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewSemaphore(1)
	require.Equal(t, Ok, res)

	assert.Equal(t, Ok, s.AcquireFromISR(sched))
	assert.Equal(t, Timeout, s.AcquireFromISR(sched), "a failed ISR acquire is Timeout, not Overflow")
}

func TestSemaphore_ReleaseFromISRWakesBlockedAcquirer(t *testing.T) {
	sched, res := NewScheduler(1, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewSemaphore(1)
	require.Equal(t, Ok, res)
	require.Equal(t, Ok, s.TryAcquire())

	var acquireResult Result
	waiter := NewCoroutine(func(co *Coroutine) {
		acquireResult = s.Acquire(co, TicksForever)
	}, WithName("waiter"))
	require.Equal(t, Ok, sched.AddCoro(waiter))
	sched.Step() // park the waiter blocked on SinkSemaphoreAcquire

	assert.Equal(t, Ok, s.ReleaseFromISR(sched))
	assert.Equal(t, SemaphoreFull, s.ReleaseFromISR(sched))

	sched.Run()

	assert.Equal(t, Ok, acquireResult)
}

func TestSemaphore_SizeTwoAdmitsExactlyTwoConcurrently(t *testing.T) {
	sched, res := NewScheduler(3, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	sem, res := NewSemaphore(2)
	require.Equal(t, Ok, res)

	var acquiredOrder []string
	makeWorker := func(name string) *Coroutine {
		return NewCoroutine(func(co *Coroutine) {
			require.Equal(t, Ok, sem.Acquire(co, TicksForever))
			acquiredOrder = append(acquiredOrder, name)
			co.Yield()
			require.Equal(t, Ok, sem.Release(co))
		}, WithName(name))
	}

	a, b, c := makeWorker("a"), makeWorker("b"), makeWorker("c")
	require.Equal(t, Ok, sched.AddCoro(a))
	require.Equal(t, Ok, sched.AddCoro(b))
	require.Equal(t, Ok, sched.AddCoro(c))

	sched.Run()

	require.Len(t, acquiredOrder, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, acquiredOrder)
	assert.Equal(t, 2, sem.SlotsRemaining())
}
