package corosched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_TryAcquireRelease(t *testing.T) {
	sched, res := NewScheduler(1, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	m := NewMutex()
	other := NewCoroutine(func(co *Coroutine) {})

	// A successful Release publishes its wake-up by yielding, so the
	// holder's calls run inside a scheduled coroutine.
	holder := NewCoroutine(func(holder *Coroutine) {
		assert.Equal(t, Ok, m.TryAcquire(holder))
		assert.Equal(t, InvalidState, m.TryAcquire(holder), "re-acquiring by the owner must be rejected, not reentrant")

		assert.Equal(t, MutexOccupied, m.TryAcquire(other))

		assert.Equal(t, MutexNotOwner, m.Release(other))
		assert.Equal(t, Ok, m.Release(holder))
		assert.Nil(t, m.Owner())
	})
	require.Equal(t, Ok, sched.AddCoro(holder))

	sched.Run()
}

func TestMutex_ReleaseIsIdempotentWhenAlreadyFree(t *testing.T) {
	sched, res := NewScheduler(1, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	m := NewMutex()
	co := NewCoroutine(func(co *Coroutine) {
		assert.Equal(t, Ok, m.Release(co), "releasing an already-unlocked mutex is not an error")
	})
	require.Equal(t, Ok, sched.AddCoro(co))

	sched.Run()

	assert.Nil(t, m.Owner())
}

func TestMutex_AcquireOrdering(t *testing.T) {
	sched, res := NewScheduler(3, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	m := NewMutex()
	var order []string

	owner := NewCoroutine(func(co *Coroutine) {
		require.Equal(t, Ok, m.Acquire(co, TicksForever))
		co.Yield()
		co.Yield()
		order = append(order, "owner-release")
		require.Equal(t, Ok, m.Release(co))
	}, WithName("owner"))

	waiterA := NewCoroutine(func(co *Coroutine) {
		co.Yield()
		require.Equal(t, Ok, m.Acquire(co, TicksForever))
		order = append(order, "a-acquired")
		require.Equal(t, Ok, m.Release(co))
	}, WithName("a"))

	require.Equal(t, Ok, sched.AddCoro(owner))
	require.Equal(t, Ok, sched.AddCoro(waiterA))

	sched.Run()

	assert.Equal(t, []string{"owner-release", "a-acquired"}, order)
}

func TestMutex_AcquireTimesOutWhileHeld(t *testing.T) {
	sched, res := NewScheduler(2, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	m := NewMutex()
	owner := NewCoroutine(func(co *Coroutine) {
		require.Equal(t, Ok, m.Acquire(co, TicksForever))
		co.Wait(EventSink{Kind: SinkWaitCoroFinish, Target: co}, TicksForever)
	})

	var waiterResult Result
	waiter := NewCoroutine(func(co *Coroutine) {
		waiterResult = m.Acquire(co, 1)
	})

	require.Equal(t, Ok, sched.AddCoro(owner))
	require.Equal(t, Ok, sched.AddCoro(waiter))

	// owner blocks forever (waiting on its own finish, which never
	// happens), so Run would never return; step manually until the waiter
	// times out instead.
	for i := 0; i < 1000 && waiter.State() != CoroFinished; i++ {
		sched.Step()
	}

	assert.Equal(t, Timeout, waiterResult)
}
