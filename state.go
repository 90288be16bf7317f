// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import "sync/atomic"

// CoroState is the lifecycle state of a Coroutine.
//
// State Machine:
//
//	READY    -> RUNNING    [Scheduler.step dispatches it]
//	RUNNING  -> READY      [yields with NOTIFY]
//	RUNNING  -> BLOCKED    [yields with WAIT or NOTIFY_AND_WAIT]
//	RUNNING  -> FINISHED   [yields with NOTIFY_AND_DONE, or entrypoint returns]
//	BLOCKED  -> READY      [Scheduler.Notify finds a triggering sink]
//	FINISHED -> (terminal; never re-enters)
//
// CoroState is backed by an atomic so Notify (called by the scheduler) and
// any concurrent inspection (metrics, tests) never race, even though only
// the scheduler goroutine ever mutates it.
type CoroState uint32

const (
	// CoroReady indicates the coroutine is eligible for dispatch.
	CoroReady CoroState = iota
	// CoroRunning indicates the coroutine currently holds the CPU.
	CoroRunning
	// CoroBlocked indicates the coroutine is waiting on its sinks.
	CoroBlocked
	// CoroFinished indicates the coroutine's entrypoint has returned (or
	// panicked) and it will never be dispatched again.
	CoroFinished
)

// String returns a human-readable name for the state.
func (s CoroState) String() string {
	switch s {
	case CoroReady:
		return "Ready"
	case CoroRunning:
		return "Running"
	case CoroBlocked:
		return "Blocked"
	case CoroFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// atomicCoroState is a thin atomic wrapper around CoroState.
//
// PERFORMANCE: no transition validation is performed on Store; callers
// (coroutine.go, scheduler.go) already enforce the state machine's legal
// transitions, so this trusts the stored value the same way the scheduler's
// own atomic state does.
type atomicCoroState struct {
	v atomic.Uint32
}

func newAtomicCoroState(initial CoroState) *atomicCoroState {
	s := &atomicCoroState{}
	s.v.Store(uint32(initial))
	return s
}

func (s *atomicCoroState) Load() CoroState {
	return CoroState(s.v.Load())
}

func (s *atomicCoroState) Store(state CoroState) {
	s.v.Store(uint32(state))
}

func (s *atomicCoroState) CompareAndSwap(from, to CoroState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
