// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import "sync/atomic"

// schedulerMetrics holds the atomic counters a Scheduler updates as it runs.
// Kept as a plain struct of atomics (rather than a mutex-guarded snapshot)
// since Steps and Dispatches are incremented once per step/dispatch on the
// single Run goroutine, while NotifyFailures can be incremented
// concurrently from NotifyFromISR callers.
type schedulerMetrics struct {
	steps          atomic.Uint64
	dispatches     atomic.Uint64
	notifyFailures atomic.Uint64
	ticksElapsed   atomic.Int64
	finished       atomic.Uint64
}

// SchedulerMetrics is a point-in-time snapshot returned by Scheduler.Metrics.
type SchedulerMetrics struct {
	// Steps counts completed one-step dispatch rounds.
	Steps uint64
	// Dispatches counts coroutine resumes (a step with no READY coroutine
	// still counts toward Steps but not Dispatches).
	Dispatches uint64
	// NotifyFailures counts NotifyFromISR calls (including those made by
	// the primitives' non-blocking entry points) rejected because the
	// external ring was full (see NotifyFailed).
	NotifyFailures uint64
	// TicksElapsed is the cumulative platform tick delta observed across
	// every step.
	TicksElapsed int64
	// Finished counts coroutines that have reached CoroFinished.
	Finished uint64
}

func (m *schedulerMetrics) snapshot() SchedulerMetrics {
	return SchedulerMetrics{
		Steps:          m.steps.Load(),
		Dispatches:     m.dispatches.Load(),
		NotifyFailures: m.notifyFailures.Load(),
		TicksElapsed:   m.ticksElapsed.Load(),
		Finished:       m.finished.Load(),
	}
}
