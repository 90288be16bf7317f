// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import "sync/atomic"

// currentScheduler holds the Scheduler actively inside Run on this process,
// written once per Run call and read by package-level helpers that need to
// reach the running coroutine without it being threaded through every call.
//
// Only one Scheduler may be running at a time per process; nesting (a
// coroutine that itself calls Run on another Scheduler) is not supported and
// will corrupt this pointer's bookkeeping.
var currentScheduler atomic.Pointer[Scheduler]

// CurrentScheduler returns the Scheduler currently executing a coroutine on
// this goroutine tree, or nil if none is running.
func CurrentScheduler() *Scheduler {
	return currentScheduler.Load()
}

// CurrentCoroutine returns the coroutine the active Scheduler is currently
// running, or nil if no Scheduler is running.
func CurrentCoroutine() *Coroutine {
	sched := currentScheduler.Load()
	if sched == nil {
		return nil
	}
	return sched.current.Load()
}
