// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package corosched implements a small cooperative multitasking runtime:
// stackful coroutines that yield to a user-space, round-robin scheduler, plus
// a set of inter-coroutine communication primitives (queue, event-flag group,
// mutex, counting semaphore, byte stream) built as thin policies over a
// single uniform event source/sink protocol.
//
// # Architecture
//
// A [Coroutine] is a stackful task with its own saved context, one outgoing
// [EventSource] slot, and two incoming [EventSink] slots (primary, timeout).
// Coroutines yield control to a [Scheduler], which drives exactly one
// coroutine at a time, routes each coroutine's outgoing source to every
// other coroutine's sinks via the match rule in matchSourceSink, and
// synthesizes elapsed-tick events from the platform clock.
//
// Primitives ([Queue], [EventFlags], [Mutex], [Semaphore], [Stream]) are thin
// wrappers: each installs sinks, tests its own predicate, yields, and
// re-tests the predicate on resume, exactly as described for the protocol in
// event.go.
//
// # Platform Support
//
// The stack/context-switch primitive, monotonic clock, and critical-section
// brackets are consumed through the [Platform] interface rather than
// hard-coded. [NewGoroutinePlatform] provides the default implementation: it
// backs each coroutine with a dedicated goroutine parked on an unbuffered
// handoff channel, so only one of {scheduler, coroutine} ever runs — the
// goroutine's own stack substitutes for a manually managed one.
//
// # Thread Safety
//
// The scheduler itself is single-threaded cooperative: [Scheduler.Run] must
// be called from one goroutine and drives everything to completion on it.
// [Scheduler.NotifyFromISR] is the sole exception — it may be called
// concurrently from other goroutines (standing in for interrupt contexts)
// and uses a lock-free ring push rather than the critical-section-bracketed
// path used elsewhere. Every primitive's non-blocking, notify-publishing
// entry points (Queue.PutNoWait/GetNoWait, EventFlags.SetFromISR,
// Semaphore.ReleaseFromISR, Stream.SendNoWait/ReceiveNoWait and their
// *FromISR counterparts) route their wake-up through NotifyFromISR for the
// same reason; Semaphore.AcquireFromISR publishes no wake-up at all.
// EventFlags deliberately has no
// GetFromISR: the event group is single-consumer, and that consumer is
// always a coroutine.
//
// # Usage
//
//	sched, res := corosched.NewScheduler(4, corosched.NewGoroutinePlatform())
//	if res != corosched.Ok {
//		log.Fatal(res)
//	}
//	co := corosched.NewCoroutine(func(co *corosched.Coroutine) {
//		fmt.Println("hello from a coroutine")
//	}, corosched.WithStackSize(corosched.DefaultStackSize))
//	if res := sched.AddCoro(co); res != corosched.Ok {
//		log.Fatal(res)
//	}
//	sched.Run()
//
// # Error Types
//
// Operations return a [Result] code (Ok, Timeout, QueueFull, ...) rather
// than panicking on recoverable local failures. [Result] implements [error]
// so it composes with [errors.Is]. Construction-time failures (NoMem) and
// ring overflow (NotifyFailed) are never silently dropped.
package corosched
