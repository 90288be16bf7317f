// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// EventSourceKind is the closed set of events a coroutine (or an external,
// ISR-equivalent notifier) can publish.
type EventSourceKind uint8

const (
	// SourceNoOp never matches any sink; it is the outgoing source of a
	// plain Coroutine.Yield.
	SourceNoOp EventSourceKind = iota
	// SourceElapsedTicks carries a tick delta, synthesized by the scheduler
	// once per step from the platform clock.
	SourceElapsedTicks
	// SourceQueueGet indicates a Queue.Get consumed an item (wakes waiting
	// producers).
	SourceQueueGet
	// SourceQueuePut indicates a Queue.Put inserted an item (wakes waiting
	// consumers).
	SourceQueuePut
	// SourceEventFlagsSet indicates an EventFlags.Set call.
	SourceEventFlagsSet
	// SourceSemaphoreReleased indicates a Semaphore.Release call.
	SourceSemaphoreReleased
	// SourceMutexReleased indicates a Mutex.Release call.
	SourceMutexReleased
	// SourceCoroFinished indicates a coroutine's entrypoint returned (or it
	// panicked); synthesized automatically, never published by user code.
	SourceCoroFinished
	// SourceStreamBytesRead indicates a Stream.Receive consumed bytes.
	SourceStreamBytesRead
	// SourceStreamBytesWritten indicates a Stream.Send produced bytes.
	SourceStreamBytesWritten
	// SourceCustom carries an application-defined magic number and target,
	// matched against SinkCustom sinks via their predicate callback.
	SourceCustom
)

// EventSource is a single outgoing event, published by a coroutine (or an
// external notifier) on a NOTIFY-bearing yield.
type EventSource struct {
	Kind EventSourceKind
	// Target identifies the primitive this source concerns (Queue,
	// EventFlags, Mutex, Semaphore, Stream, or Coroutine); compared for
	// identity against a sink's Target. Unused for SourceNoOp.
	Target any
	// Ticks carries the elapsed delta for SourceElapsedTicks.
	Ticks Ticks
	// Magic and CustomTarget are used only for SourceCustom; CustomTarget is
	// the opaque subject a Custom sink's predicate is invoked with.
	Magic        uint64
	CustomTarget any
}

// EventSinkKind is the closed set of conditions a coroutine can block on.
type EventSinkKind uint8

const (
	// SinkNone means "no condition" — used for the primary slot when the
	// coroutine is only waiting on a timeout (or on the other slot).
	SinkNone EventSinkKind = iota
	// SinkDelay blocks until TicksRemaining reaches zero, or never (if it
	// equals TicksForever).
	SinkDelay
	// SinkQueueNotFull blocks a producer until Target (a *Queue) has space.
	SinkQueueNotFull
	// SinkQueueNotEmpty blocks a consumer until Target (a *Queue) has an
	// item.
	SinkQueueNotEmpty
	// SinkEventFlagsGet blocks until Target's (an *EventFlags) predicate is
	// satisfied; the primitive re-checks its own mask/wait-for-all logic
	// after the sink triggers.
	SinkEventFlagsGet
	// SinkSemaphoreAcquire blocks until Target (a *Semaphore) may have a
	// slot available; the primitive re-checks slotsRemaining > 0.
	SinkSemaphoreAcquire
	// SinkMutexAcquire blocks until Target (a *Mutex) may be free; the
	// primitive re-checks owner == nil.
	SinkMutexAcquire
	// SinkWaitCoroFinish blocks until Target (a *Coroutine) finishes.
	SinkWaitCoroFinish
	// SinkStreamNotFull blocks a producer until Target (a *Stream) has free
	// space.
	SinkStreamNotFull
	// SinkStreamNotEmpty blocks a consumer until Target (a *Stream) has
	// bytes available.
	SinkStreamNotEmpty
	// SinkCustom blocks until an application-defined Predicate, given a
	// matching-magic SourceCustom, returns true.
	SinkCustom
)

// EventSink is a single incoming condition, installed by a coroutine before
// a WAIT-bearing yield.
type EventSink struct {
	Kind   EventSinkKind
	Target any
	// TicksRemaining is used only by SinkDelay; decremented by
	// SourceElapsedTicks deltas, never by anything else.
	TicksRemaining Ticks
	// Magic and Predicate are used only by SinkCustom.
	Magic     uint64
	Predicate func(sink EventSink, source EventSource) bool
}

// matchSourceSink applies the total source->sink match rule (spec.md §3):
// every (source kind, sink kind) pair not listed here is a miss. It returns
// whether the sink triggers, and the sink's possibly-updated value (only
// SinkDelay's TicksRemaining is ever mutated by a miss — every other sink is
// returned unchanged until it triggers).
func matchSourceSink(source EventSource, sink EventSink) (triggered bool, updated EventSink) {
	switch sink.Kind {
	case SinkDelay:
		if source.Kind != SourceElapsedTicks {
			return false, sink
		}
		if sink.TicksRemaining == TicksForever {
			return false, sink
		}
		remaining := sink.TicksRemaining - source.Ticks
		if remaining < 0 {
			remaining = 0
		}
		sink.TicksRemaining = remaining
		return remaining <= 0, sink

	case SinkQueueNotFull:
		return source.Kind == SourceQueueGet && sameTarget(source.Target, sink.Target), sink

	case SinkQueueNotEmpty:
		return source.Kind == SourceQueuePut && sameTarget(source.Target, sink.Target), sink

	case SinkEventFlagsGet:
		return source.Kind == SourceEventFlagsSet && sameTarget(source.Target, sink.Target), sink

	case SinkSemaphoreAcquire:
		return source.Kind == SourceSemaphoreReleased && sameTarget(source.Target, sink.Target), sink

	case SinkMutexAcquire:
		return source.Kind == SourceMutexReleased && sameTarget(source.Target, sink.Target), sink

	case SinkWaitCoroFinish:
		return source.Kind == SourceCoroFinished && sameTarget(source.Target, sink.Target), sink

	case SinkStreamNotFull:
		return source.Kind == SourceStreamBytesRead && sameTarget(source.Target, sink.Target), sink

	case SinkStreamNotEmpty:
		return source.Kind == SourceStreamBytesWritten && sameTarget(source.Target, sink.Target), sink

	case SinkCustom:
		if source.Kind != SourceCustom || source.Magic != sink.Magic || sink.Predicate == nil {
			return false, sink
		}
		return sink.Predicate(sink, source), sink

	case SinkNone:
		return false, sink

	default:
		return false, sink
	}
}

// sameTarget compares two sink/source targets by identity. Primitives always
// pass themselves (a pointer) as the target, so a plain == comparison over
// the any values is sufficient and allocation-free for the common case of
// pointer-shaped targets.
func sameTarget(a, b any) bool {
	return a == b
}
