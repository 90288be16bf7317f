// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import "fmt"

// Result is a closed set of result codes returned by corosched operations,
// mirroring the category/code split used by the runtime this package was
// distilled from: a small general-purpose space shared by every primitive.
//
// Result implements error so it can be returned, wrapped, and matched with
// errors.Is without a second error type for "the operation didn't fail, but
// didn't fully succeed either" (Timeout, QueueFull, ...).
type Result uint32

const (
	// Ok indicates the operation completed successfully.
	Ok Result = iota

	// NoMem indicates a dynamic allocation failed during construction.
	NoMem

	// InvalidState indicates the operation cannot be performed in the
	// caller's current state (e.g. re-acquiring a non-reentrant Mutex).
	InvalidState

	// InvalidValue indicates a supplied value is outside its valid range
	// (e.g. a non-power-of-two Stream capacity).
	InvalidValue

	// Overflow indicates an operation that would exceed a primitive's
	// capacity was rejected (e.g. adding a coroutine to a Scheduler that is
	// already at capacity, or Semaphore.TryAcquire with no free slot).
	Overflow

	// Timeout indicates a waiting operation's Delay sink fired before its
	// primary condition was satisfied.
	Timeout

	// NotifyFailed indicates the scheduler's bounded external-event ring
	// was full. This is a critical configuration error: the caller must
	// either increase the ring size or reduce the rate of external events,
	// since silently dropping the event could leave a waiter blocked
	// forever.
	NotifyFailed

	// QueueEmpty indicates a non-waiting Queue.TryGet or Queue.GetNoWait
	// found the queue empty.
	QueueEmpty

	// QueueFull indicates a non-waiting Queue.TryPut or Queue.PutNoWait
	// found the queue full.
	QueueFull

	// MutexNotOwner indicates Mutex.Release was called by a coroutine while
	// a different coroutine owns the mutex.
	MutexNotOwner

	// MutexOccupied indicates a non-waiting Mutex.TryAcquire found the
	// mutex already held.
	MutexOccupied

	// SemaphoreFull indicates Semaphore.Release was called when
	// slotsRemaining already equalled slotCount.
	SemaphoreFull

	// StreamEmpty indicates a non-waiting Stream receive (TryReceive,
	// ReceiveNoWait, ReceiveFromISR) found no bytes available.
	StreamEmpty

	// StreamFull indicates a non-waiting Stream send (TrySend, SendNoWait,
	// SendFromISR) could not write all of its bytes (for SendNoWait and
	// SendFromISR: none of them).
	StreamFull
)

// resultNames holds the String() representation for each Result; kept as a
// plain slice (not a map) since the set is small, dense, and closed.
var resultNames = [...]string{
	Ok:            "Ok",
	NoMem:         "NoMem",
	InvalidState:  "InvalidState",
	InvalidValue:  "InvalidValue",
	Overflow:      "Overflow",
	Timeout:       "Timeout",
	NotifyFailed:  "NotifyFailed",
	QueueEmpty:    "QueueEmpty",
	QueueFull:     "QueueFull",
	MutexNotOwner: "MutexNotOwner",
	MutexOccupied: "MutexOccupied",
	SemaphoreFull: "SemaphoreFull",
	StreamEmpty:   "StreamEmpty",
	StreamFull:    "StreamFull",
}

// String returns the Result's name, or a numeric fallback for an unknown
// value.
func (r Result) String() string {
	if int(r) >= 0 && int(r) < len(resultNames) && resultNames[r] != "" {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", uint32(r))
}

// Error implements the error interface. Ok.Error() still returns a string
// (as required by the interface) but callers should check r == Ok /
// r.IsOk() rather than treat Ok as an error value.
func (r Result) Error() string {
	return "corosched: " + r.String()
}

// IsOk reports whether r is Ok.
func (r Result) IsOk() bool {
	return r == Ok
}
