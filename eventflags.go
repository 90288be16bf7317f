// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// EventFlags is a 32-bit group of independent flags. Set is additive only —
// it ORs bits in, never clears them; flags are cleared exclusively by a
// successful Get or TryGet call that was configured to consume them
// (GetOptions.ClearOnExit). This many-writers, single-reader shape is why
// Set never blocks: there is nothing for a setter to wait on.
type EventFlags struct {
	bits uint32
}

// NewEventFlags constructs an EventFlags group with all bits initially
// clear.
func NewEventFlags() *EventFlags {
	return &EventFlags{}
}

// Bits returns the current flag bitmap.
func (f *EventFlags) Bits() uint32 {
	return f.bits
}

// Set ORs mask into the group's bits and wakes any coroutine whose Get call
// mask now satisfies.
func (f *EventFlags) Set(co *Coroutine, mask uint32) {
	f.bits |= mask
	co.Notify(EventSource{Kind: SourceEventFlagsSet, Target: f})
}

// SetFromISR ORs mask into the group's bits and wakes any satisfied waiter
// through sched's ISR-safe notify path rather than Coroutine.Notify. There is
// deliberately no GetFromISR: the underlying event group is documented as
// multi-producer, single-consumer with the consumer always a coroutine, so
// only the setter side has an ISR-safe entry point. Returns NotifyFailed if
// the scheduler's external ring couldn't accept the wake-up. Grounded on
// event_set_from_isr.
func (f *EventFlags) SetFromISR(sched *Scheduler, mask uint32) Result {
	sched.platform.EnterCritical()
	f.bits |= mask
	sched.platform.ExitCritical()
	if notifyRes := sched.NotifyFromISR(EventSource{Kind: SourceEventFlagsSet, Target: f}); notifyRes != Ok {
		return NotifyFailed
	}
	return Ok
}

// GetOptions controls how Get evaluates and consumes a mask.
type GetOptions struct {
	// WaitForAll requires every bit in mask to be set; otherwise any one bit
	// satisfies the call.
	WaitForAll bool
	// ClearOnExit clears the matched bits (for WaitForAll, all of mask; for
	// the any-of case, only the bits that were actually set) once the call
	// is satisfied.
	ClearOnExit bool
}

// TryGet evaluates mask against the current bits without blocking,
// returning the matched subset and QueueEmpty-shaped semantics expressed as
// a bool: ok is false if the condition (per opts) is not currently
// satisfied.
func (f *EventFlags) TryGet(mask uint32, opts GetOptions) (matched uint32, ok bool) {
	current := f.bits & mask
	if opts.WaitForAll {
		if current != mask {
			return 0, false
		}
		matched = mask
	} else {
		if current == 0 {
			return 0, false
		}
		matched = current
	}
	if opts.ClearOnExit {
		f.bits &^= matched
	}
	return matched, true
}

// Get blocks the calling coroutine until mask is satisfied according to
// opts, or until timeoutTicks elapse.
func (f *EventFlags) Get(co *Coroutine, mask uint32, opts GetOptions, timeoutTicks Ticks) (matched uint32, res Result) {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	for {
		if m, ok := f.TryGet(mask, opts); ok {
			return m, Ok
		}
		var slot int
		slot, timeout = co.WaitTimeout(EventSink{Kind: SinkEventFlagsGet, Target: f}, timeout)
		if slot == SlotTimeout {
			return 0, Timeout
		}
	}
}
