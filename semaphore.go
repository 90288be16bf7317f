// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// Semaphore is a counting semaphore: slotsRemaining is bounded to
// [0, slotCount], initialized to slotCount (every slot free). Release past
// slotCount is rejected with SemaphoreFull rather than clamped, since that
// almost always indicates a mismatched Acquire/Release pair.
type Semaphore struct {
	slotsRemaining int
	slotCount      int
}

// NewSemaphore constructs a Semaphore with slotCount slots, all initially
// free.
func NewSemaphore(slotCount int) (*Semaphore, Result) {
	if slotCount < 1 {
		return nil, InvalidValue
	}
	return &Semaphore{slotsRemaining: slotCount, slotCount: slotCount}, Ok
}

// SlotsRemaining returns the number of currently available slots.
func (s *Semaphore) SlotsRemaining() int {
	return s.slotsRemaining
}

// TryAcquire takes one slot without blocking, returning Overflow if none are
// free.
func (s *Semaphore) TryAcquire() Result {
	if s.slotsRemaining == 0 {
		return Overflow
	}
	s.slotsRemaining--
	return Ok
}

// Acquire blocks the calling coroutine until a slot is free, subject to
// timeoutTicks.
func (s *Semaphore) Acquire(co *Coroutine, timeoutTicks Ticks) Result {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	for {
		if res := s.TryAcquire(); res == Ok {
			return Ok
		}
		var slot int
		slot, timeout = co.WaitTimeout(EventSink{Kind: SinkSemaphoreAcquire, Target: s}, timeout)
		if slot == SlotTimeout {
			return Timeout
		}
	}
}

// Release returns one slot and wakes a waiting acquirer. Returns
// SemaphoreFull if every slot is already free.
func (s *Semaphore) Release(co *Coroutine) Result {
	if s.slotsRemaining == s.slotCount {
		return SemaphoreFull
	}
	s.slotsRemaining++
	co.Notify(EventSource{Kind: SourceSemaphoreReleased, Target: s})
	return Ok
}

// AcquireFromISR makes one non-blocking attempt to take a slot, routed
// through sched's ISR-safe path. Unlike TryAcquire, a failed attempt reports
// Timeout rather than Overflow: semaphore_acquire_from_isr's only retvals are
// RES_OK and RES_TIMEOUT, since an interrupt context has no notion of a
// capacity violation, only "a slot wasn't immediately available."
func (s *Semaphore) AcquireFromISR(sched *Scheduler) Result {
	sched.platform.EnterCritical()
	res := s.TryAcquire()
	sched.platform.ExitCritical()
	if res != Ok {
		return Timeout
	}
	return Ok
}

// ReleaseFromISR returns one slot, routed through sched's ISR-safe notify
// path instead of Coroutine.Notify. Returns SemaphoreFull if every slot is
// already free, or NotifyFailed if the scheduler's external ring couldn't
// accept the wake-up. Grounded on semaphore_release_from_isr.
func (s *Semaphore) ReleaseFromISR(sched *Scheduler) Result {
	sched.platform.EnterCritical()
	full := s.slotsRemaining == s.slotCount
	if !full {
		s.slotsRemaining++
	}
	sched.platform.ExitCritical()
	if full {
		return SemaphoreFull
	}
	if notifyRes := sched.NotifyFromISR(EventSource{Kind: SourceSemaphoreReleased, Target: s}); notifyRes != Ok {
		return NotifyFailed
	}
	return Ok
}
