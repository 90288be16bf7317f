// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import "sync/atomic"

// externalRing is a bounded, fixed-capacity multi-producer single-consumer
// queue of EventSource values. It is the landing zone for
// Scheduler.NotifyFromISR: any number of external goroutines may Push
// concurrently (standing in for interrupt contexts that can preempt each
// other), while only the scheduler's own Run loop ever Pops, once per step.
//
// The slot layout and masked indexing follows the same power-of-two ring
// discipline used elsewhere in this package's ancestry, extended here with a
// per-slot sequence counter (Dmitry Vyukov's bounded MPMC algorithm) so Push
// never needs a lock: a lock here would mean an ISR-equivalent caller could
// block the scheduler, which defeats the point of a separate external-event
// path.
type externalRing struct {
	mask  uint64
	cells []ringCell
	enq   atomic.Uint64
	deq   atomic.Uint64
}

type ringCell struct {
	seq  atomic.Uint64
	data EventSource
}

// defaultExternalRingCapacity is used when a Scheduler is constructed
// without WithExternalRingCapacity.
const defaultExternalRingCapacity = 16

// newExternalRing builds a ring of the given capacity, rounded up to the next
// power of two (a capacity below 1 is treated as 1).
func newExternalRing(capacity int) *externalRing {
	capacity = nextPowerOfTwo(capacity)
	r := &externalRing{
		mask:  uint64(capacity - 1),
		cells: make([]ringCell, capacity),
	}
	for i := range r.cells {
		r.cells[i].seq.Store(uint64(i))
	}
	return r
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Push attempts to enqueue source, returning false if the ring is full. Safe
// to call concurrently from any number of goroutines.
func (r *externalRing) Push(source EventSource) bool {
	pos := r.enq.Load()
	for {
		cell := &r.cells[pos&r.mask]
		seq := cell.seq.Load()
		diff := int64(seq) - int64(pos)
		switch {
		case diff == 0:
			if r.enq.CompareAndSwap(pos, pos+1) {
				cell.data = source
				cell.seq.Store(pos + 1)
				return true
			}
			pos = r.enq.Load()
		case diff < 0:
			return false
		default:
			pos = r.enq.Load()
		}
	}
}

// Pop dequeues one EventSource, returning false if the ring is currently
// empty. Must only be called from the single consumer (the scheduler's Run
// loop).
func (r *externalRing) Pop() (EventSource, bool) {
	pos := r.deq.Load()
	for {
		cell := &r.cells[pos&r.mask]
		seq := cell.seq.Load()
		diff := int64(seq) - int64(pos+1)
		switch {
		case diff == 0:
			if r.deq.CompareAndSwap(pos, pos+1) {
				data := cell.data
				cell.seq.Store(pos + r.mask + 1)
				return data, true
			}
			pos = r.deq.Load()
		case diff < 0:
			return EventSource{}, false
		default:
			pos = r.deq.Load()
		}
	}
}
