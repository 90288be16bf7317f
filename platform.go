// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import (
	"sync"
	"time"
)

// Ticks is a monotonic platform tick count. Negative values are reserved for
// sentinels (see TicksForever); callers never receive a negative delta from
// a Platform's Clock.
type Ticks int64

// TicksForever marks a Delay sink that never expires on its own — only an
// explicit Notify (or the coroutine's other sink) can wake it.
const TicksForever Ticks = -1

const (
	// DefaultStackSize is used by NewCoroutine when no WithStackSize option
	// is supplied. It has no effect on goroutinePlatform (a goroutine's
	// stack grows on demand) but is kept so a Platform backed by real
	// fixed-size stacks has a sane default to size against.
	DefaultStackSize = 32 * 1024
	// MinStackSize is the smallest stack size NewCoroutine accepts.
	MinStackSize = 2 * 1024
)

// StackContext is an opaque, Platform-owned saved-execution-context handle.
// goroutinePlatform's implementation is a pointer to a goroutineContext; a
// Platform backed by real fiber/ucontext primitives would instead hold
// whatever register-save-area type its OS exposes.
type StackContext any

// EntryFunc is a coroutine's body. It receives the Coroutine so it can call
// Yield-family methods on itself, and runs until it returns (or panics, which
// the scheduler maps to a synthetic CoroFinished source for the
// coroutine's waiters).
type EntryFunc func(co *Coroutine)

// Platform abstracts everything this package needs from the underlying
// execution environment: starting and resuming a stackful task, a monotonic
// clock, and critical-section brackets for code paths that must not be
// interrupted (e.g. an ISR-equivalent Notify racing the scheduler).
//
// A Platform is shared by every Coroutine in a Scheduler and must be safe
// for that Scheduler's own use (the default implementation additionally
// tolerates calls from other goroutines standing in for interrupt context).
type Platform interface {
	// MakeContext allocates whatever backs a Coroutine's saved execution
	// state, wraps entry so it receives co, and returns a handle Resume and
	// Destroy can use. stackSize is advisory for implementations with a
	// fixed-size stack; it is ignored by goroutinePlatform.
	MakeContext(co *Coroutine, entry EntryFunc, stackSize int) (StackContext, Result)

	// Resume transfers control to ctx until it next yields or finishes, then
	// returns. It must not be called concurrently for the same ctx.
	Resume(ctx StackContext)

	// Suspend transfers control back to whoever called Resume. It is called
	// from inside the running coroutine's own goroutine/fiber, never by the
	// scheduler directly.
	Suspend(ctx StackContext)

	// Destroy releases any resources MakeContext allocated. Safe to call on
	// a context that has already finished running.
	Destroy(ctx StackContext)

	// Now returns the current tick count. Must be monotonic non-decreasing.
	Now() Ticks

	// TicksPerMilli reports the clock's resolution: how many ticks make up
	// one millisecond.
	TicksPerMilli() Ticks

	// EnterCritical and ExitCritical bracket a region that must run without
	// interleaving against NotifyFromISR-equivalent callers. Implementations
	// backed by real interrupt controllers would disable/re-enable
	// interrupts here; goroutinePlatform uses a mutex.
	EnterCritical()
	ExitCritical()
}

// goroutinePlatform is the default Platform: each Coroutine is backed by a
// dedicated goroutine parked on an unbuffered handoff channel, so exactly one
// of {scheduler, coroutine} runs at any instant, the same invariant a
// manually swapped stack/register context gives a single-core scheduler.
// This directly follows the fiber-API-backed implementation note for
// platforms without manual stack control.
type goroutinePlatform struct {
	startTime time.Time
	mu        sync.Mutex
}

// NewGoroutinePlatform constructs the default Platform implementation.
func NewGoroutinePlatform() Platform {
	return &goroutinePlatform{startTime: time.Now()}
}

type goroutineContext struct {
	resume  chan struct{}
	suspend chan struct{}
	done    bool
}

func (p *goroutinePlatform) MakeContext(co *Coroutine, entry EntryFunc, _ int) (StackContext, Result) {
	gc := &goroutineContext{
		resume:  make(chan struct{}),
		suspend: make(chan struct{}),
	}
	go func() {
		<-gc.resume
		func() {
			defer func() {
				if r := recover(); r != nil {
					co.panicValue = r
				}
			}()
			entry(co)
		}()
		gc.done = true
		co.signal = SignalNotifyAndDone
		co.outgoing = EventSource{Kind: SourceCoroFinished, Target: co}
		gc.suspend <- struct{}{}
	}()
	return gc, Ok
}

func (p *goroutinePlatform) Resume(ctx StackContext) {
	gc := ctx.(*goroutineContext)
	gc.resume <- struct{}{}
	<-gc.suspend
}

func (p *goroutinePlatform) Suspend(ctx StackContext) {
	gc := ctx.(*goroutineContext)
	gc.suspend <- struct{}{}
	<-gc.resume
}

func (p *goroutinePlatform) Destroy(ctx StackContext) {
	// The backing goroutine either already returned (done == true, channels
	// left to the garbage collector) or was never resumed to completion,
	// in which case it is intentionally leaked parked on <-gc.resume,
	// identical to abandoning a suspended fiber whose stack is never torn
	// down. Coroutines are expected to run to completion; see Scheduler.Run.
}

func (p *goroutinePlatform) Now() Ticks {
	return Ticks(time.Since(p.startTime))
}

func (p *goroutinePlatform) TicksPerMilli() Ticks {
	return Ticks(time.Millisecond)
}

func (p *goroutinePlatform) EnterCritical() {
	p.mu.Lock()
}

func (p *goroutinePlatform) ExitCritical() {
	p.mu.Unlock()
}
