// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// Slot indices into Coroutine's two incoming EventSink slots.
const (
	SlotPrimary = 0
	SlotTimeout = 1
)

// Coroutine is a single stackful task managed by a Scheduler. It is created
// with NewCoroutine and must be added to exactly one Scheduler via
// Scheduler.AddCoro before it can run.
type Coroutine struct {
	name      string
	entry     EntryFunc
	stackSize int
	platform  Platform
	ctx       StackContext

	state *atomicCoroState

	// signal, outgoing and sinks are written by the coroutine's own
	// goroutine immediately before it suspends, and read by the scheduler
	// immediately after Platform.Resume returns — the handoff channels in
	// goroutinePlatform guarantee these never execute concurrently, so no
	// additional synchronization is needed here.
	signal   CoroSignal
	outgoing EventSource
	sinks    [2]EventSink

	// woke is set by the scheduler when a blocked coroutine is woken, to tell
	// it which slot (SlotPrimary or SlotTimeout) triggered its last wait. It
	// starts at -1 and is not reset afterwards, so after a plain Yield or
	// Notify it still holds the slot of the most recent wait.
	woke int

	// panicValue captures a recovered panic from entry, surfaced through
	// Scheduler for diagnostics; the coroutine still transitions to
	// CoroFinished exactly as a normal return would.
	panicValue any

	finished bool
}

// CoroOption configures a Coroutine at construction time.
type CoroOption func(*Coroutine)

// WithStackSize overrides DefaultStackSize. Sizes below MinStackSize are
// clamped up to it. Has no effect under goroutinePlatform.
func WithStackSize(size int) CoroOption {
	return func(co *Coroutine) {
		if size < MinStackSize {
			size = MinStackSize
		}
		co.stackSize = size
	}
}

// WithName attaches a diagnostic name, surfaced in the Scheduler's log
// entries.
func WithName(name string) CoroOption {
	return func(co *Coroutine) {
		co.name = name
	}
}

// NewCoroutine constructs a Coroutine with the given entrypoint. The
// coroutine does not start running until it is added to a Scheduler and that
// Scheduler's Run dispatches it for the first time.
func NewCoroutine(entry EntryFunc, opts ...CoroOption) *Coroutine {
	co := &Coroutine{
		entry:     entry,
		stackSize: DefaultStackSize,
		state:     newAtomicCoroState(CoroReady),
		woke:      -1,
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Name returns the coroutine's diagnostic name, or "" if none was set.
func (co *Coroutine) Name() string {
	return co.name
}

// State returns the coroutine's current lifecycle state.
func (co *Coroutine) State() CoroState {
	return co.state.Load()
}

// bind attaches co to a platform and allocates its backing context. Called
// once by Scheduler.AddCoro.
func (co *Coroutine) bind(platform Platform) Result {
	co.platform = platform
	ctx, res := platform.MakeContext(co, co.entry, co.stackSize)
	if res != Ok {
		return res
	}
	co.ctx = ctx
	return Ok
}

// suspend is the common tail of every yield-family call: it records the
// outgoing signal/source/sinks this coroutine wants processed, hands control
// back to the scheduler, and returns once Resume is called again with the
// slot (if any) that woke it.
func (co *Coroutine) suspend(signal CoroSignal, source EventSource, primary, timeout EventSink) int {
	co.signal = signal
	co.outgoing = source
	co.sinks[SlotPrimary] = primary
	co.sinks[SlotTimeout] = timeout
	co.platform.Suspend(co.ctx)
	return co.woke
}

// Yield gives up the CPU without publishing an event or blocking; the
// coroutine returns to CoroReady and will be dispatched again on a later
// scheduler step.
func (co *Coroutine) Yield() {
	co.suspend(SignalNotify, EventSource{Kind: SourceNoOp}, EventSink{Kind: SinkNone}, EventSink{Kind: SinkNone})
}

// Notify publishes source to every other coroutine's sinks without
// blocking; the coroutine returns to CoroReady.
func (co *Coroutine) Notify(source EventSource) {
	co.suspend(SignalNotify, source, EventSink{Kind: SinkNone}, EventSink{Kind: SinkNone})
}

// Wait installs primary and blocks until it triggers, or until timeoutTicks
// elapse (TicksForever to wait indefinitely). It returns SlotPrimary or
// SlotTimeout depending on which condition fired.
func (co *Coroutine) Wait(primary EventSink, timeoutTicks Ticks) int {
	slot, _ := co.WaitTimeout(primary, EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks})
	return slot
}

// WaitTimeout installs primary and a caller-owned timeout sink, blocking
// until either triggers. Unlike Wait, the timeout sink is not rebuilt from
// scratch: callers retrying a predicate in a loop must carry the returned
// EventSink back into the next call so its TicksRemaining keeps decaying
// across re-waits instead of resetting to the original deadline on every
// iteration (mirroring the original runtime's pattern of installing the
// timeout sink once, before the retry loop, and letting the scheduler
// decrement it in place).
func (co *Coroutine) WaitTimeout(primary, timeout EventSink) (int, EventSink) {
	woke := co.suspend(SignalWait, EventSource{Kind: SourceNoOp}, primary, timeout)
	return woke, co.sinks[SlotTimeout]
}

// NotifyAndWait publishes source and, in the same scheduler step, installs
// primary and blocks exactly as Wait does.
func (co *Coroutine) NotifyAndWait(source EventSource, primary EventSink, timeoutTicks Ticks) int {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	if timeoutTicks == TicksForever {
		timeout = EventSink{Kind: SinkDelay, TicksRemaining: TicksForever}
	}
	return co.suspend(SignalNotifyAndWait, source, primary, timeout)
}

// CheckStack is a diagnostic placeholder for platforms with a real bounded
// stack: goroutinePlatform's backing goroutines grow their stacks on demand
// and are never painted with a sentinel, so this always reports Ok. It is
// kept so callers porting guard-page/high-watermark monitoring code from a
// fixed-stack platform have a stable entry point to call.
func (co *Coroutine) CheckStack() Result {
	return Ok
}

// Join blocks the calling coroutine until target finishes, or until
// timeoutTicks elapse. If target has already finished, it simply yields once
// and returns Ok.
func (co *Coroutine) Join(target *Coroutine, timeoutTicks Ticks) Result {
	if target.State() == CoroFinished {
		co.Yield()
		return Ok
	}
	slot := co.Wait(EventSink{Kind: SinkWaitCoroFinish, Target: target}, timeoutTicks)
	if slot == SlotTimeout {
		return Timeout
	}
	return Ok
}
