// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import (
	"sync/atomic"
)

// Scheduler drives a fixed-capacity set of Coroutines with simple
// round-robin fairness: every step, it advances a cursor to the next READY
// coroutine, resumes it until it next yields, then routes whatever it
// published to every other coroutine's sinks. There is no preemption and no
// priority — a coroutine runs until it chooses to yield.
type Scheduler struct {
	platform Platform
	logger   *Logger

	coros    []*Coroutine
	capacity int
	cursor   int

	external *externalRing
	lastTick Ticks
	started  bool

	current atomic.Pointer[Coroutine]

	metrics schedulerMetrics
}

// SchedulerOption configures a Scheduler at construction time.
type SchedulerOption func(*Scheduler)

// WithExternalRingCapacity overrides defaultExternalRingCapacity for the
// bounded ring backing NotifyFromISR. Rounded up to the next power of two.
func WithExternalRingCapacity(capacity int) SchedulerOption {
	return func(s *Scheduler) {
		s.external = newExternalRing(capacity)
	}
}

// WithLogger attaches a Logger. Without this option, Scheduler logs nothing.
func WithLogger(logger *Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler constructs a Scheduler with room for up to capacity
// coroutines. platform must not be nil; pass NewGoroutinePlatform() for the
// default behavior.
func NewScheduler(capacity int, platform Platform, opts ...SchedulerOption) (*Scheduler, Result) {
	if capacity < 1 {
		return nil, InvalidValue
	}
	if platform == nil {
		return nil, InvalidValue
	}
	s := &Scheduler{
		platform: platform,
		logger:   noopLogger(),
		coros:    make([]*Coroutine, 0, capacity),
		capacity: capacity,
		external: newExternalRing(defaultExternalRingCapacity),
		lastTick: platform.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, Ok
}

// AddCoro binds co to this Scheduler's Platform and adds it to the
// round-robin slot array. Returns Overflow if the Scheduler is already at
// capacity.
func (s *Scheduler) AddCoro(co *Coroutine) Result {
	if len(s.coros) >= s.capacity {
		return Overflow
	}
	if res := co.bind(s.platform); res != Ok {
		return res
	}
	s.coros = append(s.coros, co)
	return Ok
}

// RemoveCoro drops a finished coroutine from the slot array, releasing its
// Platform resources. Returns InvalidState if co has not reached
// CoroFinished.
func (s *Scheduler) RemoveCoro(co *Coroutine) Result {
	if co.State() != CoroFinished {
		return InvalidState
	}
	for i, c := range s.coros {
		if c == co {
			s.platform.Destroy(co.ctx)
			s.coros = append(s.coros[:i], s.coros[i+1:]...)
			if s.cursor > i {
				s.cursor--
			}
			return Ok
		}
	}
	return InvalidValue
}

// GetCurrentCoroutine returns the coroutine this Scheduler is currently
// resuming, or nil outside of a dispatch.
func (s *Scheduler) GetCurrentCoroutine() *Coroutine {
	return s.current.Load()
}

// Metrics returns a point-in-time snapshot of this Scheduler's counters.
func (s *Scheduler) Metrics() SchedulerMetrics {
	return s.metrics.snapshot()
}

// Notify routes source to every blocked coroutine's sinks immediately. It is
// intended for use from inside a running coroutine's own goroutine (the
// normal case is Coroutine.Notify, which also yields); calling it from
// another goroutine concurrently with Run is a race — use NotifyFromISR
// instead.
func (s *Scheduler) Notify(source EventSource) {
	s.routeSource(source)
}

// NotifyFromISR enqueues source onto the bounded external ring for the
// scheduler's own Run loop to route on its next step. Safe to call
// concurrently from any goroutine, standing in for an interrupt context that
// can preempt the scheduler at any point. Returns NotifyFailed if the ring
// is full.
func (s *Scheduler) NotifyFromISR(source EventSource) Result {
	if !s.external.Push(source) {
		s.metrics.notifyFailures.Add(1)
		logNotifyFailed(s.logger, source)
		return NotifyFailed
	}
	return Ok
}

// Run drives every added coroutine to completion, returning once all of them
// have reached CoroFinished. It must be called from exactly one goroutine
// and must not be called re-entrantly (a coroutine calling Run on its own
// Scheduler, or any other, is unsupported).
func (s *Scheduler) Run() {
	currentScheduler.Store(s)
	defer currentScheduler.Store(nil)

	s.started = true
	for !s.allFinished() {
		s.step()
	}
}

// Step runs a single round of the scheduler's dispatch algorithm: synthesize
// an elapsed-ticks event, drain pending external notifications, then dispatch
// at most one READY coroutine. Exposed so callers that want to interleave
// their own work with the scheduler (rather than blocking inside Run) can
// drive it manually; Run is simply a loop calling Step until every
// coroutine has finished.
func (s *Scheduler) Step() {
	s.step()
}

func (s *Scheduler) allFinished() bool {
	if len(s.coros) == 0 {
		return true
	}
	for _, co := range s.coros {
		if co.State() != CoroFinished {
			return false
		}
	}
	return true
}

func (s *Scheduler) step() {
	s.metrics.steps.Add(1)

	now := s.platform.Now()
	delta := now - s.lastTick
	s.lastTick = now
	if delta > 0 {
		s.metrics.ticksElapsed.Add(int64(delta))
		s.routeSource(EventSource{Kind: SourceElapsedTicks, Ticks: delta})
	}

	for {
		source, ok := s.external.Pop()
		if !ok {
			break
		}
		s.routeSource(source)
	}

	co := s.nextReady()
	if co == nil {
		return
	}
	s.dispatch(co)
}

// nextReady advances the round-robin cursor to the next coroutine in
// CoroReady, or returns nil if none are ready.
func (s *Scheduler) nextReady() *Coroutine {
	n := len(s.coros)
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		idx := (s.cursor + i) % n
		if s.coros[idx].State() == CoroReady {
			s.cursor = (idx + 1) % n
			return s.coros[idx]
		}
	}
	return nil
}

func (s *Scheduler) dispatch(co *Coroutine) {
	s.metrics.dispatches.Add(1)
	co.state.Store(CoroRunning)
	s.current.Store(co)
	logDispatch(s.logger, co)

	s.platform.Resume(co.ctx)

	s.current.Store(nil)

	signal := co.signal
	logBlocked(s.logger, co, signal)

	switch signal {
	case SignalNotify:
		co.state.Store(CoroReady)
		s.routeSource(co.outgoing)

	case SignalWait:
		co.state.Store(CoroBlocked)

	case SignalNotifyAndWait:
		co.state.Store(CoroBlocked)
		s.routeSource(co.outgoing)

	case SignalNotifyAndDone:
		co.state.Store(CoroFinished)
		s.metrics.finished.Add(1)
		logFinished(s.logger, co)
		s.routeSource(co.outgoing)
	}
}

// routeSource applies source to every blocked coroutine's sinks, waking the
// first slot (primary before timeout) that matchSourceSink reports as
// triggered. SinkDelay sinks that don't trigger still have their
// TicksRemaining decremented, so a SourceElapsedTicks pass must visit every
// blocked coroutine regardless of what they're waiting for.
func (s *Scheduler) routeSource(source EventSource) {
	for _, co := range s.coros {
		if co.state.Load() != CoroBlocked {
			continue
		}
		woke := -1
		for slot := 0; slot < len(co.sinks); slot++ {
			sink := co.sinks[slot]
			if sink.Kind == SinkNone {
				continue
			}
			triggered, updated := matchSourceSink(source, sink)
			co.sinks[slot] = updated
			if triggered && woke == -1 {
				woke = slot
			}
		}
		if woke != -1 {
			co.woke = woke
			co.state.Store(CoroReady)
		}
	}
}
