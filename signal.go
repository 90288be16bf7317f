// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// CoroSignal is the four-valued summary a coroutine passes to the scheduler
// on every yield, describing what the scheduler must do with the coroutine's
// outgoing EventSource and incoming EventSink slots.
type CoroSignal uint8

const (
	// SignalWait indicates the coroutine's sinks have been configured and it
	// must not be resumed until one of them triggers. No outgoing source is
	// published.
	SignalWait CoroSignal = iota

	// SignalNotify is a basic yield: the coroutine goes back to READY, and
	// its outgoing EventSource (possibly NoOp) is routed to every other
	// coroutine's sinks.
	SignalNotify

	// SignalNotifyAndWait combines SignalNotify and SignalWait: the outgoing
	// source is routed, and the coroutine also installs sinks and blocks.
	SignalNotifyAndWait

	// SignalNotifyAndDone indicates the coroutine's entrypoint has returned
	// (or panicked); its outgoing source (synthetically CoroFinished) is
	// routed, and the coroutine will never be scheduled again.
	SignalNotifyAndDone
)

// String returns a human-readable name for the signal.
func (s CoroSignal) String() string {
	switch s {
	case SignalWait:
		return "Wait"
	case SignalNotify:
		return "Notify"
	case SignalNotifyAndWait:
		return "NotifyAndWait"
	case SignalNotifyAndDone:
		return "NotifyAndDone"
	default:
		return "Unknown"
	}
}
