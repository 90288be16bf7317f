// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

import (
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used throughout this package: a
// logiface.Logger wired to stumpy's JSON event backend. Scheduler logs
// through it: each dispatch and yield (Debug), each coroutine finishing
// (Info, or Err when it finished via a panic), and each NotifyFromISR
// rejected by a full external ring (Warning). The primitives do not log.
type Logger = logiface.Logger[*stumpy.Event]

// NewLogger builds a Logger writing newline-delimited JSON to w. Pass nil to
// use os.Stderr, matching stumpy's own default.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
	)
}

// noopLogger discards everything; used when a Scheduler is constructed
// without WithLogger.
func noopLogger() *Logger {
	return logiface.New[*stumpy.Event]()
}

func logDispatch(logger *Logger, co *Coroutine) {
	logger.Debug().
		Str(`coroutine`, co.name).
		Str(`state`, co.State().String()).
		Log(`dispatching coroutine`)
}

func logBlocked(logger *Logger, co *Coroutine, signal CoroSignal) {
	logger.Debug().
		Str(`coroutine`, co.name).
		Str(`signal`, signal.String()).
		Log(`coroutine yielded`)
}

func logFinished(logger *Logger, co *Coroutine) {
	if co.panicValue != nil {
		logger.Err().
			Str(`coroutine`, co.name).
			Str(`panic`, formatPanic(co.panicValue)).
			Log(`coroutine finished via panic`)
		return
	}
	logger.Info().
		Str(`coroutine`, co.name).
		Log(`coroutine finished`)
}

func logNotifyFailed(logger *Logger, source EventSource) {
	logger.Warning().
		Str(`sourceKind`, sourceKindName(source.Kind)).
		Log(`external notify ring full, event dropped`)
}

func formatPanic(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "panic"
}

func sourceKindName(k EventSourceKind) string {
	switch k {
	case SourceNoOp:
		return "NoOp"
	case SourceElapsedTicks:
		return "ElapsedTicks"
	case SourceQueueGet:
		return "QueueGet"
	case SourceQueuePut:
		return "QueuePut"
	case SourceEventFlagsSet:
		return "EventFlagsSet"
	case SourceSemaphoreReleased:
		return "SemaphoreReleased"
	case SourceMutexReleased:
		return "MutexReleased"
	case SourceCoroFinished:
		return "CoroFinished"
	case SourceStreamBytesRead:
		return "StreamBytesRead"
	case SourceStreamBytesWritten:
		return "StreamBytesWritten"
	case SourceCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}
