package corosched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSourceSink_Delay(t *testing.T) {
	sink := EventSink{Kind: SinkDelay, TicksRemaining: 5}

	triggered, updated := matchSourceSink(EventSource{Kind: SourceElapsedTicks, Ticks: 3}, sink)
	assert.False(t, triggered)
	assert.Equal(t, Ticks(2), updated.TicksRemaining)

	triggered, updated = matchSourceSink(EventSource{Kind: SourceElapsedTicks, Ticks: 10}, updated)
	assert.True(t, triggered)
	assert.Equal(t, Ticks(0), updated.TicksRemaining)
}

func TestMatchSourceSink_DelayForever(t *testing.T) {
	sink := EventSink{Kind: SinkDelay, TicksRemaining: TicksForever}
	triggered, updated := matchSourceSink(EventSource{Kind: SourceElapsedTicks, Ticks: 1000}, sink)
	assert.False(t, triggered)
	assert.Equal(t, TicksForever, updated.TicksRemaining)
}

func TestMatchSourceSink_TargetIdentity(t *testing.T) {
	q1, q2 := &Queue[int]{}, &Queue[int]{}
	sink := EventSink{Kind: SinkQueueNotEmpty, Target: q1}

	triggered, _ := matchSourceSink(EventSource{Kind: SourceQueuePut, Target: q2}, sink)
	assert.False(t, triggered, "must not trigger for a different queue instance")

	triggered, _ = matchSourceSink(EventSource{Kind: SourceQueuePut, Target: q1}, sink)
	assert.True(t, triggered)
}

func TestMatchSourceSink_NoOpNeverMatches(t *testing.T) {
	sinks := []EventSink{
		{Kind: SinkQueueNotFull, Target: "x"},
		{Kind: SinkQueueNotEmpty, Target: "x"},
		{Kind: SinkEventFlagsGet, Target: "x"},
		{Kind: SinkSemaphoreAcquire, Target: "x"},
		{Kind: SinkMutexAcquire, Target: "x"},
		{Kind: SinkWaitCoroFinish, Target: "x"},
		{Kind: SinkStreamNotFull, Target: "x"},
		{Kind: SinkStreamNotEmpty, Target: "x"},
	}
	for _, sink := range sinks {
		triggered, _ := matchSourceSink(EventSource{Kind: SourceNoOp, Target: "x"}, sink)
		assert.False(t, triggered, "NoOp must never match %v", sink.Kind)
	}
}

func TestMatchSourceSink_Custom(t *testing.T) {
	var seen EventSource
	sink := EventSink{
		Kind:  SinkCustom,
		Magic: 42,
		Predicate: func(sink EventSink, source EventSource) bool {
			seen = source
			return source.CustomTarget == "go"
		},
	}

	triggered, _ := matchSourceSink(EventSource{Kind: SourceCustom, Magic: 41, CustomTarget: "go"}, sink)
	assert.False(t, triggered, "mismatched magic must not invoke the predicate")

	triggered, _ = matchSourceSink(EventSource{Kind: SourceCustom, Magic: 42, CustomTarget: "nope"}, sink)
	assert.False(t, triggered)
	assert.Equal(t, "nope", seen.CustomTarget)

	triggered, _ = matchSourceSink(EventSource{Kind: SourceCustom, Magic: 42, CustomTarget: "go"}, sink)
	assert.True(t, triggered)
}
