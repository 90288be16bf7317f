package corosched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_NewStreamRequiresPowerOfTwo(t *testing.T) {
	_, res := NewStream(3)
	assert.Equal(t, InvalidValue, res)

	_, res = NewStream(4)
	assert.Equal(t, Ok, res)
}

func TestStream_TrySendTryReceive(t *testing.T) {
	s, res := NewStream(4)
	require.Equal(t, Ok, res)

	n, res := s.TrySend([]byte("hello"))
	assert.Equal(t, 4, n, "only 4 bytes fit")
	assert.Equal(t, StreamFull, res)

	buf := make([]byte, 4)
	n, res = s.TryReceive(buf)
	assert.Equal(t, Ok, res)
	assert.Equal(t, 4, n)
	assert.Equal(t, "hell", string(buf))

	n, res = s.TryReceive(buf)
	assert.Equal(t, 0, n)
	assert.Equal(t, StreamEmpty, res)
}

func TestStream_FreeRunningIndicesWrapAfterManyRounds(t *testing.T) {
	s, res := NewStream(4)
	require.Equal(t, Ok, res)

	for round := 0; round < 100; round++ {
		n, res := s.TrySend([]byte{byte(round), byte(round + 1)})
		require.Equal(t, Ok, res)
		require.Equal(t, 2, n)

		buf := make([]byte, 2)
		n, res = s.TryReceive(buf)
		require.Equal(t, Ok, res)
		require.Equal(t, 2, n)
		assert.Equal(t, byte(round), buf[0])
		assert.Equal(t, byte(round+1), buf[1])
	}
}

func TestStream_ReceiveUpToReturnsWhateverIsAvailableInOnePass(t *testing.T) {
	sched, res := NewScheduler(2, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewStream(4)
	require.Equal(t, Ok, res)

	var n int
	var getResult Result
	consumer := NewCoroutine(func(co *Coroutine) {
		buf := make([]byte, 4)
		n, getResult = s.ReceiveUpTo(co, buf, TicksForever)
	}, WithName("consumer"))

	producer := NewCoroutine(func(co *Coroutine) {
		m, res := s.TrySend([]byte{1, 2})
		require.Equal(t, Ok, res)
		require.Equal(t, 2, m)
		co.Notify(EventSource{Kind: SourceStreamBytesWritten, Target: s})
	}, WithName("producer"))

	require.Equal(t, Ok, sched.AddCoro(consumer))
	require.Equal(t, Ok, sched.AddCoro(producer))

	sched.Run()

	assert.Equal(t, Ok, getResult)
	assert.Equal(t, 2, n, "ReceiveUpTo must return the 2 available bytes rather than waiting to fill all 4")
}

func TestStream_FlushBlocksUntilFullyDrained(t *testing.T) {
	sched, res := NewScheduler(2, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewStream(4)
	require.Equal(t, Ok, res)
	n, res := s.TrySend([]byte{1, 2})
	require.Equal(t, Ok, res)
	require.Equal(t, 2, n)

	var flushResult Result
	producer := NewCoroutine(func(co *Coroutine) {
		flushResult = s.Flush(co, TicksForever)
	}, WithName("producer"))

	consumer := NewCoroutine(func(co *Coroutine) {
		buf := make([]byte, 2)
		_, res := s.Receive(co, buf, TicksForever)
		require.Equal(t, Ok, res)
	}, WithName("consumer"))

	require.Equal(t, Ok, sched.AddCoro(producer))
	require.Equal(t, Ok, sched.AddCoro(consumer))

	sched.Run()

	assert.Equal(t, Ok, flushResult)
	assert.Equal(t, 0, s.Available())
}

func TestStream_NoWaitAndFromISRVariantsDoNotBlock(t *testing.T) {
	sched, res := NewScheduler(1, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewStream(2)
	require.Equal(t, Ok, res)

	n, res := s.SendNoWait(sched, []byte{1, 2, 3})
	assert.Equal(t, Ok, res)
	assert.Equal(t, 2, n, "only 2 bytes fit")

	n, res = s.SendFromISR(sched, []byte{9})
	assert.Equal(t, StreamFull, res)
	assert.Equal(t, 0, n)

	buf := make([]byte, 2)
	n, res = s.ReceiveNoWait(sched, buf)
	assert.Equal(t, Ok, res)
	assert.Equal(t, 2, n)

	n, res = s.ReceiveFromISR(sched, buf)
	assert.Equal(t, StreamEmpty, res)
	assert.Equal(t, 0, n)
}

func TestStream_SendBlocksUntilReceiverDrains(t *testing.T) {
	sched, res := NewScheduler(2, NewGoroutinePlatform())
	require.Equal(t, Ok, res)

	s, res := NewStream(2)
	require.Equal(t, Ok, res)

	var sendResult Result
	producer := NewCoroutine(func(co *Coroutine) {
		sendResult = s.Send(co, []byte{1, 2, 3, 4}, TicksForever)
	}, WithName("producer"))

	var received []byte
	consumer := NewCoroutine(func(co *Coroutine) {
		buf := make([]byte, 4)
		n, res := s.Receive(co, buf, TicksForever)
		require.Equal(t, Ok, res)
		received = buf[:n]
	}, WithName("consumer"))

	require.Equal(t, Ok, sched.AddCoro(producer))
	require.Equal(t, Ok, sched.AddCoro(consumer))

	sched.Run()

	assert.Equal(t, Ok, sendResult)
	assert.Equal(t, []byte{1, 2, 3, 4}, received)
}
