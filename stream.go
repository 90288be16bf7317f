// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// Stream is a single-producer, single-consumer byte ring with a power-of-two
// capacity. Its read and write cursors are free-running uint32 counters,
// masked on every access (cursor & (capacity-1)) rather than wrapped — the
// same discipline used by this package's bounded event ring, sized here in
// bytes instead of EventSource slots.
type Stream struct {
	buf      []byte
	mask     uint32
	readPos  uint32
	writePos uint32
}

// NewStream constructs a Stream with the given capacity, which must be a
// power of two.
func NewStream(capacity int) (*Stream, Result) {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		return nil, InvalidValue
	}
	return &Stream{
		buf:  make([]byte, capacity),
		mask: uint32(capacity - 1),
	}, Ok
}

// Cap returns the stream's fixed capacity in bytes.
func (s *Stream) Cap() int {
	return len(s.buf)
}

// Available returns the number of bytes currently buffered and readable.
func (s *Stream) Available() int {
	return int(s.writePos - s.readPos)
}

// Free returns the number of bytes of free space currently writable.
func (s *Stream) Free() int {
	return len(s.buf) - s.Available()
}

// TrySend writes as many bytes of p as fit without blocking, returning the
// count written and StreamFull if that count is less than len(p).
func (s *Stream) TrySend(p []byte) (n int, res Result) {
	free := s.Free()
	n = len(p)
	if n > free {
		n = free
	}
	for i := 0; i < n; i++ {
		s.buf[(s.writePos+uint32(i))&s.mask] = p[i]
	}
	s.writePos += uint32(n)
	if n < len(p) {
		return n, StreamFull
	}
	return n, Ok
}

// TryReceive reads up to len(p) bytes without blocking, returning the count
// read and StreamEmpty if nothing was available.
func (s *Stream) TryReceive(p []byte) (n int, res Result) {
	avail := s.Available()
	n = len(p)
	if n > avail {
		n = avail
	}
	for i := 0; i < n; i++ {
		p[i] = s.buf[(s.readPos+uint32(i))&s.mask]
	}
	s.readPos += uint32(n)
	if n == 0 && len(p) > 0 {
		return 0, StreamEmpty
	}
	return n, Ok
}

// Send writes all of p, blocking the producer coroutine while the stream
// has insufficient free space, subject to timeoutTicks. It always writes in
// the order given, possibly across multiple partial TrySend calls as space
// frees up.
func (s *Stream) Send(co *Coroutine, p []byte, timeoutTicks Ticks) Result {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	for len(p) > 0 {
		n, res := s.TrySend(p)
		if n > 0 {
			p = p[n:]
			co.Notify(EventSource{Kind: SourceStreamBytesWritten, Target: s})
			continue
		}
		if res == Ok {
			break
		}
		var slot int
		slot, timeout = co.WaitTimeout(EventSink{Kind: SinkStreamNotFull, Target: s}, timeout)
		if slot == SlotTimeout {
			return Timeout
		}
	}
	return Ok
}

// Receive reads until p is full, blocking the consumer coroutine while the
// stream is empty, subject to timeoutTicks. It returns the number of bytes
// actually read, which is less than len(p) only on Timeout.
func (s *Stream) Receive(co *Coroutine, p []byte, timeoutTicks Ticks) (int, Result) {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	total := 0
	for total < len(p) {
		n, res := s.TryReceive(p[total:])
		if n > 0 {
			total += n
			co.Notify(EventSource{Kind: SourceStreamBytesRead, Target: s})
			continue
		}
		if res == Ok {
			break
		}
		var slot int
		slot, timeout = co.WaitTimeout(EventSink{Kind: SinkStreamNotEmpty, Target: s}, timeout)
		if slot == SlotTimeout {
			return total, Timeout
		}
	}
	return total, Ok
}

// ReceiveUpTo reads into p without attempting to fill it: it blocks the
// consumer only while the stream is currently empty, and once any byte is
// available, returns whatever TryReceive can read in a single pass — unlike
// Receive, it never loops back to wait for more once it has read at least
// one byte. Grounded on stream_receive_up_to.
func (s *Stream) ReceiveUpTo(co *Coroutine, p []byte, timeoutTicks Ticks) (int, Result) {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	for {
		if len(p) == 0 || s.Available() > 0 {
			n, _ := s.TryReceive(p)
			if n > 0 {
				co.Notify(EventSource{Kind: SourceStreamBytesRead, Target: s})
			}
			return n, Ok
		}
		var slot int
		slot, timeout = co.WaitTimeout(EventSink{Kind: SinkStreamNotEmpty, Target: s}, timeout)
		if slot == SlotTimeout {
			return 0, Timeout
		}
	}
}

// Flush blocks the producer coroutine until the stream has been completely
// drained by the consumer, or until timeoutTicks elapse. Grounded on
// stream_flush.
func (s *Stream) Flush(co *Coroutine, timeoutTicks Ticks) Result {
	timeout := EventSink{Kind: SinkDelay, TicksRemaining: timeoutTicks}
	for s.Available() > 0 {
		var slot int
		slot, timeout = co.WaitTimeout(EventSink{Kind: SinkStreamNotFull, Target: s}, timeout)
		if slot == SlotTimeout {
			return Timeout
		}
	}
	return Ok
}

// sendNoBlock makes one protected, non-blocking write attempt and publishes
// the wake-up through sched's ISR-safe notify path. stream_send_no_wait and
// stream_send_from_isr share this exact implementation in the runtime this
// package was distilled from (both route through the non-blocking notify
// path), so SendNoWait and SendFromISR are kept as distinct, identically
// grounded entry points rather than one being built atop the other.
func (s *Stream) sendNoBlock(sched *Scheduler, p []byte) (int, Result) {
	sched.platform.EnterCritical()
	n, _ := s.TrySend(p)
	sched.platform.ExitCritical()
	if n == 0 {
		return 0, StreamFull
	}
	if notifyRes := sched.NotifyFromISR(EventSource{Kind: SourceStreamBytesWritten, Target: s}); notifyRes != Ok {
		return n, NotifyFailed
	}
	return n, Ok
}

// SendNoWait writes as much of p as fits without blocking. Grounded on
// stream_send_no_wait.
func (s *Stream) SendNoWait(sched *Scheduler, p []byte) (int, Result) {
	return s.sendNoBlock(sched, p)
}

// SendFromISR writes as much of p as fits without blocking, for use from a
// caller that must never be put to sleep (standing in for an interrupt
// context). Grounded on stream_send_from_isr.
func (s *Stream) SendFromISR(sched *Scheduler, p []byte) (int, Result) {
	return s.sendNoBlock(sched, p)
}

// receiveNoBlock makes one protected, non-blocking read attempt and
// publishes the wake-up through sched's ISR-safe notify path, mirroring
// sendNoBlock's shared grounding for stream_receive_no_wait and
// stream_receive_from_isr.
func (s *Stream) receiveNoBlock(sched *Scheduler, p []byte) (int, Result) {
	sched.platform.EnterCritical()
	n, _ := s.TryReceive(p)
	sched.platform.ExitCritical()
	if n == 0 {
		return 0, StreamEmpty
	}
	if notifyRes := sched.NotifyFromISR(EventSource{Kind: SourceStreamBytesRead, Target: s}); notifyRes != Ok {
		return n, NotifyFailed
	}
	return n, Ok
}

// ReceiveNoWait reads up to len(p) bytes without blocking. Grounded on
// stream_receive_no_wait.
func (s *Stream) ReceiveNoWait(sched *Scheduler, p []byte) (int, Result) {
	return s.receiveNoBlock(sched, p)
}

// ReceiveFromISR reads up to len(p) bytes without blocking, for use from a
// caller that must never be put to sleep. Grounded on
// stream_receive_from_isr.
func (s *Stream) ReceiveFromISR(sched *Scheduler, p []byte) (int, Result) {
	return s.receiveNoBlock(sched, p)
}
