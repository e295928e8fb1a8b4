package message

import (
	"sync/atomic"
)

// cacheLine separates the producer and consumer cursors
const cacheLine = 64

// Queue is a bounded lock-free SPSC ring buffer of Messages
// Thread-Safety:
//   - Push: single producer
//   - Pop: single consumer
//   - The slot is written before tail is published, read before head is released
//
// Overflow: Push fails when full, nothing is overwritten
type Queue struct {
	tail atomic.Uint64 // Write cursor, owned by the producer
	_    [cacheLine - 8]byte
	head atomic.Uint64 // Read cursor, owned by the consumer
	_    [cacheLine - 8]byte

	buf  []Message
	mask uint64
}

// NewQueue allocates a queue holding at least capacity messages
// Capacity is rounded up to a power of two
func NewQueue(capacity int) *Queue {
	size := uint64(1)
	for size < uint64(max(capacity, 1)) {
		size <<= 1
	}
	return &Queue{
		buf:  make([]Message, size),
		mask: size - 1,
	}
}

// Push appends m, returns false if the queue is full
func (q *Queue) Push(m Message) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() > q.mask {
		return false
	}
	q.buf[tail&q.mask] = m
	q.tail.Store(tail + 1) // MUST be after write
	return true
}

// Pop removes the oldest message, returns false if the queue is empty
func (q *Queue) Pop() (Message, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Message{}, false
	}
	idx := head & q.mask
	m := q.buf[idx]
	q.buf[idx] = Message{} // Drop payload reference
	q.head.Store(head + 1)
	return m, true
}

// Len returns a snapshot of the number of queued messages
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Cap returns the fixed capacity
func (q *Queue) Cap() int {
	return len(q.buf)
}
