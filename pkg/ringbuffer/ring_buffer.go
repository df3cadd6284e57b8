// Package ringbuffer implements a fixed-capacity byte FIFO for real-time code:
// it never allocates after construction, never blocks and is not safe for
// concurrent use.
//
// Pushing more than Free bytes or popping more than Used bytes is a violation
// of the caller's contract and panics with ErrOverflow or ErrUnderflow. The
// buffer is left untouched in this case.
package ringbuffer

import (
	"fmt"
)

type RingBuffer struct {
	storage []byte
	readPos int
	used    int
}

func New(capacity int) *RingBuffer {
	if capacity <= 0 {
		panic(fmt.Errorf("invalid ring buffer capacity: %d", capacity))
	}
	return &RingBuffer{
		storage: make([]byte, capacity),
	}
}

func (r *RingBuffer) Capacity() int {
	return len(r.storage)
}

func (r *RingBuffer) Used() int {
	return r.used
}

func (r *RingBuffer) Free() int {
	return len(r.storage) - r.used
}

// Push copies all of b into the buffer.
func (r *RingBuffer) Push(b []byte) {
	if len(b) > r.Free() {
		panic(ErrOverflow{Requested: len(b), Free: r.Free()})
	}

	writePos := (r.readPos + r.used) % len(r.storage)
	n := copy(r.storage[writePos:], b)
	copy(r.storage, b[n:])
	r.used += len(b)
}

// Pop fills all of dst with the oldest bytes of the buffer and drops them.
func (r *RingBuffer) Pop(dst []byte) {
	if len(dst) > r.used {
		panic(ErrUnderflow{Requested: len(dst), Used: r.used})
	}

	n := copy(dst, r.storage[r.readPos:])
	copy(dst[n:], r.storage)
	r.readPos = (r.readPos + len(dst)) % len(r.storage)
	r.used -= len(dst)
}

func (r *RingBuffer) Reset() {
	r.readPos = 0
	r.used = 0
}
