package ringbuffer

import (
	"fmt"
)

type ErrOverflow struct {
	Requested int
	Free      int
}

func (e ErrOverflow) Error() string {
	return fmt.Sprintf("ring buffer overflow: requested to push %d bytes, but only %d bytes are free", e.Requested, e.Free)
}

type ErrUnderflow struct {
	Requested int
	Used      int
}

func (e ErrUnderflow) Error() string {
	return fmt.Sprintf("ring buffer underflow: requested to pop %d bytes, but only %d bytes are stored", e.Requested, e.Used)
}
