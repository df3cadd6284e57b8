package ringbuffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPop(t *testing.T) {
	r := New(8)
	require.Equal(t, 8, r.Capacity())
	require.Equal(t, 0, r.Used())
	require.Equal(t, 8, r.Free())

	r.Push([]byte{1, 2, 3, 4, 5})
	require.Equal(t, 5, r.Used())
	require.Equal(t, 3, r.Free())

	out := make([]byte, 3)
	r.Pop(out)
	require.Equal(t, []byte{1, 2, 3}, out)
	require.Equal(t, 2, r.Used())

	// wraps around the end of the storage
	r.Push([]byte{6, 7, 8, 9, 10, 11})
	require.Equal(t, 8, r.Used())
	require.Equal(t, 0, r.Free())

	out = make([]byte, 8)
	r.Pop(out)
	require.Equal(t, []byte{4, 5, 6, 7, 8, 9, 10, 11}, out)
	require.Equal(t, 0, r.Used())
}

func TestPreservesOrderAcrossManyWraps(t *testing.T) {
	r := New(7)
	var next, expected byte
	for round := 0; round < 100; round++ {
		pushLen := round%5 + 1
		chunk := make([]byte, pushLen)
		for i := range chunk {
			chunk[i] = next
			next++
		}
		r.Push(chunk)

		popLen := r.Used()
		if round%3 == 0 {
			popLen /= 2
		}
		out := make([]byte, popLen)
		r.Pop(out)
		for _, b := range out {
			require.Equal(t, expected, b)
			expected++
		}
	}
}

func TestZeroLength(t *testing.T) {
	r := New(4)
	r.Push(nil)
	r.Pop(nil)
	require.Equal(t, 0, r.Used())
}

func TestOverflowPanicsWithoutCorruption(t *testing.T) {
	r := New(4)
	r.Push([]byte{1, 2, 3})

	require.PanicsWithError(t, ErrOverflow{Requested: 2, Free: 1}.Error(), func() {
		r.Push([]byte{4, 5})
	})
	require.Equal(t, 3, r.Used())

	out := make([]byte, 3)
	r.Pop(out)
	require.Equal(t, []byte{1, 2, 3}, out)
}

func TestUnderflowPanicsWithoutCorruption(t *testing.T) {
	r := New(4)
	r.Push([]byte{1, 2})

	require.PanicsWithError(t, ErrUnderflow{Requested: 3, Used: 2}.Error(), func() {
		r.Pop(make([]byte, 3))
	})
	require.Equal(t, 2, r.Used())
}

func TestInvalidCapacity(t *testing.T) {
	require.Panics(t, func() { New(0) })
}

func TestReset(t *testing.T) {
	r := New(4)
	r.Push([]byte{1, 2, 3})
	r.Reset()
	require.Equal(t, 0, r.Used())
	require.Equal(t, 4, r.Free())
}

func TestNoAllocs(t *testing.T) {
	r := New(1000)
	in := make([]byte, 333)
	out := make([]byte, 333)
	allocs := testing.AllocsPerRun(100, func() {
		r.Push(in)
		r.Pop(out)
	})
	require.Zero(t, allocs)
}
