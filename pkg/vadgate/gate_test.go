package vadgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
)

func TestThresholdFromControl(t *testing.T) {
	assert.Equal(t, float32(0.5), ThresholdFromControl(50))
	assert.Equal(t, float32(0), ThresholdFromControl(ControlMin))
	assert.InDelta(t, 0.95, ThresholdFromControl(ControlMax), 1e-7)
}

func TestGracePeriodHysteresis(t *testing.T) {
	g := New(GracePeriod)
	g.State = StateClosed

	require.True(t, g.Update(1, 0.5), "frame 0 is above the threshold")
	for idx := 1; idx <= 25; idx++ {
		passed := g.Update(0, 0.5)
		if idx <= GracePeriod {
			require.True(t, passed, "frame %d", idx)
		} else {
			require.False(t, passed, "frame %d", idx)
			require.Equal(t, StateClosed, g.State)
		}
	}
}

func TestStartupPassesGracePeriod(t *testing.T) {
	g := New(GracePeriod)
	for idx := 0; idx <= GracePeriod; idx++ {
		require.True(t, g.Update(0, 0.5), "frame %d", idx)
	}
	require.False(t, g.Update(0, 0.5))
}

func TestRefreshWithinGracePeriod(t *testing.T) {
	g := New(3)
	require.True(t, g.Update(1, 0.5))
	require.True(t, g.Update(0, 0.5))
	require.True(t, g.Update(0, 0.5))
	require.True(t, g.Update(0.9, 0.5))
	require.Equal(t, int32(2), g.GraceRemaining)
	for range 3 {
		require.True(t, g.Update(0, 0.5))
	}
	require.False(t, g.Update(0, 0.5))
	require.True(t, g.Update(0.6, 0.5))
	require.Equal(t, StateOpen, g.State)
}

func TestThresholdIsExclusive(t *testing.T) {
	g := New(0)
	g.State = StateClosed
	require.False(t, g.Update(0.5, 0.5))
	require.True(t, g.Update(0.51, 0.5))
	require.False(t, g.Update(0, 0.5))
}

func TestStaysClosed(t *testing.T) {
	g := New(1)
	g.State = StateClosed
	for range 1000 {
		require.False(t, g.Update(0, 0.5))
	}
	require.Equal(t, StateClosed, g.State)
}

func TestApply(t *testing.T) {
	var f frame.Frame
	for i := range f {
		f[i] = 1
	}
	g := New(0)
	g.State = StateClosed

	require.False(t, g.Apply(&f, 0, 0.5))
	require.Equal(t, frame.Frame{}, f)

	f[0] = 1
	require.True(t, g.Apply(&f, 1, 0.5))
	require.Equal(t, float32(1), f[0])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "unknown_state_7", State(7).String())
}
