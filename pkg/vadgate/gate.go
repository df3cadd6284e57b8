// Package vadgate mutes the denoised audio when no voice was detected for a while.
package vadgate

import (
	"github.com/xaionaro-go/ntfilter/pkg/frame"
)

const (
	// GracePeriod is the amount of frames passed through after
	// the last frame with the voice detected.
	GracePeriod = 20

	// ControlMin and ControlMax bound the threshold control value (in percents).
	ControlMin = 0
	ControlMax = 95
)

// ThresholdFromControl converts the control value to a probability threshold.
func ThresholdFromControl(v float32) float32 {
	return v / 100
}

// Gate is a hysteresis state machine deciding per frame whether to pass it.
//
// While open, GraceRemaining is the amount of following frames that will
// still pass if no voice is detected in them. It is meaningless while closed.
type Gate struct {
	State          State
	GraceRemaining int32
	GracePeriod    int32
}

// New returns an open gate primed with the full grace period.
func New(gracePeriod int32) Gate {
	return Gate{
		State:          StateOpen,
		GraceRemaining: gracePeriod,
		GracePeriod:    gracePeriod,
	}
}

// Update advances the gate by one frame with the given speech probability
// and returns true if the frame should be passed through.
func (g *Gate) Update(probability, threshold float32) bool {
	if probability > threshold {
		g.State = StateOpen
		g.GraceRemaining = g.GracePeriod
	}
	if g.State == StateClosed {
		return false
	}
	g.GraceRemaining--
	if g.GraceRemaining < 0 {
		g.State = StateClosed
	}
	return true
}

// Apply is Update which replaces the frame with silence if it should not pass.
func (g *Gate) Apply(f *frame.Frame, probability, threshold float32) bool {
	if g.Update(probability, threshold) {
		return true
	}
	*f = frame.Frame{}
	return false
}
