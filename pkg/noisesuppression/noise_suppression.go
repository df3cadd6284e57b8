// Package noisesuppression defines the contract between the filter and a
// frame-synchronous denoising engine (RNNoise and alike).
package noisesuppression

import (
	"context"
	"io"

	"github.com/xaionaro-go/ntfilter/pkg/frame"
)

type FrameProcessor interface {
	// ProcessFrame denoises exactly one frame of samples in the
	// [-frame.Scale, frame.Scale] domain into out and returns the
	// probability of speech in the frame, in [0, 1].
	//
	// It is called from a real-time thread: it must not block and
	// should not allocate. The engine state carries over between calls.
	ProcessFrame(out, in *frame.Frame) (float32, error)
}

type Engine interface {
	io.Closer
	FrameProcessor
}

// Factory creates a new independent engine instance.
type Factory func(ctx context.Context) (Engine, error)
