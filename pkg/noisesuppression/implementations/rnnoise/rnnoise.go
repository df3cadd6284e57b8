// Package rnnoise provides the RNNoise engine through
// github.com/xaionaro-go/audio. The actual RNNoise is linked only when
// building with tag 'rnnoise'; otherwise New returns an error.
//
// The backend expects normalized samples in [-1, 1] and applies the gain
// RNNoise needs by itself. It also takes a mutex, logs at trace level and
// allocates its working buffer on the first frame, so unlike the other
// engines it does not keep the filter's Run lock-free and allocation-free.
package rnnoise

import (
	"context"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	xrnnoise "github.com/xaionaro-go/audio/pkg/noisesuppression/implementations/rnnoise"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
)

// Backend is the subset of noisesuppression.NoiseSuppression
// (of github.com/xaionaro-go/audio) used here.
type Backend interface {
	ChunkSize() uint
	SuppressNoise(ctx context.Context, input []byte, outputVoice []byte) (float64, error)
}

type RNNoise struct {
	Backend Backend

	// Context is passed to the backend on every frame; it is captured once
	// on construction to avoid touching contexts on the real-time path.
	Context context.Context

	normalizedIn  frame.Frame
	normalizedOut frame.Frame
}

var _ noisesuppression.Engine = (*RNNoise)(nil)

func New(ctx context.Context) (*RNNoise, error) {
	logger.Debugf(ctx, "rnnoise.New")
	backend, err := xrnnoise.New(frame.Channels)
	if err != nil {
		return nil, ErrInitBackend{Err: err}
	}
	return NewFromBackend(ctx, backend)
}

// NewFactory returns a noisesuppression.Factory creating RNNoise engines.
func NewFactory() noisesuppression.Factory {
	return func(ctx context.Context) (noisesuppression.Engine, error) {
		return New(ctx)
	}
}

func NewFromBackend(
	ctx context.Context,
	backend Backend,
) (*RNNoise, error) {
	chunkSize := backend.ChunkSize()
	logger.Debugf(ctx, "RNNoise chunk size: %d", chunkSize)
	if chunkSize == 0 || frame.Bytes%chunkSize != 0 {
		closeBackend(ctx, backend)
		return nil, fmt.Errorf("a frame (%d bytes) is not a whole number of the engine's chunks (%d)", frame.Bytes, chunkSize)
	}
	return &RNNoise{
		Backend: backend,
		Context: ctx,
	}, nil
}

func (r *RNNoise) ProcessFrame(out, in *frame.Frame) (float32, error) {
	for i, s := range in {
		r.normalizedIn[i] = s / frame.Scale
	}
	prob, err := r.Backend.SuppressNoise(r.Context, r.normalizedIn.Bytes(), r.normalizedOut.Bytes())
	if err != nil {
		return 0, err
	}
	for i := range out {
		out[i] = r.normalizedOut[i] * frame.Scale
	}
	return float32(prob), nil
}

func (r *RNNoise) Close() error {
	closer, ok := r.Backend.(io.Closer)
	if !ok {
		return nil
	}
	return closer.Close()
}

func closeBackend(ctx context.Context, backend Backend) {
	closer, ok := backend.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Errorf(ctx, "unable to close the RNNoise backend: %v", err)
	}
}
