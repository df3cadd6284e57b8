// Package filter adapts a fixed-frame-size noise suppression engine to a host
// calling it with buffers of arbitrary length, and mutes the output when no
// voice is detected.
//
// A Filter is driven by a single host thread: Run must not be called
// concurrently with itself or with ConnectPort/Close. Run itself does not
// allocate, lock or block; whether the whole call is real-time safe depends
// on the engine (the RNNoise engine locks and logs on every frame).
package filter

import (
	"context"
	"fmt"
	"math"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
	"github.com/xaionaro-go/ntfilter/pkg/ringbuffer"
	"github.com/xaionaro-go/ntfilter/pkg/vadgate"
)

type Filter struct {
	Engine       noisesuppression.Engine
	InputBuffer  *ringbuffer.RingBuffer
	OutputBuffer *ringbuffer.RingBuffer
	Gate         vadgate.Gate
	Stats        Stats

	vadControl []float32
	input      []float32
	output     []float32

	// scaled is the staging area for scaling the host input.
	scaled frame.Frame

	// frames receives all whole frames available in InputBuffer,
	// thus it is as big as InputBuffer.
	frames []frame.Frame

	denoised frame.Frame
}

// New creates a filter owning the engine: the engine is closed by Close.
func New(
	ctx context.Context,
	engine noisesuppression.Engine,
	opts ...Option,
) (*Filter, error) {
	if engine == nil {
		return nil, fmt.Errorf("no engine provided")
	}
	cfg := Options(opts).config()
	if cfg.RingFrames < 1 {
		return nil, fmt.Errorf("the ring buffers should fit at least one frame, but the requested size is %d frames", cfg.RingFrames)
	}
	if cfg.GracePeriod < 0 {
		return nil, fmt.Errorf("the grace period must not be negative, but it is %d", cfg.GracePeriod)
	}

	ringSize := cfg.RingFrames * frame.Bytes
	f := &Filter{
		Engine:       engine,
		InputBuffer:  ringbuffer.New(ringSize),
		OutputBuffer: ringbuffer.New(ringSize),
		Gate:         vadgate.New(cfg.GracePeriod),
		frames:       make([]frame.Frame, cfg.RingFrames),
	}
	assert(ctx, len(frame.FramesAsBytes(f.frames)) == f.InputBuffer.Capacity(),
		"the frame scratch (%d bytes) must fit the whole input ring (%d bytes)",
		len(frame.FramesAsBytes(f.frames)), f.InputBuffer.Capacity())
	assert(ctx, f.OutputBuffer.Capacity()%frame.Bytes == 0,
		"the output ring (%d bytes) must hold whole frames", f.OutputBuffer.Capacity())
	logger.Debugf(ctx, "initialized a filter with ring buffers of %d bytes and grace period of %d frames", ringSize, cfg.GracePeriod)
	return f, nil
}

// MaxSamplesPerRun is the biggest nSamples Run is guaranteed to accept
// regardless of the history of calls.
func (f *Filter) MaxSamplesPerRun() int {
	// both buffers together keep less than two frames between the calls
	return max(0, (f.InputBuffer.Capacity()-2*frame.Bytes)/frame.SampleSize)
}

// ConnectPort binds a host-owned buffer to the port. For PortVAD only the
// first value is used: the threshold in percents, within
// [vadgate.ControlMin, vadgate.ControlMax].
func (f *Filter) ConnectPort(port Port, data []float32) error {
	switch port {
	case PortInput:
		f.input = data
	case PortOutput:
		f.output = data
	case PortVAD:
		f.vadControl = data
	default:
		return ErrUnknownPort{Port: port}
	}
	return nil
}

// Activate is a no-op: there is nothing to prime.
func (f *Filter) Activate() {}

// Run denoises nSamples of the input port into the output port.
//
// The output is delayed relative to the input by whatever is needed to
// assemble whole frames; until enough frames are available the output is
// padded with leading silence.
//
// Unconnected ports and ring buffer overflows (see MaxSamplesPerRun) panic.
func (f *Filter) Run(nSamples int) {
	f.Stats.Calls.Add(1)
	threshold := vadgate.ThresholdFromControl(f.control())
	in, out := f.buffers(nSamples)

	f.feed(in)
	f.processFrames(threshold)
	f.drain(out)

	f.Stats.BacklogBytes.Store(uint64(f.InputBuffer.Used() + f.OutputBuffer.Used()))
}

func (f *Filter) control() float32 {
	if f.vadControl == nil {
		panic(ErrPortNotConnected{Port: PortVAD})
	}
	if len(f.vadControl) < 1 {
		panic(ErrPortTooShort{Port: PortVAD, Length: len(f.vadControl), Required: 1})
	}
	return f.vadControl[0]
}

func (f *Filter) buffers(nSamples int) ([]float32, []float32) {
	if nSamples < 0 {
		panic(ErrInvalidSampleCount{Count: nSamples})
	}
	if f.input == nil {
		panic(ErrPortNotConnected{Port: PortInput})
	}
	if f.output == nil {
		panic(ErrPortNotConnected{Port: PortOutput})
	}
	if len(f.input) < nSamples {
		panic(ErrPortTooShort{Port: PortInput, Length: len(f.input), Required: nSamples})
	}
	if len(f.output) < nSamples {
		panic(ErrPortTooShort{Port: PortOutput, Length: len(f.output), Required: nSamples})
	}
	return f.input[:nSamples], f.output[:nSamples]
}

// feed scales the input into the engine domain and pushes it to InputBuffer.
// The host input buffer is left intact.
func (f *Filter) feed(in []float32) {
	if size := len(in) * frame.SampleSize; size > f.InputBuffer.Free() {
		panic(ringbuffer.ErrOverflow{Requested: size, Free: f.InputBuffer.Free()})
	}

	for len(in) > 0 {
		n := copy(f.scaled[:], in)
		chunk := f.scaled[:n]
		for i := range chunk {
			chunk[i] *= frame.Scale
		}
		f.InputBuffer.Push(frame.SamplesAsBytes(chunk))
		in = in[n:]
	}
}

// processFrames runs every whole frame of InputBuffer through the engine and
// the gate into OutputBuffer. An incomplete frame stays for the next call.
func (f *Filter) processFrames(threshold float32) {
	nFrames := f.InputBuffer.Used() / frame.Bytes
	frames := f.frames[:nFrames]
	f.InputBuffer.Pop(frame.FramesAsBytes(frames))

	for idx := range frames {
		probability, err := f.Engine.ProcessFrame(&f.denoised, &frames[idx])
		if err != nil {
			f.Stats.EngineErrors.Add(1)
			f.denoised = frame.Frame{}
			probability = 0
		}
		if !f.Gate.Apply(&f.denoised, clampProbability(probability), threshold) {
			f.Stats.FramesMuted.Add(1)
		}
		f.Stats.FramesProcessed.Add(1)
		f.OutputBuffer.Push(f.denoised.Bytes())
	}
}

// drain fills out with the oldest processed samples, scaled back to the host domain.
// Only whole frames in OutputBuffer are considered available.
func (f *Filter) drain(out []float32) {
	samplesAvail := f.OutputBuffer.Used() / frame.Bytes * frame.Samples
	if samplesAvail < len(out) {
		skip := len(out) - samplesAvail
		clear(out[:skip])
		f.OutputBuffer.Pop(frame.SamplesAsBytes(out[skip:]))
		f.Stats.UnderrunSamples.Add(uint64(skip))
	} else {
		f.OutputBuffer.Pop(frame.SamplesAsBytes(out))
	}

	for i := range out {
		out[i] /= frame.Scale
	}
}

func (f *Filter) StatsSnapshot() StatsSnapshot {
	return f.Stats.Snapshot()
}

func clampProbability(p float32) float32 {
	switch {
	case math.IsNaN(float64(p)):
		return 0
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Close releases the engine. The filter must not be used afterwards.
func (f *Filter) Close() error {
	var result *multierror.Error
	if f.Engine != nil {
		if err := f.Engine.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("unable to close the engine: %w", err))
		}
		f.Engine = nil
	}
	f.InputBuffer = nil
	f.OutputBuffer = nil
	f.frames = nil
	f.input, f.output, f.vadControl = nil, nil, nil
	return result.ErrorOrNil()
}
