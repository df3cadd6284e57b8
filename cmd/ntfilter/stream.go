package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/ntfilter/pkg/filter"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/observability"
)

// blockSizer returns the amount of samples for the next run callback.
type blockSizer func() int

func fixedBlockSize(n int) blockSizer {
	return func() int { return n }
}

// jitteredBlockSize returns sizes in [1, 2*n] from a deterministic sequence,
// resembling a host which does not have a fixed period.
func jitteredBlockSize(n int, seed uint64) blockSizer {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() int {
		return 1 + rng.IntN(2*n)
	}
}

// runner is the part of a plugin instance the stream host needs.
type runner interface {
	ConnectPort(port filter.Port, data []float32) error
	Run(nSamples int)
	MaxSamplesPerRun() int
}

// stream feeds float32LE mono samples from r through the instance into w,
// the way an audio server calls a plugin: block by block, reusing
// the same port buffers.
func stream(
	ctx context.Context,
	instance runner,
	threshold float32,
	r io.Reader,
	w io.Writer,
	nextBlockSize blockSizer,
) (_err error) {
	logger.Debugf(ctx, "stream")
	defer func() { logger.Debugf(ctx, "/stream: %v", _err) }()

	maxBlock := instance.MaxSamplesPerRun()
	if maxBlock < 1 {
		return fmt.Errorf("the instance does not accept any samples")
	}

	control := []float32{threshold}
	input := make([]float32, maxBlock)
	output := make([]float32, maxBlock)
	for port, data := range map[filter.Port][]float32{
		filter.PortVAD:    control,
		filter.PortInput:  input,
		filter.PortOutput: output,
	} {
		if err := instance.ConnectPort(port, data); err != nil {
			return fmt.Errorf("unable to connect port '%s': %w", port, err)
		}
	}

	blocks := make(chan []float32, 16)
	readErrCh := make(chan error, 1)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	observability.Go(ctx, func() {
		defer close(blocks)
		logger.Debugf(ctx, "started the reader")
		defer logger.Debugf(ctx, "stopped the reader")
		readErrCh <- readBlocks(ctx, r, blocks, maxBlock, nextBlockSize)
	})

	for {
		var block []float32
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b, ok := <-blocks:
			if !ok {
				return <-readErrCh
			}
			block = b
		}

		n := copy(input, block)
		instance.Run(n)
		if _, err := w.Write(frame.SamplesAsBytes(output[:n])); err != nil {
			return fmt.Errorf("unable to write the output: %w", err)
		}
	}
}

func readBlocks(
	ctx context.Context,
	r io.Reader,
	blocks chan<- []float32,
	maxBlock int,
	nextBlockSize blockSizer,
) error {
	for {
		block := make([]float32, min(max(nextBlockSize(), 1), maxBlock))
		n, err := io.ReadFull(r, frame.SamplesAsBytes(block))
		if n >= frame.SampleSize {
			select {
			case blocks <- block[:n/frame.SampleSize]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			if n%frame.SampleSize != 0 {
				logger.Warnf(ctx, "dropped a trailing incomplete sample of %d bytes", n%frame.SampleSize)
			}
			return nil
		default:
			return fmt.Errorf("unable to read the input: %w", err)
		}
	}
}
