package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ntfilter/pkg/filter"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
	"github.com/xaionaro-go/ntfilter/pkg/vadgate"
)

func encode(samples []float32) []byte {
	b := make([]byte, 0, len(samples)*frame.SampleSize)
	for _, s := range samples {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(s))
	}
	return b
}

func decode(b []byte) []float32 {
	samples := make([]float32, len(b)/frame.SampleSize)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*frame.SampleSize:]))
	}
	return samples
}

func TestStreamPreservesOrder(t *testing.T) {
	for name, sizer := range map[string]blockSizer{
		"fixed":    fixedBlockSize(256),
		"jittered": jitteredBlockSize(256, 42),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f, err := filter.New(ctx, noisesuppression.NewDummy(1))
			require.NoError(t, err)
			defer f.Close()

			input := make([]float32, 50*frame.Samples+123)
			for i := range input {
				input[i] = float32(i%997+1) / 1000
			}

			var out bytes.Buffer
			require.NoError(t, stream(ctx, f, 50, bytes.NewReader(encode(input)), &out, sizer))

			output := decode(out.Bytes())
			require.Len(t, output, len(input))

			var restored []float32
			for _, s := range output {
				if s != 0 {
					restored = append(restored, s)
				}
			}
			require.NotEmpty(t, restored)
			for i := range restored {
				require.InDelta(t, input[i], restored[i], 1e-6, "sample %d", i)
			}
			require.Equal(t, uint64(len(output)-len(restored)), f.Stats.UnderrunSamples.Load())
		})
	}
}

func TestStreamDropsIncompleteSample(t *testing.T) {
	ctx := context.Background()
	f, err := filter.New(ctx, noisesuppression.NewDummy(1))
	require.NoError(t, err)
	defer f.Close()

	in := append(encode(make([]float32, 10)), 1, 2)
	var out bytes.Buffer
	require.NoError(t, stream(ctx, f, 50, bytes.NewReader(in), &out, fixedBlockSize(4)))
	require.Equal(t, 10*frame.SampleSize, out.Len())
}

func TestJitteredBlockSize(t *testing.T) {
	a := jitteredBlockSize(100, 1)
	b := jitteredBlockSize(100, 1)
	for range 1000 {
		n := a()
		require.Equal(t, n, b())
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 200)
	}
}

func TestControlFromThreshold(t *testing.T) {
	require.Equal(t, float32(vadgate.ControlMax), controlFromThreshold(-1))
	require.Equal(t, float32(vadgate.ControlMax), controlFromThreshold(100))
	require.Equal(t, float32(50), controlFromThreshold(50))
	require.Equal(t, float32(0), controlFromThreshold(0))
}
