// Package frame defines the fixed-size unit of audio the noise suppression
// engines operate on.
package frame

import (
	"time"

	"github.com/xaionaro-go/audio/pkg/audio"
)

const (
	// Samples is the amount of samples in a single frame.
	Samples = 480

	// SampleSize is the size of a single float32 sample in bytes.
	SampleSize = 4

	// Bytes is the size of a single frame in bytes.
	Bytes = Samples * SampleSize

	// Duration is the duration of a single frame at SampleRate.
	Duration = 10 * time.Millisecond

	// Scale converts normalized [-1, 1] samples to the domain the engines expect.
	Scale = 32767
)

const (
	SampleRate = audio.SampleRate(48000)
	Channels   = audio.Channel(1)
)

// Frame is exactly one frame of mono float32 samples.
type Frame [Samples]float32

func Encoding() audio.EncodingPCM {
	return audio.EncodingPCM{
		PCMFormat:  audio.PCMFormatFloat32LE,
		SampleRate: SampleRate,
	}
}
