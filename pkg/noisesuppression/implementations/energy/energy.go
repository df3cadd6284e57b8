// Package energy implements a pure-Go engine that does not denoise anything:
// it passes frames through and estimates the speech probability from the
// frame loudness. It is the fallback when RNNoise is not built in.
package energy

import (
	"fmt"
	"math"

	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
)

const (
	DefaultFloor   = 0.005
	DefaultCeiling = 0.05
)

type Energy struct {
	Floor   float64
	Ceiling float64
}

var _ noisesuppression.Engine = (*Energy)(nil)

func New(opts ...Option) (*Energy, error) {
	cfg := Options(opts).config()
	if cfg.Floor < 0 {
		return nil, fmt.Errorf("the floor must not be negative, but it is %f", cfg.Floor)
	}
	if cfg.Ceiling <= cfg.Floor {
		return nil, fmt.Errorf("the ceiling (%f) must be higher than the floor (%f)", cfg.Ceiling, cfg.Floor)
	}
	return &Energy{
		Floor:   cfg.Floor,
		Ceiling: cfg.Ceiling,
	}, nil
}

func (*Energy) Close() error {
	return nil
}

func (e *Energy) ProcessFrame(out, in *frame.Frame) (float32, error) {
	*out = *in
	return float32(e.Probability(RMS(in))), nil
}

// Probability linearly maps the normalized RMS level between Floor and Ceiling onto [0, 1].
func (e *Energy) Probability(rms float64) float64 {
	switch {
	case rms <= e.Floor:
		return 0
	case rms >= e.Ceiling:
		return 1
	}
	return (rms - e.Floor) / (e.Ceiling - e.Floor)
}

// RMS returns the root-mean-square of the frame, normalized to [0, 1].
func RMS(f *frame.Frame) float64 {
	var sum float64
	for _, s := range f {
		v := float64(s) / frame.Scale
		sum += v * v
	}
	return math.Sqrt(sum / frame.Samples)
}
