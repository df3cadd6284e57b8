// Package libfvad implements an engine which does not denoise, but detects
// voice using the WebRTC VAD (through libfvad). The detector gives a binary
// answer, so the reported probability is either 0 or 1.
package libfvad

import (
	"fmt"
	"math"

	"github.com/josharian/fvad"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
)

type VAD struct {
	*fvad.Detector

	pcm [frame.Samples]int16
}

var _ noisesuppression.Engine = (*VAD)(nil)

func New(opts ...Option) (*VAD, error) {
	cfg := Options(opts).config()
	detector := fvad.NewDetector()
	if err := detector.SetSampleRate(int(frame.SampleRate)); err != nil {
		detector.Close()
		return nil, fmt.Errorf("unable to set the sample rate: %w", err)
	}
	if err := detector.SetMode(cfg.Mode); err != nil {
		detector.Close()
		return nil, fmt.Errorf("unable to set the sensitivity mode %d: %w", cfg.Mode, err)
	}
	return &VAD{
		Detector: detector,
	}, nil
}

func (v *VAD) Close() error {
	if v.Detector == nil {
		return nil
	}
	v.Detector.Close()
	v.Detector = nil
	return nil
}

func (v *VAD) ProcessFrame(out, in *frame.Frame) (float32, error) {
	*out = *in
	for i, s := range in {
		v.pcm[i] = toInt16(s)
	}
	isVoice, err := v.Detector.Process(v.pcm[:])
	if err != nil {
		return 0, err
	}
	if isVoice {
		return 1, nil
	}
	return 0, nil
}

func toInt16(s float32) int16 {
	switch {
	case s >= math.MaxInt16:
		return math.MaxInt16
	case s <= math.MinInt16:
		return math.MinInt16
	}
	return int16(s)
}
