package ladspa

import (
	"fmt"

	"github.com/xaionaro-go/audio/pkg/audio"
)

type ErrUnsupportedSampleRate struct {
	SampleRate audio.SampleRate
	Supported  audio.SampleRate
}

func (e ErrUnsupportedSampleRate) Error() string {
	return fmt.Sprintf("unsupported sample rate %d, only %d is supported", e.SampleRate, e.Supported)
}

type ErrInitEngine struct {
	Err error
}

func (e ErrInitEngine) Error() string {
	return fmt.Sprintf("unable to initialize the noise suppression engine: %v", e.Err)
}

func (e ErrInitEngine) Unwrap() error {
	return e.Err
}
