package filter

import (
	"github.com/xaionaro-go/ntfilter/pkg/vadgate"
)

const (
	// DefaultRingFrames is the capacity of each ring buffer in frames.
	DefaultRingFrames = 100
)

type config struct {
	RingFrames  int
	GracePeriod int32
}

func defaultConfig() config {
	return config{
		RingFrames:  DefaultRingFrames,
		GracePeriod: vadgate.GracePeriod,
	}
}

type Option interface {
	apply(*config)
}

type Options []Option

func (opts Options) apply(cfg *config) {
	for _, opt := range opts {
		opt.apply(cfg)
	}
}

func (opts Options) config() config {
	cfg := defaultConfig()
	opts.apply(&cfg)
	return cfg
}

// OptionRingFrames sets the capacity of each ring buffer in frames.
type OptionRingFrames int

func (opt OptionRingFrames) apply(cfg *config) {
	cfg.RingFrames = int(opt)
}

// OptionGracePeriod sets the amount of frames passed after the last voiced frame.
type OptionGracePeriod int32

func (opt OptionGracePeriod) apply(cfg *config) {
	cfg.GracePeriod = int32(opt)
}
