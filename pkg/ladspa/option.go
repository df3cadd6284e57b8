package ladspa

import (
	"github.com/xaionaro-go/ntfilter/pkg/filter"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
)

type config struct {
	EngineFactory noisesuppression.Factory
	FilterOptions filter.Options
}

func defaultConfig() config {
	return config{
		EngineFactory: DefaultEngineFactory,
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

// OptionEngineFactory overrides the way the noise suppression engine
// is created for each instance.
type OptionEngineFactory noisesuppression.Factory

func (opt OptionEngineFactory) apply(cfg *config) {
	cfg.EngineFactory = noisesuppression.Factory(opt)
}

// OptionFilterOptions are passed to filter.New for each instance.
type OptionFilterOptions filter.Options

func (opt OptionFilterOptions) apply(cfg *config) {
	cfg.FilterOptions = filter.Options(opt)
}
