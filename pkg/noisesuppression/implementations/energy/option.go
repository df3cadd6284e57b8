package energy

type config struct {
	Floor   float64
	Ceiling float64
}

func defaultConfig() config {
	return config{
		Floor:   DefaultFloor,
		Ceiling: DefaultCeiling,
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

// OptionFloor is the normalized RMS level at (and below) which
// the speech probability is 0.
type OptionFloor float64

func (opt OptionFloor) apply(cfg *config) {
	cfg.Floor = float64(opt)
}

// OptionCeiling is the normalized RMS level at (and above) which
// the speech probability is 1.
type OptionCeiling float64

func (opt OptionCeiling) apply(cfg *config) {
	cfg.Ceiling = float64(opt)
}
