package libfvad

const (
	// DefaultMode is the least aggressive mode; it reports voice most readily.
	DefaultMode = 0
)

type config struct {
	Mode int
}

func defaultConfig() config {
	return config{
		Mode: DefaultMode,
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

// OptionMode sets the aggressiveness of the detector, from 0 (quality) to 3 (very aggressive).
type OptionMode int

func (opt OptionMode) apply(cfg *config) {
	cfg.Mode = int(opt)
}
