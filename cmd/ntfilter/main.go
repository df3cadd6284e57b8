package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/ntfilter/pkg/filter"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/ladspa"
	"github.com/xaionaro-go/ntfilter/pkg/metrics"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression/implementations/energy"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression/implementations/libfvad"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression/implementations/rnnoise"
	"github.com/xaionaro-go/ntfilter/pkg/vadgate"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xcontext"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func syntaxExit(message string) {
	fmt.Fprintf(os.Stderr, "syntax error: %s\n", message)
	pflag.Usage()
	os.Exit(2)
}

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	engineFlag := pflag.String("engine", "auto", "noise suppression engine: auto, rnnoise, energy or webrtcvad")
	thresholdFlag := pflag.Float64("threshold", -1, "voice activation threshold in percents [0..95]; negative means the default")
	vadModeFlag := pflag.Int("webrtcvad-mode", libfvad.DefaultMode, "aggressiveness of the webrtcvad engine [0..3]")
	blockSizeFlag := pflag.Int("block-size", 256, "amount of samples per run callback")
	jitterFlag := pflag.Bool("jitter", false, "vary the amount of samples per run callback")
	ringFramesFlag := pflag.Int("ring-frames", filter.DefaultRingFrames, "capacity of the ring buffers in frames")
	statsIntervalFlag := pflag.Duration("stats-interval", 0, "how often to log the statistics; zero disables")
	metricsListenFlag := pflag.String("metrics-listen", "", "address to serve Prometheus metrics on (e.g. 127.0.0.1:9090); empty disables")
	pflag.Parse()
	if pflag.NArg() != 0 {
		syntaxExit("expected no arguments: the input is read from stdin and the output is written to stdout (float32LE, mono, 48kHz)")
	}
	if *blockSizeFlag < 1 {
		syntaxExit("--block-size must be positive")
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()

	var engineFactory noisesuppression.Factory
	switch *engineFlag {
	case "auto":
		engineFactory = ladspa.DefaultEngineFactory
	case "rnnoise":
		engineFactory = rnnoise.NewFactory()
	case "energy":
		engineFactory = func(context.Context) (noisesuppression.Engine, error) {
			e, err := energy.New()
			if err != nil {
				return nil, err
			}
			return e, nil
		}
	case "webrtcvad":
		engineFactory = func(context.Context) (noisesuppression.Engine, error) {
			v, err := libfvad.New(libfvad.OptionMode(*vadModeFlag))
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	default:
		syntaxExit(fmt.Sprintf("unknown engine '%s'", *engineFlag))
	}

	ladspa.Init(ctx,
		ladspa.OptionEngineFactory(engineFactory),
		ladspa.OptionFilterOptions{filter.OptionRingFrames(*ringFramesFlag)},
	)
	defer ladspa.Teardown(ctx)
	descriptor := ladspa.DescriptorAt(0)
	logger.Debugf(ctx, "loaded '%s' (%d)", descriptor.Name, descriptor.UniqueID)

	instance, err := descriptor.Instantiate(ctx, frame.SampleRate)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	instance.Activate()

	var cleanups []func(context.Context) error
	cleanups = append(cleanups, instance.Cleanup)
	defer func() {
		ctx := xcontext.DetachDone(ctx)
		var result *multierror.Error
		for idx := len(cleanups) - 1; idx >= 0; idx-- {
			if err := cleanups[idx](ctx); err != nil {
				result = multierror.Append(result, err)
			}
		}
		if err := result.ErrorOrNil(); err != nil {
			logger.Errorf(ctx, "unable to clean up: %v", err)
		}
	}()

	if *metricsListenFlag != "" {
		shutdown, err := serveMetrics(ctx, *metricsListenFlag, descriptor)
		if err != nil {
			logger.Fatal(ctx, err)
		}
		cleanups = append(cleanups, shutdown)
	}

	if *statsIntervalFlag > 0 {
		observability.Go(ctx, func() {
			reportStats(ctx, instance, *statsIntervalFlag)
		})
	}

	nextBlockSize := fixedBlockSize(*blockSizeFlag)
	if *jitterFlag {
		nextBlockSize = jitteredBlockSize(*blockSizeFlag, uint64(time.Now().UnixNano()))
	}

	out := bufio.NewWriter(os.Stdout)
	err = stream(ctx, instance, controlFromThreshold(*thresholdFlag), os.Stdin, out, nextBlockSize)
	if flushErr := out.Flush(); flushErr != nil {
		err = errors.Join(err, flushErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf(ctx, "%v", err)
	}
	logger.Infof(ctx, "done: %#+v", instance.StatsSnapshot())
}

// controlFromThreshold converts the CLI threshold to the VAD control value.
func controlFromThreshold(threshold float64) float32 {
	switch {
	case threshold < 0:
		return vadgate.ControlMax
	case threshold > vadgate.ControlMax:
		return vadgate.ControlMax
	}
	return float32(threshold)
}

func reportStats(
	ctx context.Context,
	instance *ladspa.Handle,
	interval time.Duration,
) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		s := instance.StatsSnapshot()
		logger.Infof(ctx,
			"calls: %d; frames: %d (muted: %d); underrun samples: %d; engine errors: %d; backlog: %d bytes",
			s.Calls, s.FramesProcessed, s.FramesMuted, s.UnderrunSamples, s.EngineErrors, s.BacklogBytes,
		)
	}
}

func serveMetrics(
	ctx context.Context,
	listenAddr string,
	source metrics.Source,
) (func(context.Context) error, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the Prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	m, err := metrics.New(mp, source)
	if err != nil {
		return nil, errors.Join(err, mp.Shutdown(ctx))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	observability.Go(ctx, func() {
		logger.Infof(ctx, "serving metrics at %s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "unable to serve metrics: %v", err)
		}
	})

	return func(ctx context.Context) error {
		var result *multierror.Error
		if err := srv.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("unable to stop the metrics server: %w", err))
		}
		if err := m.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("unable to unregister the metrics: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("unable to shutdown the meter provider: %w", err))
		}
		return result.ErrorOrNil()
	}, nil
}
