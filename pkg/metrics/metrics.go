// Package metrics exports the per-instance filter statistics as
// OpenTelemetry observable instruments.
//
// The statistics are read in the collection callback, so nothing is
// recorded from the real-time path.
package metrics

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/ntfilter/pkg/ladspa"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/xaionaro-go/ntfilter"

// AttributeInstance is the attribute key carrying the instance ID.
const AttributeInstance = attribute.Key("ntfilter.instance")

// Source provides the instances to observe; it is implemented by *ladspa.Descriptor.
type Source interface {
	RangeInstances(callback func(*ladspa.Handle) bool)
}

type Metrics struct {
	Calls           metric.Int64ObservableCounter
	FramesProcessed metric.Int64ObservableCounter
	FramesMuted     metric.Int64ObservableCounter
	UnderrunSamples metric.Int64ObservableCounter
	EngineErrors    metric.Int64ObservableCounter
	BacklogBytes    metric.Int64ObservableGauge

	Source       Source
	registration metric.Registration
}

func New(
	provider metric.MeterProvider,
	source Source,
) (*Metrics, error) {
	meter := provider.Meter(meterName)
	m := &Metrics{
		Source: source,
	}

	var err error
	counters := []struct {
		Ptr         *metric.Int64ObservableCounter
		Name        string
		Description string
		Unit        string
	}{
		{&m.Calls, "ntfilter.run.calls", "Amount of the run callback invocations.", "{call}"},
		{&m.FramesProcessed, "ntfilter.frames.processed", "Amount of frames passed through the engine.", "{frame}"},
		{&m.FramesMuted, "ntfilter.frames.muted", "Amount of frames replaced with silence by the voice activity gate.", "{frame}"},
		{&m.UnderrunSamples, "ntfilter.underrun.samples", "Amount of silent samples emitted due to not enough processed frames.", "{sample}"},
		{&m.EngineErrors, "ntfilter.engine.errors", "Amount of frames the engine failed to process.", "{frame}"},
	}
	for _, c := range counters {
		*c.Ptr, err = meter.Int64ObservableCounter(
			c.Name,
			metric.WithDescription(c.Description),
			metric.WithUnit(c.Unit),
		)
		if err != nil {
			return nil, fmt.Errorf("unable to create counter '%s': %w", c.Name, err)
		}
	}

	m.BacklogBytes, err = meter.Int64ObservableGauge(
		"ntfilter.backlog",
		metric.WithDescription("Amount of bytes kept in the ring buffers between the run callback invocations."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create gauge 'ntfilter.backlog': %w", err)
	}

	m.registration, err = meter.RegisterCallback(
		m.observe,
		m.Calls, m.FramesProcessed, m.FramesMuted, m.UnderrunSamples, m.EngineErrors,
		m.BacklogBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to register the callback: %w", err)
	}
	return m, nil
}

func (m *Metrics) observe(_ context.Context, o metric.Observer) error {
	m.Source.RangeInstances(func(h *ladspa.Handle) bool {
		s := h.StatsSnapshot()
		attrs := metric.WithAttributes(AttributeInstance.Int64(int64(h.InstanceID())))
		o.ObserveInt64(m.Calls, int64(s.Calls), attrs)
		o.ObserveInt64(m.FramesProcessed, int64(s.FramesProcessed), attrs)
		o.ObserveInt64(m.FramesMuted, int64(s.FramesMuted), attrs)
		o.ObserveInt64(m.UnderrunSamples, int64(s.UnderrunSamples), attrs)
		o.ObserveInt64(m.EngineErrors, int64(s.EngineErrors), attrs)
		o.ObserveInt64(m.BacklogBytes, int64(s.BacklogBytes), attrs)
		return true
	})
	return nil
}

// Close stops observing the source.
func (m *Metrics) Close() error {
	return m.registration.Unregister()
}
