package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/ntfilter/pkg/filter"
	"github.com/xaionaro-go/ntfilter/pkg/frame"
	"github.com/xaionaro-go/ntfilter/pkg/ladspa"
	"github.com/xaionaro-go/ntfilter/pkg/noisesuppression"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func valuesByInstance(t *testing.T, rm metricdata.ResourceMetrics, name string) map[int64]int64 {
	t.Helper()
	m := findMetric(rm, name)
	require.NotNil(t, m, name)

	var points []metricdata.DataPoint[int64]
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		require.True(t, data.IsMonotonic, name)
		points = data.DataPoints
	case metricdata.Gauge[int64]:
		points = data.DataPoints
	default:
		t.Fatalf("unexpected data type %T of %s", m.Data, name)
	}

	result := map[int64]int64{}
	for _, dp := range points {
		v, ok := dp.Attributes.Value(AttributeInstance)
		require.True(t, ok, name)
		result[v.AsInt64()] = dp.Value
	}
	return result
}

func TestObservesInstances(t *testing.T) {
	ctx := context.Background()
	ladspa.Init(ctx, ladspa.OptionEngineFactory(func(context.Context) (noisesuppression.Engine, error) {
		return noisesuppression.NewDummy(0), nil
	}))
	defer ladspa.Teardown(ctx)
	d := ladspa.DescriptorAt(0)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := New(mp, d)
	require.NoError(t, err)

	a, err := d.Instantiate(ctx, frame.SampleRate)
	require.NoError(t, err)
	b, err := d.Instantiate(ctx, frame.SampleRate)
	require.NoError(t, err)

	in := make([]float32, 100)
	out := make([]float32, 100)
	for _, h := range []*ladspa.Handle{a, b} {
		require.NoError(t, h.ConnectPort(filter.PortVAD, []float32{50}))
		require.NoError(t, h.ConnectPort(filter.PortInput, in))
		require.NoError(t, h.ConnectPort(filter.PortOutput, out))
	}
	a.Run(100)
	for range 5 {
		b.Run(100)
	}

	rm := collect(t, reader)
	idA, idB := int64(a.InstanceID()), int64(b.InstanceID())
	require.Equal(t, map[int64]int64{idA: 1, idB: 5}, valuesByInstance(t, rm, "ntfilter.run.calls"))
	require.Equal(t, map[int64]int64{idA: 0, idB: 1}, valuesByInstance(t, rm, "ntfilter.frames.processed"))
	require.Equal(t, map[int64]int64{idA: 0, idB: 0}, valuesByInstance(t, rm, "ntfilter.frames.muted"))
	require.Equal(t, map[int64]int64{idA: 100, idB: 400}, valuesByInstance(t, rm, "ntfilter.underrun.samples"))
	require.Equal(t, map[int64]int64{idA: 0, idB: 0}, valuesByInstance(t, rm, "ntfilter.engine.errors"))
	require.Equal(t, map[int64]int64{idA: 100 * frame.SampleSize, idB: (20 + 380) * frame.SampleSize}, valuesByInstance(t, rm, "ntfilter.backlog"))

	require.NoError(t, a.Cleanup(ctx))
	b.Run(100)
	rm = collect(t, reader)
	require.Equal(t, int64(6), valuesByInstance(t, rm, "ntfilter.run.calls")[idB])

	require.NoError(t, m.Close())
	require.NoError(t, b.Cleanup(ctx))
}
