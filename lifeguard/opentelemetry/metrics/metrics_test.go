//go:build unit

package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/LerianStudio/lib-lifeguard/lifeguard/log"
)

func newTestFactory(t *testing.T) (*MetricsFactory, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	factory, err := NewMetricsFactory(provider.Meter("test"), log.NewNop())
	require.NoError(t, err)

	return factory, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}

	return metricdata.Metrics{}, false
}

func TestNewMetricsFactory_NilMeter(t *testing.T) {
	t.Parallel()

	_, err := NewMetricsFactory(nil, log.NewNop())
	require.ErrorIs(t, err, ErrNilMeter)
}

func TestCounter_RecordsWithLabels(t *testing.T) {
	t.Parallel()

	factory, reader := newTestFactory(t)

	counter, err := factory.Counter(MetricContractHalt)
	require.NoError(t, err)

	require.NoError(t, counter.
		WithLabels(map[string]string{"component": "contract"}).
		AddOne(context.Background()))
	require.NoError(t, counter.
		WithLabels(map[string]string{"component": "contract"}).
		Add(context.Background(), 2))

	rm := collect(t, reader)
	m, found := findMetric(rm, MetricContractHalt.Name)
	require.True(t, found)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	component, found := sum.DataPoints[0].Attributes.Value(attribute.Key("component"))
	require.True(t, found)
	assert.Equal(t, "contract", component.AsString())
}

func TestCounter_CachedPerName(t *testing.T) {
	t.Parallel()

	factory, _ := newTestFactory(t)

	first, err := factory.Counter(MetricContractHalt)
	require.NoError(t, err)

	second, err := factory.Counter(MetricContractHalt)
	require.NoError(t, err)

	assert.Equal(t, first.counter, second.counter)
}

func TestCounter_WithAttributes(t *testing.T) {
	t.Parallel()

	factory, reader := newTestFactory(t)

	counter, err := factory.Counter(MetricChecklistStep)
	require.NoError(t, err)

	require.NoError(t, counter.
		WithAttributes(attribute.String("checklist", "boot")).
		AddOne(context.Background()))

	rm := collect(t, reader)
	m, found := findMetric(rm, MetricChecklistStep.Name)
	require.True(t, found)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
}

func TestGauge_SetRecordsLastValue(t *testing.T) {
	t.Parallel()

	factory, reader := newTestFactory(t)

	gauge, err := factory.Gauge(MetricDomainErrorBudget)
	require.NoError(t, err)

	require.NoError(t, gauge.Set(context.Background(), 12))
	require.NoError(t, gauge.Set(context.Background(), 9))

	rm := collect(t, reader)
	m, found := findMetric(rm, MetricDomainErrorBudget.Name)
	require.True(t, found)

	data, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, int64(9), data.DataPoints[0].Value)
}

func TestNopFactory(t *testing.T) {
	t.Parallel()

	factory := NewNopFactory()

	counter, err := factory.Counter(MetricDomainError)
	require.NoError(t, err)
	require.NoError(t, counter.AddOne(context.Background()))

	gauge, err := factory.Gauge(MetricDomainErrorBudget)
	require.NoError(t, err)
	require.NoError(t, gauge.Set(context.Background(), 1))
}

func TestNilInstrumentBuilders(t *testing.T) {
	t.Parallel()

	var counter CounterBuilder
	require.ErrorIs(t, counter.AddOne(context.Background()), ErrNilCounter)

	var gauge GaugeBuilder
	require.ErrorIs(t, gauge.Set(context.Background(), 1), ErrNilGauge)
}
