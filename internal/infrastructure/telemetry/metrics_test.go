package telemetry_test

import (
	"context"
	"testing"

	"github.com/IdrisInc/smartbz/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled: false,
	}, zap.NewNop())

	require.NoError(t, err)
	require.NotNil(t, mp)
	assert.False(t, mp.IsEnabled())

	// disabled provider hands out the global no-op meter
	meter := mp.Meter("test")
	assert.NotNil(t, meter)

	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestCounterHelpers(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)
	meter := mp.Meter("test")

	counter, err := telemetry.NewCounter(meter, "test_total", "test counter", "{ops}")
	require.NoError(t, err)
	counter.Inc(context.Background())
	counter.Add(context.Background(), 5)

	histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "test_duration_seconds",
		Description: "test histogram",
		Unit:        "s",
		Boundaries:  telemetry.DecisionDurationBuckets,
	})
	require.NoError(t, err)
	histogram.Record(context.Background(), 0.5)

	gauge, err := telemetry.NewGauge(meter, "test_gauge", "test gauge", "{items}")
	require.NoError(t, err)
	gauge.Record(context.Background(), 42)
}
