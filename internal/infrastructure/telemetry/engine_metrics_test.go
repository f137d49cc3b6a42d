package telemetry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IdrisInc/smartbz/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestNewEngineMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, em)
}

func TestNewEngineMetrics_NilMeter(t *testing.T) {
	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, em)
	assert.Equal(t, "NewEngineMetrics: meter cannot be nil", err.Error())
}

func TestEngineMetrics_RecordReturnActivity(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()

	// Should not panic
	em.RecordReturnCreated(ctx, tenantID, "SALE")
	em.RecordReturnCreated(ctx, tenantID, "PURCHASE")
	em.RecordDecision(ctx, tenantID, "SALE", "APPROVED", 25*time.Millisecond)
	em.RecordDecision(ctx, tenantID, "SALE", "REJECTED", 5*time.Millisecond)
	em.RecordRefund(ctx, tenantID, "SALE", decimal.NewFromFloat(199.99))
	em.RecordNoteIssued(ctx, tenantID, "CREDIT")
	em.RecordNoteIssued(ctx, tenantID, "DEBIT")
}

type stubTenantProvider struct {
	tenantIDs []uuid.UUID
}

func (p *stubTenantProvider) GetActiveTenantIDs(_ context.Context) ([]uuid.UUID, error) {
	return p.tenantIDs, nil
}

type stubPendingProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *stubPendingProvider) CountPendingReturns(_ context.Context, _ uuid.UUID) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return 3, nil
}

func (p *stubPendingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestEngineMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	pending := &stubPendingProvider{}

	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
		Meter:           meter,
		Logger:          zap.NewNop(),
		PendingProvider: pending,
	})
	require.NoError(t, err)

	tenants := &stubTenantProvider{tenantIDs: []uuid.UUID{uuid.New(), uuid.New()}}
	em.StartPeriodicCollection(context.Background(), tenants, time.Hour)
	defer em.Stop()

	// collection runs once immediately on start
	assert.Eventually(t, func() bool {
		return pending.callCount() == len(tenants.tenantIDs)
	}, time.Second, 10*time.Millisecond)
}

func TestEngineMetrics_StopIsIdempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	em.Stop()
	em.Stop()
}
