package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineMetrics tracks the reconciliation engine's business activity:
// returns filed, decisions taken, refund volume and notes issued.
type EngineMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	returnCreatedTotal *Counter
	decisionTotal      *Counter
	refundAmountTotal  *Counter
	noteIssuedTotal    *Counter
	decisionDuration   *Histogram

	pendingReturns *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	pendingProvider PendingReturnsProvider
}

// PendingReturnsProvider reports the number of undecided returns per tenant.
// The interface keeps the telemetry layer off the domain repositories.
type PendingReturnsProvider interface {
	CountPendingReturns(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// EngineMetricsConfig holds configuration for engine metrics.
type EngineMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	PendingProvider PendingReturnsProvider
}

// NewEngineMetrics creates a new EngineMetrics instance.
func NewEngineMetrics(cfg EngineMetricsConfig) (*EngineMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	em := &EngineMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		pendingProvider: cfg.PendingProvider,
	}

	var err error

	em.returnCreatedTotal, err = NewCounter(
		cfg.Meter,
		"returns_created_total",
		"Total number of returns filed",
		"{returns}",
	)
	if err != nil {
		return nil, err
	}

	em.decisionTotal, err = NewCounter(
		cfg.Meter,
		"returns_decision_total",
		"Total number of return decisions taken",
		"{decisions}",
	)
	if err != nil {
		return nil, err
	}

	em.refundAmountTotal, err = NewCounter(
		cfg.Meter,
		"returns_refund_amount_total",
		"Total refunded amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	em.noteIssuedTotal, err = NewCounter(
		cfg.Meter,
		"notes_issued_total",
		"Total number of credit and debit notes issued",
		"{notes}",
	)
	if err != nil {
		return nil, err
	}

	em.decisionDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "returns_decision_duration_seconds",
		Description: "Duration of the approve or reject transaction",
		Unit:        "s",
		Boundaries:  DecisionDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	em.pendingReturns, err = NewGauge(
		cfg.Meter,
		"returns_pending",
		"Current number of undecided returns",
		"{returns}",
	)
	if err != nil {
		return nil, err
	}

	return em, nil
}

// RecordReturnCreated records a return being filed.
func (em *EngineMetrics) RecordReturnCreated(ctx context.Context, tenantID uuid.UUID, kind string) {
	em.returnCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrReturnKind.String(kind),
	)
}

// RecordDecision records a decision outcome and how long the transaction took.
func (em *EngineMetrics) RecordDecision(ctx context.Context, tenantID uuid.UUID, kind, decision string, elapsed time.Duration) {
	em.decisionTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrReturnKind.String(kind),
		AttrDecision.String(decision),
	)
	em.decisionDuration.RecordDuration(ctx, elapsed,
		AttrReturnKind.String(kind),
		AttrDecision.String(decision),
	)
}

// RecordRefund records the refunded amount for an approved return.
// Amounts are converted to the smallest currency unit.
func (em *EngineMetrics) RecordRefund(ctx context.Context, tenantID uuid.UUID, kind string, amount decimal.Decimal) {
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	em.refundAmountTotal.Add(ctx, cents,
		AttrTenantID.String(tenantID.String()),
		AttrReturnKind.String(kind),
	)
}

// RecordNoteIssued records the issuance of a credit or debit note.
func (em *EngineMetrics) RecordNoteIssued(ctx context.Context, tenantID uuid.UUID, noteKind string) {
	em.noteIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrNoteKind.String(noteKind),
	)
}

// StartPeriodicCollection starts periodic collection of the pending-returns
// gauge. Non-blocking; use Stop() to stop collection.
func (em *EngineMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	em.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go em.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (em *EngineMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	em.collectPendingMetrics(ctx, tenantProvider)

	for {
		select {
		case <-em.stopChan:
			em.logger.Info("Stopping periodic engine metrics collection")
			return
		case <-ctx.Done():
			em.logger.Info("Context cancelled, stopping periodic engine metrics collection")
			return
		case <-ticker.C:
			em.collectPendingMetrics(ctx, tenantProvider)
		}
	}
}

func (em *EngineMetrics) collectPendingMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if em.pendingProvider == nil {
		em.logger.Debug("No pending-returns provider configured, skipping collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		em.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		count, err := em.pendingProvider.CountPendingReturns(ctx, tenantID)
		if err != nil {
			em.logger.Warn("Failed to count pending returns for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		em.pendingReturns.Record(ctx, count,
			AttrTenantID.String(tenantID.String()),
		)
	}
}

// Stop stops the periodic collection.
func (em *EngineMetrics) Stop() {
	em.stopOnce.Do(func() {
		close(em.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewEngineMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
