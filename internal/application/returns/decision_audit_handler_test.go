package returns

import (
	"context"
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecisionAuditHandler_EventTypes(t *testing.T) {
	h := NewDecisionAuditHandler(zap.NewNop())
	assert.ElementsMatch(t,
		[]string{returns.EventTypeReturnApproved, returns.EventTypeReturnRejected},
		h.EventTypes(),
	)
}

func TestDecisionAuditHandler_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewDecisionAuditHandler(zap.New(core))

	origin, err := returns.NewOrigin(uuid.New(), "SO-2026-00009", returns.KindSale, uuid.New(), "Acme Retail")
	require.NoError(t, err)
	_, err = origin.AddLine(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(10))
	require.NoError(t, err)

	r, err := returns.NewReturn(origin.TenantID, "SR-2026-00009", returns.KindSale, origin, returns.RefundFull)
	require.NoError(t, err)
	require.NoError(t, r.Reject(uuid.New(), "damaged packaging"))

	events := r.GetDomainEvents()
	require.NotEmpty(t, events)

	for _, event := range events {
		if event.EventType() == returns.EventTypeReturnRejected {
			require.NoError(t, h.Handle(context.Background(), event))
		}
	}

	entries := logs.FilterMessage("return rejected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, r.ReturnNumber, fields["return_number"])
	assert.Equal(t, "damaged packaging", fields["reason"])
}

func TestDecisionAuditHandler_RejectsForeignEvents(t *testing.T) {
	h := NewDecisionAuditHandler(zap.NewNop())

	event := &struct{ shared.BaseDomainEvent }{
		BaseDomainEvent: shared.NewBaseDomainEvent("SomethingElse", "Other", uuid.New(), uuid.New()),
	}
	assert.Error(t, h.Handle(context.Background(), event))
}
