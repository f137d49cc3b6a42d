package returns

import (
	"context"
	"fmt"

	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"go.uber.org/zap"
)

// DecisionAuditHandler records an audit log entry for every return decision.
// Downstream accounting exports tail these entries; the engine itself never
// reads them back.
type DecisionAuditHandler struct {
	logger *zap.Logger
}

// NewDecisionAuditHandler creates a new handler for return decision events
func NewDecisionAuditHandler(logger *zap.Logger) *DecisionAuditHandler {
	return &DecisionAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *DecisionAuditHandler) EventTypes() []string {
	return []string{
		returns.EventTypeReturnApproved,
		returns.EventTypeReturnRejected,
	}
}

// Handle writes one audit entry per decision event
func (h *DecisionAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *returns.ReturnApprovedEvent:
		h.logger.Info("return approved",
			zap.String("return_id", e.ReturnID.String()),
			zap.String("return_number", e.ReturnNumber),
			zap.String("kind", string(e.Kind)),
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("total", e.Total.String()),
			zap.String("refund_amount", e.RefundAmount.String()),
			zap.String("decided_by", e.DecidedBy.String()),
		)
	case *returns.ReturnRejectedEvent:
		h.logger.Info("return rejected",
			zap.String("return_id", e.ReturnID.String()),
			zap.String("return_number", e.ReturnNumber),
			zap.String("kind", string(e.Kind)),
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("reason", e.Reason),
			zap.String("decided_by", e.DecidedBy.String()),
		)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
