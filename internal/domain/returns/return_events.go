package returns

import (
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Return
const AggregateTypeReturn = "Return"

// Event type constants for Return
const (
	EventTypeReturnCreated  = "ReturnCreated"
	EventTypeReturnApproved = "ReturnApproved"
	EventTypeReturnRejected = "ReturnRejected"
)

// ReturnCreatedEvent is raised when a new return enters PENDING
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID       uuid.UUID `json:"return_id"`
	ReturnNumber   string    `json:"return_number"`
	Kind           Kind      `json:"kind"`
	OriginID       uuid.UUID `json:"origin_id"`
	CounterpartyID uuid.UUID `json:"counterparty_id"`
}

// NewReturnCreatedEvent creates a ReturnCreatedEvent
func NewReturnCreatedEvent(r *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturn, r.ID, r.TenantID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		Kind:            r.Kind,
		OriginID:        r.OriginID,
		CounterpartyID:  r.CounterpartyID,
	}
}

// ReturnApprovedEvent is raised when a return is approved and its ledger and
// note side effects have been staged in the same transaction
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	Kind         Kind            `json:"kind"`
	Total        decimal.Decimal `json:"total"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	DecidedBy    uuid.UUID       `json:"decided_by"`
}

// NewReturnApprovedEvent creates a ReturnApprovedEvent
func NewReturnApprovedEvent(r *Return) *ReturnApprovedEvent {
	var decidedBy uuid.UUID
	if r.DecidedBy != nil {
		decidedBy = *r.DecidedBy
	}
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturn, r.ID, r.TenantID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		Kind:            r.Kind,
		Total:           r.Total,
		RefundAmount:    r.RefundAmount,
		DecidedBy:       decidedBy,
	}
}

// ReturnRejectedEvent is raised when a return is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	Kind         Kind      `json:"kind"`
	Reason       string    `json:"reason"`
	DecidedBy    uuid.UUID `json:"decided_by"`
}

// NewReturnRejectedEvent creates a ReturnRejectedEvent
func NewReturnRejectedEvent(r *Return) *ReturnRejectedEvent {
	var decidedBy uuid.UUID
	if r.DecidedBy != nil {
		decidedBy = *r.DecidedBy
	}
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeReturn, r.ID, r.TenantID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		Kind:            r.Kind,
		Reason:          r.Reason,
		DecidedBy:       decidedBy,
	}
}
