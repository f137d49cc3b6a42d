package returns

import (
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Return DTOs ====================

// CreateReturnRequest represents a request to create a return
type CreateReturnRequest struct {
	Kind       string                  `json:"kind" binding:"required,oneof=SALE PURCHASE"`
	OriginID   uuid.UUID               `json:"origin_id" binding:"required"`
	RefundType string                  `json:"refund_type" binding:"omitempty,oneof=FULL PARTIAL NONE"`
	Lines      []CreateReturnLineInput `json:"lines" binding:"required,min=1"`
	Reason     string                  `json:"reason" binding:"max=255"`
	Remark     string                  `json:"remark" binding:"max=500"`
	CreatedBy  *uuid.UUID              `json:"-"`
}

// CreateReturnLineInput represents a line in the create return request
type CreateReturnLineInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=255"`
	ProductCode string          `json:"product_code" binding:"max=100"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Condition   string          `json:"condition" binding:"required"`
	Remark      string          `json:"remark" binding:"max=255"`
}

// RejectReturnRequest represents a request to reject a return
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=255"`
}

// ReturnListFilter represents filter options for the return list
type ReturnListFilter struct {
	Search   string  `form:"search"`
	Kind     *string `form:"kind"`
	Status   *string `form:"status"`
	Page     int     `form:"page,default=1"`
	PageSize int     `form:"page_size,default=20"`
}

// ReturnSummaryResponse reports per-status return counts for a tenant
type ReturnSummaryResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// ReturnLineResponse represents a return line in API responses
type ReturnLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Condition   string          `json:"condition"`
	Remark      string          `json:"remark,omitempty"`
}

// ReturnResponse represents a return in API responses
type ReturnResponse struct {
	ID               uuid.UUID            `json:"id"`
	TenantID         uuid.UUID            `json:"tenant_id"`
	ReturnNumber     string               `json:"return_number"`
	Kind             string               `json:"kind"`
	OriginID         uuid.UUID            `json:"origin_id"`
	OriginNumber     string               `json:"origin_number"`
	CounterpartyID   uuid.UUID            `json:"counterparty_id"`
	CounterpartyName string               `json:"counterparty_name"`
	Lines            []ReturnLineResponse `json:"lines"`
	Amount           decimal.Decimal      `json:"amount"`
	Discount         decimal.Decimal      `json:"discount"`
	Tax              decimal.Decimal      `json:"tax"`
	Total            decimal.Decimal      `json:"total"`
	RefundAmount     decimal.Decimal      `json:"refund_amount"`
	RefundType       string               `json:"refund_type,omitempty"`
	Status           string               `json:"status"`
	Reason           string               `json:"reason,omitempty"`
	Remark           string               `json:"remark,omitempty"`
	DecidedAt        *time.Time           `json:"decided_at,omitempty"`
	DecidedBy        *uuid.UUID           `json:"decided_by,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int                  `json:"version"`
}

// ApproveReturnResponse is the result of an approval: the decided return plus
// the note and ledger entries the transaction produced
type ApproveReturnResponse struct {
	Return    ReturnResponse          `json:"return"`
	Note      NoteResponse            `json:"note"`
	Movements []StockMovementResponse `json:"movements"`
}

// ==================== Note DTOs ====================

// CancelNoteRequest represents a request to cancel a financial note
type CancelNoteRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=255"`
}

// NoteResponse represents a financial note in API responses
type NoteResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	NoteNumber       string          `json:"note_number"`
	Kind             string          `json:"kind"`
	ReturnID         uuid.UUID       `json:"return_id"`
	ReturnNumber     string          `json:"return_number"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name"`
	Amount           decimal.Decimal `json:"amount"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Reason           string          `json:"reason,omitempty"`
	IssuedAt         time.Time       `json:"issued_at"`
	AppliedAt        *time.Time      `json:"applied_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason     string          `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Version          int             `json:"version"`
}

// ==================== Movement DTOs ====================

// StockMovementResponse represents a ledger entry in API responses
type StockMovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	MovementType  string          `json:"movement_type"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReturnID      uuid.UUID       `json:"return_id"`
	Note          string          `json:"note,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// MovementListFilter represents filter options for the movement list
type MovementListFilter struct {
	ProductID uuid.UUID `form:"product_id" binding:"required"`
	Page      int       `form:"page,default=1"`
	PageSize  int       `form:"page_size,default=20"`
}

// ==================== Converters ====================

// ToReturnLineResponse converts a domain ReturnLine to a response DTO
func ToReturnLineResponse(line *returns.ReturnLine) ReturnLineResponse {
	return ReturnLineResponse{
		ID:          line.ID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		ProductCode: line.ProductCode,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Discount:    line.Discount,
		TaxRate:     line.TaxRate,
		TaxAmount:   line.TaxAmount,
		LineTotal:   line.LineTotal,
		Condition:   string(line.Condition),
		Remark:      line.Remark,
	}
}

// ToReturnResponse converts a domain Return to a response DTO
func ToReturnResponse(r *returns.Return) ReturnResponse {
	lines := make([]ReturnLineResponse, len(r.Lines))
	for i := range r.Lines {
		lines[i] = ToReturnLineResponse(&r.Lines[i])
	}

	return ReturnResponse{
		ID:               r.ID,
		TenantID:         r.TenantID,
		ReturnNumber:     r.ReturnNumber,
		Kind:             string(r.Kind),
		OriginID:         r.OriginID,
		OriginNumber:     r.OriginNumber,
		CounterpartyID:   r.CounterpartyID,
		CounterpartyName: r.CounterpartyName,
		Lines:            lines,
		Amount:           r.Amount,
		Discount:         r.Discount,
		Tax:              r.Tax,
		Total:            r.Total,
		RefundAmount:     r.RefundAmount,
		RefundType:       string(r.RefundType),
		Status:           string(r.Status),
		Reason:           r.Reason,
		Remark:           r.Remark,
		DecidedAt:        r.DecidedAt,
		DecidedBy:        r.DecidedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}
}

// ToNoteResponse converts a domain FinancialNote to a response DTO
func ToNoteResponse(n *finance.FinancialNote) NoteResponse {
	return NoteResponse{
		ID:               n.ID,
		TenantID:         n.TenantID,
		NoteNumber:       n.NoteNumber,
		Kind:             string(n.Kind),
		ReturnID:         n.ReturnID,
		ReturnNumber:     n.ReturnNumber,
		CounterpartyID:   n.CounterpartyID,
		CounterpartyName: n.CounterpartyName,
		Amount:           n.Amount,
		Tax:              n.Tax,
		Total:            n.Total,
		Currency:         string(n.Currency),
		Status:           string(n.Status),
		Reason:           n.Reason,
		IssuedAt:         n.IssuedAt,
		AppliedAt:        n.AppliedAt,
		CancelledAt:      n.CancelledAt,
		CancelReason:     n.CancelReason,
		CreatedAt:        n.CreatedAt,
		Version:          n.Version,
	}
}

// ToStockMovementResponse converts a domain StockMovement to a response DTO
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		MovementType:  string(m.MovementType),
		QuantityDelta: m.QuantityDelta,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReturnID:      m.ReturnID,
		Note:          m.Note,
		OccurredAt:    m.OccurredAt,
	}
}
