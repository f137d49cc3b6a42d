package returns

import (
	"fmt"
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind discriminates the direction of a return. A sale return brings goods
// back from a customer; a purchase return sends goods back to a supplier.
type Kind string

const (
	KindSale     Kind = "SALE"
	KindPurchase Kind = "PURCHASE"
)

// IsValid checks if the kind is a valid Kind
func (k Kind) IsValid() bool {
	return k == KindSale || k == KindPurchase
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Status represents the lifecycle state of a return.
// PENDING permits exactly one transition, to APPROVED or REJECTED.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for decided statuses
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

// RefundType is the refund policy for sale returns. Purchase returns have no
// refund concept; the debit note always reduces the payable by the full total.
type RefundType string

const (
	RefundFull    RefundType = "FULL"
	RefundPartial RefundType = "PARTIAL"
	RefundNone    RefundType = "NONE"
)

// IsValid checks if the refund type is valid
func (rt RefundType) IsValid() bool {
	switch rt {
	case RefundFull, RefundPartial, RefundNone:
		return true
	}
	return false
}

// String returns the string representation of RefundType
func (rt RefundType) String() string {
	return string(rt)
}

// Condition classifies the physical state of a returned line item. It is the
// sole determinant of refund eligibility under the PARTIAL policy and is
// recorded for audit on every line regardless of policy.
type Condition string

const (
	ConditionGood      Condition = "GOOD"
	ConditionDamaged   Condition = "DAMAGED"
	ConditionDefective Condition = "DEFECTIVE"
	ConditionExcess    Condition = "EXCESS"
	ConditionWrongItem Condition = "WRONG_ITEM"
)

// String returns the string representation of Condition
func (c Condition) String() string {
	return string(c)
}

// ValidFor reports whether the condition is permitted for the given kind
func (c Condition) ValidFor(kind Kind) bool {
	switch kind {
	case KindSale:
		return c == ConditionGood || c == ConditionDamaged || c == ConditionDefective
	case KindPurchase:
		return c == ConditionDefective || c == ConditionDamaged || c == ConditionExcess || c == ConditionWrongItem
	}
	return false
}

// RefundEligible reports whether a sale-return line in this condition is
// refunded under the PARTIAL policy
func (c Condition) RefundEligible() bool {
	return c == ConditionGood
}

// Scrappable reports whether a sale-return line in this condition is routed to
// a scrap movement instead of restocking when the scrap policy is enabled
func (c Condition) Scrappable() bool {
	return c == ConditionDamaged || c == ConditionDefective
}

// ReturnLine represents a line item in a return. A line belongs to exactly one
// Return; lines may be deleted with a pending return, never after a decision.
type ReturnLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReturnID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	ProductCode string          `gorm:"type:varchar(100)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // absolute per-line discount
	TaxRate     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`  // percentage, 0-100
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice * TaxRate / 100
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice - Discount + TaxAmount
	Condition   Condition       `gorm:"type:varchar(20);not null"`
	Remark      string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (ReturnLine) TableName() string {
	return "return_lines"
}

var oneHundred = decimal.NewFromInt(100)

// NewReturnLine creates a new return line and derives its tax and total.
// Per-line amounts stay unrounded; rounding happens once at the return total.
func NewReturnLine(
	returnID, productID uuid.UUID,
	productName, productCode string,
	quantity, unitPrice, discount, taxRate decimal.Decimal,
	condition Condition,
	kind Kind,
) (*ReturnLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Return quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewValidationError("Discount cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return nil, shared.NewValidationError("Tax rate must be between 0 and 100")
	}
	if !condition.ValidFor(kind) {
		return nil, shared.NewValidationError(fmt.Sprintf("Condition %s is not valid for %s returns", condition, kind))
	}

	now := time.Now()
	gross := quantity.Mul(unitPrice)
	taxAmount := gross.Mul(taxRate).Div(oneHundred)

	return &ReturnLine{
		ID:          uuid.New(),
		ReturnID:    returnID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
		TaxRate:     taxRate,
		TaxAmount:   taxAmount,
		LineTotal:   gross.Sub(discount).Add(taxAmount),
		Condition:   condition,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// StockDelta returns the signed stock movement this line produces on approval.
// Sale returns restock (+quantity), purchase returns ship back (-quantity).
// With the scrap policy enabled, damaged and defective sale lines are written
// off instead of restocked and contribute no delta.
func (l *ReturnLine) StockDelta(kind Kind, scrapDamaged bool) decimal.Decimal {
	switch kind {
	case KindSale:
		if scrapDamaged && l.Condition.Scrappable() {
			return decimal.Zero
		}
		return l.Quantity
	case KindPurchase:
		return l.Quantity.Neg()
	}
	return decimal.Zero
}

// Return is the aggregate root for a sale or purchase return. The kind is a
// tagged variant selecting sign-of-delta and credit-vs-debit semantics; the
// transition guard and note issuance are shared.
type Return struct {
	shared.TenantAggregateRoot
	ReturnNumber     string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_returns_tenant_number"`
	Kind             Kind         `gorm:"type:varchar(10);not null;index"`
	OriginID         uuid.UUID    `gorm:"type:uuid;not null;index"` // originating sale or purchase transaction
	OriginNumber     string       `gorm:"type:varchar(50)"`
	CounterpartyID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	CounterpartyName string       `gorm:"type:varchar(255)"`
	Lines            []ReturnLine `gorm:"foreignKey:ReturnID;references:ID"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // subtotal
	Discount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RefundAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RefundType       RefundType      `gorm:"type:varchar(10)"` // sale returns only
	Status           Status          `gorm:"type:varchar(10);not null;index"`
	Reason           string          `gorm:"type:varchar(255)"`
	Remark           string          `gorm:"type:varchar(500)"`
	DecidedAt        *time.Time
	DecidedBy        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a pending return against an originating transaction.
// Sale returns carry a refund policy (FULL when unspecified); purchase returns
// must not carry one.
func NewReturn(
	tenantID uuid.UUID,
	returnNumber string,
	kind Kind,
	origin *Origin,
	refundType RefundType,
) (*Return, error) {
	if returnNumber == "" {
		return nil, shared.NewValidationError("Return number cannot be empty")
	}
	if len(returnNumber) > 50 {
		return nil, shared.NewValidationError("Return number cannot exceed 50 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Return kind must be SALE or PURCHASE")
	}
	if origin == nil {
		return nil, shared.NewValidationError("Originating transaction cannot be nil")
	}
	if origin.Kind != kind {
		return nil, shared.NewValidationError("Originating transaction kind does not match return kind")
	}

	switch kind {
	case KindSale:
		if refundType == "" {
			refundType = RefundFull
		}
		if !refundType.IsValid() {
			return nil, shared.NewValidationError("Refund type must be FULL, PARTIAL or NONE")
		}
	case KindPurchase:
		if refundType != "" {
			return nil, shared.NewValidationError("Purchase returns do not carry a refund type")
		}
	}

	r := &Return{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		Kind:                kind,
		OriginID:            origin.ID,
		OriginNumber:        origin.OriginNumber,
		CounterpartyID:      origin.CounterpartyID,
		CounterpartyName:    origin.CounterpartyName,
		Lines:               make([]ReturnLine, 0),
		Amount:              decimal.Zero,
		Discount:            decimal.Zero,
		Tax:                 decimal.Zero,
		Total:               decimal.Zero,
		RefundAmount:        decimal.Zero,
		RefundType:          refundType,
		Status:              StatusPending,
	}

	r.AddDomainEvent(NewReturnCreatedEvent(r))

	return r, nil
}

// AddLine appends a line to a pending return, validating against the
// originating transaction. Sale-return quantities are capped at the remaining
// returnable quantity recorded on the origin line.
func (r *Return) AddLine(
	origin *Origin,
	productID uuid.UUID,
	productName, productCode string,
	quantity, unitPrice, discount, taxRate decimal.Decimal,
	condition Condition,
) (*ReturnLine, error) {
	if r.Status != StatusPending {
		return nil, shared.ErrAlreadyDecided
	}
	if origin == nil || origin.ID != r.OriginID {
		return nil, shared.NewValidationError("Line must reference the return's originating transaction")
	}

	originLine := origin.LineForProduct(productID)
	if originLine == nil {
		return nil, shared.NewValidationError("Product is not present on the originating transaction")
	}
	if r.Kind == KindSale {
		remaining := originLine.RemainingReturnable()
		requested := quantity.Add(r.quantityForProduct(productID))
		if requested.GreaterThan(remaining) {
			return nil, shared.NewValidationError(fmt.Sprintf(
				"Return quantity %s exceeds remaining returnable quantity %s for product %s",
				requested.String(), remaining.String(), productName,
			))
		}
	}

	line, err := NewReturnLine(r.ID, productID, productName, productCode, quantity, unitPrice, discount, taxRate, condition, r.Kind)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.recalculate()
	r.Touch()

	return line, nil
}

// RemoveLine deletes a line from a pending return and recomputes the totals
func (r *Return) RemoveLine(lineID uuid.UUID) error {
	if r.Status != StatusPending {
		return shared.ErrAlreadyDecided
	}

	for i, line := range r.Lines {
		if line.ID == lineID {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			r.recalculate()
			r.Touch()
			return nil
		}
	}
	return shared.NewValidationError("Line does not exist on this return")
}

// quantityForProduct sums quantities already on this return for a product
func (r *Return) quantityForProduct(productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		if line.ProductID == productID {
			total = total.Add(line.Quantity)
		}
	}
	return total
}

// recalculate rederives the financial totals from the lines. The refund amount
// follows the refund policy; purchase returns track the debit total instead.
func (r *Return) recalculate() {
	fin := Calculate(r.Lines, r.Kind, r.RefundType)
	r.Amount = fin.Subtotal
	r.Discount = fin.DiscountTotal
	r.Tax = fin.TaxTotal
	r.Total = fin.Total
	r.RefundAmount = fin.RefundAmount
}

// Financials recomputes the return's monetary breakdown from its lines
func (r *Return) Financials() Financials {
	return Calculate(r.Lines, r.Kind, r.RefundType)
}

// Approve transitions the return to APPROVED. The single-transition invariant
// lives here: any non-pending status fails with ALREADY_DECIDED.
func (r *Return) Approve(actorID uuid.UUID) error {
	if !r.Status.CanTransitionTo(StatusApproved) {
		return shared.ErrAlreadyDecided
	}
	if actorID == uuid.Nil {
		return shared.NewValidationError("Approver ID cannot be empty")
	}
	if len(r.Lines) == 0 {
		return shared.NewValidationError("Cannot approve a return without lines")
	}

	now := time.Now()
	r.Status = StatusApproved
	r.DecidedAt = &now
	r.DecidedBy = &actorID
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject transitions the return to REJECTED with no ledger or note effects.
// Rejecting an already-decided return fails with ALREADY_DECIDED.
func (r *Return) Reject(actorID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(StatusRejected) {
		return shared.ErrAlreadyDecided
	}
	if actorID == uuid.Nil {
		return shared.NewValidationError("Rejecter ID cannot be empty")
	}
	if reason == "" {
		return shared.NewValidationError("Rejection reason is required")
	}

	now := time.Now()
	r.Status = StatusRejected
	r.Reason = reason
	r.DecidedAt = &now
	r.DecidedBy = &actorID
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// SetReason sets the overall return reason
func (r *Return) SetReason(reason string) {
	r.Reason = reason
	r.Touch()
}

// SetRemark sets the free-text remark
func (r *Return) SetRemark(remark string) {
	r.Remark = remark
	r.Touch()
}

// IsPending returns true if the return awaits a decision
func (r *Return) IsPending() bool {
	return r.Status == StatusPending
}

// IsApproved returns true if the return is approved
func (r *Return) IsApproved() bool {
	return r.Status == StatusApproved
}

// IsRejected returns true if the return is rejected
func (r *Return) IsRejected() bool {
	return r.Status == StatusRejected
}

// LineCount returns the number of lines on the return
func (r *Return) LineCount() int {
	return len(r.Lines)
}
