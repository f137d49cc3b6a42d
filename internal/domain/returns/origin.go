package returns

import (
	"fmt"
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Origin is the snapshot of an originating sale or purchase transaction that a
// return reconciles against. Each line records how much has already been
// returned; the remainder is authoritative for over-return validation and is
// updated at approval time rather than recomputed from movement history.
type Origin struct {
	shared.TenantAggregateRoot
	OriginNumber     string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_origins_tenant_number"`
	Kind             Kind         `gorm:"type:varchar(10);not null;index"`
	CounterpartyID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	CounterpartyName string       `gorm:"type:varchar(255)"`
	Lines            []OriginLine `gorm:"foreignKey:OriginID;references:ID"`
}

// TableName returns the table name for GORM
func (Origin) TableName() string {
	return "origins"
}

// OriginLine is one product line on the originating transaction
type OriginLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OriginID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (OriginLine) TableName() string {
	return "origin_lines"
}

// RemainingReturnable returns the quantity still eligible for return
func (l *OriginLine) RemainingReturnable() decimal.Decimal {
	return l.Quantity.Sub(l.ReturnedQuantity)
}

// NewOrigin creates an origin snapshot with its lines
func NewOrigin(
	tenantID uuid.UUID,
	originNumber string,
	kind Kind,
	counterpartyID uuid.UUID,
	counterpartyName string,
) (*Origin, error) {
	if originNumber == "" {
		return nil, shared.NewValidationError("Origin number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Origin kind must be SALE or PURCHASE")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("Counterparty ID cannot be empty")
	}

	return &Origin{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OriginNumber:        originNumber,
		Kind:                kind,
		CounterpartyID:      counterpartyID,
		CounterpartyName:    counterpartyName,
		Lines:               make([]OriginLine, 0),
	}, nil
}

// AddLine appends a product line to the origin snapshot
func (o *Origin) AddLine(productID uuid.UUID, quantity, unitPrice decimal.Decimal) (*OriginLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Origin line quantity must be positive")
	}
	if o.LineForProduct(productID) != nil {
		return nil, shared.NewValidationError("Product already exists on the originating transaction")
	}

	now := time.Now()
	line := OriginLine{
		ID:               uuid.New(),
		OriginID:         o.ID,
		ProductID:        productID,
		Quantity:         quantity,
		ReturnedQuantity: decimal.Zero,
		UnitPrice:        unitPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	o.Lines = append(o.Lines, line)
	o.UpdatedAt = now

	return &o.Lines[len(o.Lines)-1], nil
}

// LineForProduct returns the origin line for a product, or nil
func (o *Origin) LineForProduct(productID uuid.UUID) *OriginLine {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// RecordReturned adds to a line's returned quantity. Called inside the approve
// transaction so the recorded remainder stays consistent with the decision.
func (o *Origin) RecordReturned(productID uuid.UUID, quantity decimal.Decimal) error {
	line := o.LineForProduct(productID)
	if line == nil {
		return shared.NewValidationError("Product is not present on the originating transaction")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Returned quantity must be positive")
	}
	if quantity.GreaterThan(line.RemainingReturnable()) {
		return shared.NewValidationError(fmt.Sprintf(
			"Returned quantity %s exceeds remaining returnable quantity %s",
			quantity.String(), line.RemainingReturnable().String(),
		))
	}

	now := time.Now()
	line.ReturnedQuantity = line.ReturnedQuantity.Add(quantity)
	line.UpdatedAt = now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}
