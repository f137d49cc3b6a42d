package inventory

import (
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the cause of a stock movement
type MovementType string

const (
	// MovementTypeSaleReturn restocks goods coming back from a customer
	MovementTypeSaleReturn MovementType = "SALE_RETURN"
	// MovementTypePurchaseReturn ships goods back to a supplier
	MovementTypePurchaseReturn MovementType = "PURCHASE_RETURN"
	// MovementTypeReturnScrap writes off damaged or defective returned goods
	// instead of restocking them; it carries a zero stock delta
	MovementTypeReturnScrap MovementType = "RETURN_SCRAP"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSaleReturn, MovementTypePurchaseReturn, MovementTypeReturnScrap:
		return true
	}
	return false
}

// StockMovement is an immutable, append-only record of a stock quantity
// change. Current stock is always derivable as the sum of movement deltas;
// the materialized StockItem counter is kept consistent with the ledger in
// the same transaction. Corrections are made with new movements, never edits.
type StockMovement struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_tenant_time,priority:1"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType  MovementType    `gorm:"type:varchar(30);not null;index"`
	QuantityDelta decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnID      uuid.UUID       `gorm:"type:uuid;not null;index"` // return that caused the movement
	Note          string          `gorm:"type:varchar(255)"`
	OccurredAt    time.Time       `gorm:"not null;index:idx_stock_mv_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a ledger entry for a return-driven stock change
func NewStockMovement(
	tenantID, productID, returnID uuid.UUID,
	movementType MovementType,
	delta, balanceBefore, balanceAfter decimal.Decimal,
	note string,
) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if returnID == uuid.Nil {
		return nil, shared.NewValidationError("Return reference cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Invalid movement type")
	}
	if delta.IsZero() && movementType != MovementTypeReturnScrap {
		return nil, shared.NewValidationError("Movement delta cannot be zero")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ProductID:     productID,
		MovementType:  movementType,
		QuantityDelta: delta,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		ReturnID:      returnID,
		Note:          note,
		OccurredAt:    time.Now(),
	}, nil
}
