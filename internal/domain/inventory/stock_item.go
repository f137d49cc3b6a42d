package inventory

import (
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is the materialized on-hand counter for one product in one
// tenant. It is the only globally shared mutable value the engine touches,
// and it is only ever mutated through ApplyDelta inside the same transaction
// that appends the corresponding StockMovement. Reading the counter and
// writing a new value across separate round trips is the lost-update bug this
// type exists to prevent.
type StockItem struct {
	shared.TenantAggregateRoot
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_items_tenant_product"`
	OnHand    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a zero-stock counter for a product
func NewStockItem(tenantID, productID uuid.UUID) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}

	return &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		OnHand:              decimal.Zero,
	}, nil
}

// ApplyDelta adjusts the counter by a signed delta, clamped at a floor of
// zero, and reports the balances before and after for the ledger row.
func (s *StockItem) ApplyDelta(delta decimal.Decimal) (before, after decimal.Decimal) {
	before = s.OnHand
	after = s.OnHand.Add(delta)
	if after.IsNegative() {
		after = decimal.Zero
	}

	s.OnHand = after
	s.Touch()
	s.IncrementVersion()

	return before, after
}
