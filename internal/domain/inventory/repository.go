package inventory

import (
	"context"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository is the storage contract for materialized stock counters
type StockItemRepository interface {
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*StockItem, error)
	// FindByProductForUpdate loads the counter with an exclusive row lock,
	// creating a zero counter if none exists yet. Only the approve transaction
	// uses this path.
	FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*StockItem, error)
	Save(ctx context.Context, item *StockItem) error
}

// StockMovementRepository is the append-only storage contract for the ledger
type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByReturn(ctx context.Context, tenantID, returnID uuid.UUID) ([]StockMovement, error)
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
}
