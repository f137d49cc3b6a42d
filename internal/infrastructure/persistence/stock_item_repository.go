package persistence

import (
	"context"
	"errors"

	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByProduct finds the stock counter for a product within a tenant
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProductForUpdate loads the counter with an exclusive row lock,
// creating a zero counter when the product has never been stocked. Must run
// inside a transaction.
func (r *GormStockItemRepository) FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := lockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh, newErr := inventory.NewStockItem(tenantID, productID)
	if newErr != nil {
		return nil, newErr
	}
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, err
	}
	// Re-read under lock so concurrent creators converge on one row
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persists the counter. Updates are guarded by the aggregate version so
// a stale in-memory counter can never overwrite a newer row. ApplyDelta may
// bump the version more than once between load and save, so the guard is a
// strict ordering check rather than an exact predecessor match.
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	if item.Version <= 1 {
		return r.db.WithContext(ctx).Create(item).Error
	}

	result := r.db.WithContext(ctx).Model(&inventory.StockItem{}).
		Where("id = ? AND version < ?", item.ID, item.Version).
		Updates(map[string]interface{}{
			"on_hand":    item.OnHand,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&inventory.StockItem{}).
			Where("id = ?", item.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.db.WithContext(ctx).Create(item).Error
	}
	return nil
}

var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
