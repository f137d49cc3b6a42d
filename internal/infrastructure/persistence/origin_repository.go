package persistence

import (
	"context"
	"errors"

	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOriginRepository implements OriginRepository using GORM
type GormOriginRepository struct {
	db *gorm.DB
}

// NewGormOriginRepository creates a new GormOriginRepository
func NewGormOriginRepository(db *gorm.DB) *GormOriginRepository {
	return &GormOriginRepository{db: db}
}

// FindByIDForTenant finds an origin by ID within a tenant
func (r *GormOriginRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*returns.Origin, error) {
	var origin returns.Origin
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&origin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &origin, nil
}

// FindByIDForUpdate loads the origin with a row lock for returned-quantity
// bookkeeping. Must run inside a transaction.
func (r *GormOriginRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*returns.Origin, error) {
	var origin returns.Origin
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&origin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("origin_id = ?", origin.ID).
		Order("created_at ASC").
		Find(&origin.Lines).Error; err != nil {
		return nil, err
	}
	return &origin, nil
}

// Save creates or updates an origin and reconciles its lines
func (r *GormOriginRepository) Save(ctx context.Context, origin *returns.Origin) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(origin).Error; err != nil {
			return err
		}

		currentLineIDs := make([]uuid.UUID, len(origin.Lines))
		for i, line := range origin.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("origin_id = ? AND id NOT IN ?", origin.ID, currentLineIDs).
				Delete(&returns.OriginLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("origin_id = ?", origin.ID).
				Delete(&returns.OriginLine{}).Error; err != nil {
				return err
			}
		}

		for i := range origin.Lines {
			if err := tx.Save(&origin.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ returns.OriginRepository = (*GormOriginRepository)(nil)
