package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultNumberPadding is the width of the sequence part of generated
// document numbers
const defaultNumberPadding = 5

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db      *gorm.DB
	padding int
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db, padding: defaultNumberPadding}
}

// SetNumberPadding overrides the sequence width of generated return numbers
func (r *GormReturnRepository) SetNumberPadding(padding int) {
	if padding > 0 {
		r.padding = padding
	}
}

// FindByIDForTenant finds a return by ID within a tenant
func (r *GormReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*returns.Return, error) {
	var ret returns.Return
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByIDForDecision loads the return with an exclusive row lock so that
// concurrent decisions serialize on the row. Must run inside a transaction.
func (r *GormReturnRepository) FindByIDForDecision(ctx context.Context, tenantID, id uuid.UUID) (*returns.Return, error) {
	var ret returns.Return
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	// Lines are loaded after the lock is held; locking clauses do not
	// propagate into preloads
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", ret.ID).
		Order("created_at ASC").
		Find(&ret.Lines).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

// FindByNumber finds a return by its return number within a tenant
func (r *GormReturnRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, returnNumber string) (*returns.Return, error) {
	var ret returns.Return
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND return_number = ?", tenantID, returnNumber).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAllForTenant finds returns for a tenant with filtering and pagination
func (r *GormReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]returns.Return, error) {
	var out []returns.Return
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&returns.Return{}).
			Preload("Lines").
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountForTenant counts returns for a tenant matching the filter
func (r *GormReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&returns.Return{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts returns in a status for a tenant
func (r *GormReturnRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status returns.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&returns.Return{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountPendingReturns reports the number of undecided returns for periodic
// metrics collection
func (r *GormReturnRepository) CountPendingReturns(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountByStatus(ctx, tenantID, returns.StatusPending)
}

// GetActiveTenantIDs returns the distinct tenants that have filed returns
func (r *GormReturnRepository) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&returns.Return{}).
		Distinct("tenant_id").
		Pluck("tenant_id", &tenantIDs).Error; err != nil {
		return nil, err
	}
	return tenantIDs, nil
}

// Save creates or updates a return and reconciles its lines
func (r *GormReturnRepository) Save(ctx context.Context, ret *returns.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(ret).Error; err != nil {
			return err
		}

		currentLineIDs := make([]uuid.UUID, len(ret.Lines))
		for i, line := range ret.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("return_id = ? AND id NOT IN ?", ret.ID, currentLineIDs).
				Delete(&returns.ReturnLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("return_id = ?", ret.ID).
				Delete(&returns.ReturnLine{}).Error; err != nil {
				return err
			}
		}

		for i := range ret.Lines {
			if err := tx.Save(&ret.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant removes a return and its lines
func (r *GormReturnRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&returns.Return{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("return_id = ?", id).Delete(&returns.ReturnLine{}).Error
	})
}

// GenerateReturnNumber generates the next return number for a tenant and kind.
// Format: SR-TTTTTTTT-YYYY-NNNNN for sale returns, PR-TTTTTTTT-YYYY-NNNNN for
// purchase returns, where TTTTTTTT is a tenant fragment keeping numbers from
// colliding across tenants under the unique index. The index is the real
// guarantee; the retry loop only smooths over races between concurrent
// generators.
func (r *GormReturnRepository) GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID, kind returns.Kind) (string, error) {
	prefix := fmt.Sprintf("%s-%s-%d-", numberPrefixForKind(kind), tenantID.String()[:8], time.Now().Year())

	var last returns.Return
	err := r.db.WithContext(ctx).
		Model(&returns.Return{}).
		Where("tenant_id = ? AND return_number LIKE ?", tenantID, prefix+"%").
		Order("return_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnNumber != "" {
		parts := strings.Split(last.ReturnNumber, "-")
		if len(parts) == 4 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[3], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	for range 100 {
		candidate := fmt.Sprintf("%s%0*d", prefix, r.padding, nextNum)
		var count int64
		if err := r.db.WithContext(ctx).Model(&returns.Return{}).
			Where("tenant_id = ? AND return_number = ?", tenantID, candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		nextNum++
	}
	return "", fmt.Errorf("unable to generate a unique return number for prefix %s", prefix)
}

func numberPrefixForKind(kind returns.Kind) string {
	if kind == returns.KindPurchase {
		return "PR"
	}
	return "SR"
}

// applyFilter applies search, field filters, ordering and pagination
func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir != "asc" {
		orderDir = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ? OR counterparty_name ILIKE ? OR origin_number ILIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "counterparty_id":
			query = query.Where("counterparty_id = ?", value)
		case "origin_id":
			query = query.Where("origin_id = ?", value)
		}
	}
	return query
}

var _ returns.ReturnRepository = (*GormReturnRepository)(nil)
