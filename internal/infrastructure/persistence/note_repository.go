package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNoteRepository implements NoteRepository using GORM
type GormNoteRepository struct {
	db      *gorm.DB
	padding int
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db, padding: defaultNumberPadding}
}

// SetNumberPadding overrides the sequence width of generated note numbers
func (r *GormNoteRepository) SetNumberPadding(padding int) {
	if padding > 0 {
		r.padding = padding
	}
}

// FindByIDForTenant finds a note by ID within a tenant
func (r *GormNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinancialNote, error) {
	var note finance.FinancialNote
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// FindByNumber finds a note by its note number within a tenant
func (r *GormNoteRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, noteNumber string) (*finance.FinancialNote, error) {
	var note finance.FinancialNote
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND note_number = ?", tenantID, noteNumber).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// FindByReturn finds the note issued for a return
func (r *GormNoteRepository) FindByReturn(ctx context.Context, tenantID, returnID uuid.UUID) (*finance.FinancialNote, error) {
	var note finance.FinancialNote
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND return_id = ?", tenantID, returnID).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// ExistsByReturn reports whether a note has already been issued for a return
func (r *GormNoteRepository) ExistsByReturn(ctx context.Context, tenantID, returnID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&finance.FinancialNote{}).
		Where("tenant_id = ? AND return_id = ?", tenantID, returnID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant finds notes for a tenant with filtering and pagination
func (r *GormNoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*finance.FinancialNote, error) {
	query := r.db.WithContext(ctx).Model(&finance.FinancialNote{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("note_number ILIKE ? OR return_number ILIKE ? OR counterparty_name ILIKE ?",
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
		}
	}

	query = query.Order("issued_at DESC")
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var notes []*finance.FinancialNote
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// CountForTenant counts notes for a tenant
func (r *GormNoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&finance.FinancialNote{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a note (create or update)
func (r *GormNoteRepository) Save(ctx context.Context, note *finance.FinancialNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

// GenerateNoteNumber generates the next note number for a tenant and kind.
// Format: CN-TTTTTTTT-YYYY-NNNNN for credit notes, DN-TTTTTTTT-YYYY-NNNNN for
// debit notes, with a tenant fragment keeping numbers from colliding across
// tenants under the unique index.
func (r *GormNoteRepository) GenerateNoteNumber(ctx context.Context, tenantID uuid.UUID, kind finance.NoteKind) (string, error) {
	prefix := fmt.Sprintf("%s-%s-%d-", numberPrefixForNoteKind(kind), tenantID.String()[:8], time.Now().Year())

	var last finance.FinancialNote
	err := r.db.WithContext(ctx).
		Model(&finance.FinancialNote{}).
		Where("tenant_id = ? AND note_number LIKE ?", tenantID, prefix+"%").
		Order("note_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.NoteNumber != "" {
		parts := strings.Split(last.NoteNumber, "-")
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
		if err := r.db.WithContext(ctx).Model(&finance.FinancialNote{}).
			Where("tenant_id = ? AND note_number = ?", tenantID, candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		nextNum++
	}
	return "", fmt.Errorf("unable to generate a unique note number for prefix %s", prefix)
}

func numberPrefixForNoteKind(kind finance.NoteKind) string {
	if kind == finance.NoteKindDebit {
		return "DN"
	}
	return "CN"
}

var _ finance.NoteRepository = (*GormNoteRepository)(nil)
