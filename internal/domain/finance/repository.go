package finance

import (
	"context"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
)

// NoteRepository defines the persistence contract for financial notes
type NoteRepository interface {
	// FindByIDForTenant retrieves a note by ID scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FinancialNote, error)

	// FindByNumber retrieves a note by its note number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, noteNumber string) (*FinancialNote, error)

	// FindByReturn retrieves the note issued for a return, if any
	FindByReturn(ctx context.Context, tenantID, returnID uuid.UUID) (*FinancialNote, error)

	// ExistsByReturn reports whether a note has already been issued for a return
	ExistsByReturn(ctx context.Context, tenantID, returnID uuid.UUID) (bool, error)

	// FindAllForTenant retrieves notes for a tenant with pagination
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*FinancialNote, error)

	// CountForTenant returns the total number of notes for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// Save persists a note (create or update)
	Save(ctx context.Context, note *FinancialNote) error

	// GenerateNoteNumber generates the next note number for the kind,
	// CN-TTTTTTTT-YYYY-NNNNN for credit notes and DN-TTTTTTTT-YYYY-NNNNN for debit notes
	GenerateNoteNumber(ctx context.Context, tenantID uuid.UUID, kind NoteKind) (string, error)
}
