package returns

import (
	"context"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
)

// ReturnRepository is the storage contract for returns
type ReturnRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Return, error)
	// FindByIDForDecision loads the return with an exclusive row lock, held for
	// the remainder of the enclosing transaction. Decision paths must use this
	// instead of FindByIDForTenant so the status guard cannot race.
	FindByIDForDecision(ctx context.Context, tenantID, id uuid.UUID) (*Return, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, returnNumber string) (*Return, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Return, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status Status) (int64, error)
	Save(ctx context.Context, r *Return) error
	// DeleteForTenant removes a pending return and its lines. Decided returns
	// are never deleted.
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// GenerateReturnNumber produces the next human-readable number for the
	// tenant and kind; uniqueness is enforced by the storage index.
	GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID, kind Kind) (string, error)
}

// OriginRepository is the storage contract for originating transactions
type OriginRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Origin, error)
	// FindByIDForUpdate loads the origin with a row lock for returned-quantity
	// bookkeeping inside the approve transaction.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Origin, error)
	Save(ctx context.Context, o *Origin) error
}
