package returns

import (
	"context"
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOriginRequest registers an originating transaction snapshot that
// returns can later reconcile against
type CreateOriginRequest struct {
	OriginNumber     string                  `json:"origin_number" binding:"required,min=1,max=50"`
	Kind             string                  `json:"kind" binding:"required,oneof=SALE PURCHASE"`
	CounterpartyID   uuid.UUID               `json:"counterparty_id" binding:"required"`
	CounterpartyName string                  `json:"counterparty_name" binding:"max=255"`
	Lines            []CreateOriginLineInput `json:"lines" binding:"required,min=1"`
}

// CreateOriginLineInput is one product line in the origin snapshot
type CreateOriginLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OriginLineResponse represents an origin line in API responses
type OriginLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	Remaining        decimal.Decimal `json:"remaining_returnable"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

// OriginResponse represents an origin snapshot in API responses
type OriginResponse struct {
	ID               uuid.UUID            `json:"id"`
	TenantID         uuid.UUID            `json:"tenant_id"`
	OriginNumber     string               `json:"origin_number"`
	Kind             string               `json:"kind"`
	CounterpartyID   uuid.UUID            `json:"counterparty_id"`
	CounterpartyName string               `json:"counterparty_name"`
	Lines            []OriginLineResponse `json:"lines"`
	CreatedAt        time.Time            `json:"created_at"`
	Version          int                  `json:"version"`
}

// ToOriginResponse converts a domain Origin to a response DTO
func ToOriginResponse(o *returns.Origin) OriginResponse {
	lines := make([]OriginLineResponse, len(o.Lines))
	for i := range o.Lines {
		line := &o.Lines[i]
		lines[i] = OriginLineResponse{
			ID:               line.ID,
			ProductID:        line.ProductID,
			Quantity:         line.Quantity,
			ReturnedQuantity: line.ReturnedQuantity,
			Remaining:        line.RemainingReturnable(),
			UnitPrice:        line.UnitPrice,
		}
	}
	return OriginResponse{
		ID:               o.ID,
		TenantID:         o.TenantID,
		OriginNumber:     o.OriginNumber,
		Kind:             string(o.Kind),
		CounterpartyID:   o.CounterpartyID,
		CounterpartyName: o.CounterpartyName,
		Lines:            lines,
		CreatedAt:        o.CreatedAt,
		Version:          o.Version,
	}
}

// OriginService registers and reads origin snapshots
type OriginService struct {
	originRepo returns.OriginRepository
	logger     *zap.Logger
}

// NewOriginService creates a new OriginService
func NewOriginService(originRepo returns.OriginRepository) *OriginService {
	return &OriginService{originRepo: originRepo}
}

// SetLogger sets the logger used for storage failure causes
func (s *OriginService) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

func (s *OriginService) storageError(err error) error {
	return storageError(s.logger, err)
}

// Create registers an origin snapshot with its lines
func (s *OriginService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOriginRequest) (*OriginResponse, error) {
	origin, err := returns.NewOrigin(tenantID, req.OriginNumber, returns.Kind(req.Kind), req.CounterpartyID, req.CounterpartyName)
	if err != nil {
		return nil, err
	}
	for _, input := range req.Lines {
		if _, err := origin.AddLine(input.ProductID, input.Quantity, input.UnitPrice); err != nil {
			return nil, err
		}
	}
	if err := s.originRepo.Save(ctx, origin); err != nil {
		return nil, s.storageError(err)
	}
	response := ToOriginResponse(origin)
	return &response, nil
}

// GetByID retrieves an origin snapshot by ID
func (s *OriginService) GetByID(ctx context.Context, tenantID, originID uuid.UUID) (*OriginResponse, error) {
	origin, err := s.originRepo.FindByIDForTenant(ctx, tenantID, originID)
	if err != nil {
		return nil, s.storageError(err)
	}
	response := ToOriginResponse(origin)
	return &response, nil
}
