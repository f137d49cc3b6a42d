package returns

import (
	"context"
	"errors"
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/IdrisInc/smartbz/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReturnService handles return business operations. Reads go through the
// plain repositories; decisions go through the transaction scope so the
// status change, the ledger entries, the counter updates, the origin
// bookkeeping and the note issuance commit atomically.
type ReturnService struct {
	scope          TransactionScope
	returnRepo     returns.ReturnRepository
	originRepo     returns.OriginRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
	engineMetrics  *telemetry.EngineMetrics
	logger         *zap.Logger
	scrapDamaged   bool
}

// NewReturnService creates a new ReturnService. scrapDamaged enables the
// write-off policy: damaged and defective sale-return lines produce scrap
// movements instead of restocking.
func NewReturnService(
	scope TransactionScope,
	returnRepo returns.ReturnRepository,
	originRepo returns.OriginRepository,
	movementRepo inventory.StockMovementRepository,
	scrapDamaged bool,
) *ReturnService {
	return &ReturnService{
		scope:        scope,
		returnRepo:   returnRepo,
		originRepo:   originRepo,
		movementRepo: movementRepo,
		scrapDamaged: scrapDamaged,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetEngineMetrics sets the engine metrics collector
func (s *ReturnService) SetEngineMetrics(em *telemetry.EngineMetrics) {
	s.engineMetrics = em
}

// SetLogger sets the logger used for storage failure causes
func (s *ReturnService) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// storageError keeps driver messages behind the storage boundary. Domain
// errors pass through untouched; anything else is logged and surfaced as
// the retriable storage kind.
func storageError(logger *zap.Logger, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de
	}
	if logger != nil {
		logger.Error("storage operation failed", zap.Error(err))
	}
	return shared.NewStorageError()
}

func (s *ReturnService) storageError(err error) error {
	return storageError(s.logger, err)
}

// Create registers a pending return against an originating transaction.
// Every line is validated against the origin before anything is written.
func (s *ReturnService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	kind := returns.Kind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Return kind must be SALE or PURCHASE")
	}

	origin, err := s.originRepo.FindByIDForTenant(ctx, tenantID, req.OriginID)
	if err != nil {
		return nil, s.storageError(err)
	}

	returnNumber, err := s.returnRepo.GenerateReturnNumber(ctx, tenantID, kind)
	if err != nil {
		return nil, s.storageError(err)
	}

	r, err := returns.NewReturn(tenantID, returnNumber, kind, origin, returns.RefundType(req.RefundType))
	if err != nil {
		return nil, err
	}

	for _, input := range req.Lines {
		line, err := r.AddLine(origin, input.ProductID, input.ProductName, input.ProductCode,
			input.Quantity, input.UnitPrice, input.Discount, input.TaxRate,
			returns.Condition(input.Condition))
		if err != nil {
			return nil, err
		}
		if input.Remark != "" {
			line.Remark = input.Remark
		}
	}

	if req.Reason != "" {
		r.SetReason(req.Reason)
	}
	if req.Remark != "" {
		r.SetRemark(req.Remark)
	}

	if err := s.returnRepo.Save(ctx, r); err != nil {
		return nil, s.storageError(err)
	}

	s.publishEvents(ctx, r)

	if s.engineMetrics != nil {
		s.engineMetrics.RecordReturnCreated(ctx, tenantID, string(r.Kind))
	}

	response := ToReturnResponse(r)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*ReturnResponse, error) {
	r, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, s.storageError(err)
	}
	response := ToReturnResponse(r)
	return &response, nil
}

// GetByNumber retrieves a return by its return number
func (s *ReturnService) GetByNumber(ctx context.Context, tenantID uuid.UUID, returnNumber string) (*ReturnResponse, error) {
	r, err := s.returnRepo.FindByNumber(ctx, tenantID, returnNumber)
	if err != nil {
		return nil, s.storageError(err)
	}
	response := ToReturnResponse(r)
	return &response, nil
}

// List retrieves returns for a tenant with pagination and filtering
func (s *ReturnService) List(ctx context.Context, tenantID uuid.UUID, listFilter ReturnListFilter) (*shared.Paginated[ReturnResponse], error) {
	filter := shared.DefaultFilter()
	if listFilter.Page > 0 {
		filter.Page = listFilter.Page
	}
	if listFilter.PageSize > 0 {
		filter.PageSize = listFilter.PageSize
	}
	filter.Search = listFilter.Search
	if listFilter.Kind != nil {
		filter.Filters["kind"] = *listFilter.Kind
	}
	if listFilter.Status != nil {
		filter.Filters["status"] = *listFilter.Status
	}

	items, err := s.returnRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, s.storageError(err)
	}
	total, err := s.returnRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, s.storageError(err)
	}

	responses := make([]ReturnResponse, len(items))
	for i := range items {
		responses[i] = ToReturnResponse(&items[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Summary reports how many of the tenant's returns sit in each status
func (s *ReturnService) Summary(ctx context.Context, tenantID uuid.UUID) (*ReturnSummaryResponse, error) {
	var summary ReturnSummaryResponse
	for _, c := range []struct {
		status returns.Status
		dest   *int64
	}{
		{returns.StatusPending, &summary.Pending},
		{returns.StatusApproved, &summary.Approved},
		{returns.StatusRejected, &summary.Rejected},
	} {
		count, err := s.returnRepo.CountByStatus(ctx, tenantID, c.status)
		if err != nil {
			return nil, s.storageError(err)
		}
		*c.dest = count
	}
	summary.Total = summary.Pending + summary.Approved + summary.Rejected
	return &summary, nil
}

// Approve decides a pending return. One transaction covers the status
// change, one ledger entry per line, the stock counter updates, the
// origin's returned-quantity bookkeeping and the note issuance. A return
// that is no longer pending fails with ALREADY_DECIDED and writes nothing.
func (s *ReturnService) Approve(ctx context.Context, tenantID, returnID, actorID uuid.UUID) (*ApproveReturnResponse, error) {
	var (
		decided   *returns.Return
		note      *finance.FinancialNote
		movements []inventory.StockMovement
	)

	started := time.Now()
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Returns().FindByIDForDecision(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if !r.IsPending() {
			return shared.ErrAlreadyDecided
		}

		origin, err := repos.Origins().FindByIDForUpdate(ctx, tenantID, r.OriginID)
		if err != nil {
			return err
		}

		items := make(map[uuid.UUID]*inventory.StockItem)
		for i := range r.Lines {
			line := &r.Lines[i]

			item, ok := items[line.ProductID]
			if !ok {
				item, err = repos.StockItems().FindByProductForUpdate(ctx, tenantID, line.ProductID)
				if err != nil {
					return err
				}
				items[line.ProductID] = item
			}

			delta := line.StockDelta(r.Kind, s.scrapDamaged)
			before, after := item.ApplyDelta(delta)

			movement, err := inventory.NewStockMovement(
				tenantID, line.ProductID, r.ID,
				movementTypeFor(r.Kind, line.Condition, s.scrapDamaged),
				delta, before, after,
				r.ReturnNumber,
			)
			if err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
			movements = append(movements, *movement)

			if r.Kind == returns.KindSale {
				if err := origin.RecordReturned(line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		for _, item := range items {
			if err := repos.StockItems().Save(ctx, item); err != nil {
				return err
			}
		}
		if r.Kind == returns.KindSale {
			if err := repos.Origins().Save(ctx, origin); err != nil {
				return err
			}
		}

		fin := r.Financials()
		noteKind := noteKindFor(r.Kind)
		noteNumber, err := repos.Notes().GenerateNoteNumber(ctx, tenantID, noteKind)
		if err != nil {
			return err
		}
		note, err = finance.IssueNote(
			tenantID, noteNumber, noteKind,
			r.ID, r.ReturnNumber,
			r.CounterpartyID, r.CounterpartyName,
			fin.Subtotal.Sub(fin.DiscountTotal), fin.TaxTotal, fin.Total,
			r.Reason,
		)
		if err != nil {
			return err
		}
		if err := repos.Notes().Save(ctx, note); err != nil {
			return err
		}

		if err := r.Approve(actorID); err != nil {
			return err
		}
		if err := repos.Returns().Save(ctx, r); err != nil {
			return err
		}

		decided = r
		return nil
	})
	if err != nil {
		return nil, s.storageError(err)
	}

	s.publishEvents(ctx, decided)

	if s.engineMetrics != nil {
		kind := string(decided.Kind)
		s.engineMetrics.RecordDecision(ctx, tenantID, kind, "APPROVED", time.Since(started))
		s.engineMetrics.RecordRefund(ctx, tenantID, kind, decided.RefundAmount)
		s.engineMetrics.RecordNoteIssued(ctx, tenantID, string(note.Kind))
	}

	movementResponses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		movementResponses[i] = ToStockMovementResponse(&movements[i])
	}

	return &ApproveReturnResponse{
		Return:    ToReturnResponse(decided),
		Note:      ToNoteResponse(note),
		Movements: movementResponses,
	}, nil
}

// Reject decides a pending return without touching stock or finances.
// The same row lock as Approve serializes concurrent decisions.
func (s *ReturnService) Reject(ctx context.Context, tenantID, returnID, actorID uuid.UUID, reason string) (*ReturnResponse, error) {
	var decided *returns.Return

	started := time.Now()
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Returns().FindByIDForDecision(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if err := r.Reject(actorID, reason); err != nil {
			return err
		}
		if err := repos.Returns().Save(ctx, r); err != nil {
			return err
		}
		decided = r
		return nil
	})
	if err != nil {
		return nil, s.storageError(err)
	}

	s.publishEvents(ctx, decided)

	if s.engineMetrics != nil {
		s.engineMetrics.RecordDecision(ctx, tenantID, string(decided.Kind), "REJECTED", time.Since(started))
	}

	response := ToReturnResponse(decided)
	return &response, nil
}

// Delete removes a pending return. Decided returns are immutable.
func (s *ReturnService) Delete(ctx context.Context, tenantID, returnID uuid.UUID) error {
	r, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return s.storageError(err)
	}
	if !r.IsPending() {
		return shared.ErrAlreadyDecided
	}
	if err := s.returnRepo.DeleteForTenant(ctx, tenantID, returnID); err != nil {
		return s.storageError(err)
	}
	return nil
}

// ListMovementsByReturn retrieves the ledger entries produced by a return
func (s *ReturnService) ListMovementsByReturn(ctx context.Context, tenantID, returnID uuid.UUID) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByReturn(ctx, tenantID, returnID)
	if err != nil {
		return nil, s.storageError(err)
	}
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses, nil
}

// ListMovementsByProduct retrieves the ledger entries for a product
func (s *ReturnService) ListMovementsByProduct(ctx context.Context, tenantID uuid.UUID, listFilter MovementListFilter) ([]StockMovementResponse, error) {
	filter := shared.DefaultFilter()
	if listFilter.Page > 0 {
		filter.Page = listFilter.Page
	}
	if listFilter.PageSize > 0 {
		filter.PageSize = listFilter.PageSize
	}

	movements, err := s.movementRepo.FindByProduct(ctx, tenantID, listFilter.ProductID, filter)
	if err != nil {
		return nil, s.storageError(err)
	}
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses, nil
}

// publishEvents publishes pending domain events, best effort
func (s *ReturnService) publishEvents(ctx context.Context, r *returns.Return) {
	if s.eventPublisher == nil || r == nil {
		return
	}
	for _, event := range r.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	r.ClearDomainEvents()
}

// movementTypeFor selects the ledger entry type for a line
func movementTypeFor(kind returns.Kind, condition returns.Condition, scrapDamaged bool) inventory.MovementType {
	switch kind {
	case returns.KindPurchase:
		return inventory.MovementTypePurchaseReturn
	default:
		if scrapDamaged && condition.Scrappable() {
			return inventory.MovementTypeReturnScrap
		}
		return inventory.MovementTypeSaleReturn
	}
}

// noteKindFor maps the return kind to the note kind: sale returns issue
// credit notes, purchase returns issue debit notes
func noteKindFor(kind returns.Kind) finance.NoteKind {
	if kind == returns.KindPurchase {
		return finance.NoteKindDebit
	}
	return finance.NoteKindCredit
}
