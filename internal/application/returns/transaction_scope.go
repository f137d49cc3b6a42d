package returns

import (
	"context"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
)

// TransactionScope provides transactional access to the repositories the
// approve path touches. All repository operations inside Execute share one
// database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the current
// transaction. The approve transaction writes through every one of them:
// the return's status, the origin's returned quantities, the stock counters,
// the movement ledger, and the financial note must land together or not at
// all.
type TransactionalRepositories interface {
	Returns() returns.ReturnRepository
	Origins() returns.OriginRepository
	StockItems() inventory.StockItemRepository
	Movements() inventory.StockMovementRepository
	Notes() finance.NoteRepository
}

// NoOpTransactionScope runs the function against the given repositories
// without a real transaction. Useful for tests with in-memory repositories.
type NoOpTransactionScope struct {
	returnRepo   returns.ReturnRepository
	originRepo   returns.OriginRepository
	stockRepo    inventory.StockItemRepository
	movementRepo inventory.StockMovementRepository
	noteRepo     finance.NoteRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	returnRepo returns.ReturnRepository,
	originRepo returns.OriginRepository,
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	noteRepo finance.NoteRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		returnRepo:   returnRepo,
		originRepo:   originRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		noteRepo:     noteRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Returns returns the return repository.
func (s *NoOpTransactionScope) Returns() returns.ReturnRepository {
	return s.returnRepo
}

// Origins returns the origin repository.
func (s *NoOpTransactionScope) Origins() returns.OriginRepository {
	return s.originRepo
}

// StockItems returns the stock item repository.
func (s *NoOpTransactionScope) StockItems() inventory.StockItemRepository {
	return s.stockRepo
}

// Movements returns the stock movement repository.
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movementRepo
}

// Notes returns the financial note repository.
func (s *NoOpTransactionScope) Notes() finance.NoteRepository {
	return s.noteRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
