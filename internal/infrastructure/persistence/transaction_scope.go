package persistence

import (
	"context"

	appreturns "github.com/IdrisInc/smartbz/internal/application/returns"
	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope with a GORM transaction.
// Every repository handed to the callback is bound to the same *gorm.DB
// transaction handle, so all writes commit or roll back together and the
// row locks taken by the ForUpdate finders hold until the scope ends.
type GormTransactionScope struct {
	db      *gorm.DB
	padding int
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db, padding: defaultNumberPadding}
}

// SetNumberPadding sets the sequence width used by the transactional number
// generators
func (s *GormTransactionScope) SetNumberPadding(padding int) {
	if padding > 0 {
		s.padding = padding
	}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appreturns.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormTransactionalRepositories{tx: tx, padding: s.padding})
	})
}

type gormTransactionalRepositories struct {
	tx      *gorm.DB
	padding int
}

func (r gormTransactionalRepositories) Returns() returns.ReturnRepository {
	repo := NewGormReturnRepository(r.tx)
	repo.SetNumberPadding(r.padding)
	return repo
}

func (r gormTransactionalRepositories) Origins() returns.OriginRepository {
	return NewGormOriginRepository(r.tx)
}

func (r gormTransactionalRepositories) StockItems() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r gormTransactionalRepositories) Notes() finance.NoteRepository {
	repo := NewGormNoteRepository(r.tx)
	repo.SetNumberPadding(r.padding)
	return repo
}

var _ appreturns.TransactionScope = (*GormTransactionScope)(nil)
var _ appreturns.TransactionalRepositories = gormTransactionalRepositories{}
