package persistence

import (
	"context"
	"errors"
	"testing"

	appreturns "github.com/IdrisInc/smartbz/internal/application/returns"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Commit(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	tenantID := uuid.New()
	productID := uuid.New()

	origin := seedOrigin(t, db, tenantID, returns.KindSale, productID)
	ret := seedReturn(t, db, tenantID, origin, "SR-2026-00001")

	err := scope.Execute(context.Background(), func(repos appreturns.TransactionalRepositories) error {
		item, err := repos.StockItems().FindByProductForUpdate(context.Background(), tenantID, productID)
		if err != nil {
			return err
		}
		before, after := item.ApplyDelta(decimal.NewFromInt(2))
		movement, err := inventory.NewStockMovement(
			tenantID, productID, ret.ID,
			inventory.MovementTypeSaleReturn,
			decimal.NewFromInt(2), before, after,
			ret.ReturnNumber,
		)
		if err != nil {
			return err
		}
		if err := repos.Movements().Append(context.Background(), movement); err != nil {
			return err
		}
		return repos.StockItems().Save(context.Background(), item)
	})
	require.NoError(t, err)

	item, err := NewGormStockItemRepository(db).FindByProduct(context.Background(), tenantID, productID)
	require.NoError(t, err)
	assert.True(t, item.OnHand.Equal(decimal.NewFromInt(2)))

	movements, err := NewGormStockMovementRepository(db).FindByReturn(context.Background(), tenantID, ret.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestGormTransactionScope_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	tenantID := uuid.New()
	productID := uuid.New()

	origin := seedOrigin(t, db, tenantID, returns.KindSale, productID)
	ret := seedReturn(t, db, tenantID, origin, "SR-2026-00001")

	boom := errors.New("note issuance failed")
	err := scope.Execute(context.Background(), func(repos appreturns.TransactionalRepositories) error {
		item, err := repos.StockItems().FindByProductForUpdate(context.Background(), tenantID, productID)
		if err != nil {
			return err
		}
		before, after := item.ApplyDelta(decimal.NewFromInt(2))
		movement, err := inventory.NewStockMovement(
			tenantID, productID, ret.ID,
			inventory.MovementTypeSaleReturn,
			decimal.NewFromInt(2), before, after,
			ret.ReturnNumber,
		)
		if err != nil {
			return err
		}
		if err := repos.Movements().Append(context.Background(), movement); err != nil {
			return err
		}
		if err := repos.StockItems().Save(context.Background(), item); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// nothing from the failed transaction is visible, not even the
	// counter row created on first use
	_, err = NewGormStockItemRepository(db).FindByProduct(context.Background(), tenantID, productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	movements, err := NewGormStockMovementRepository(db).FindByReturn(context.Background(), tenantID, ret.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestGormTransactionScope_DecisionFlow(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	tenantID := uuid.New()
	productID := uuid.New()

	origin := seedOrigin(t, db, tenantID, returns.KindSale, productID)
	ret := seedReturn(t, db, tenantID, origin, "SR-2026-00001")
	actorID := uuid.New()

	err := scope.Execute(context.Background(), func(repos appreturns.TransactionalRepositories) error {
		locked, err := repos.Returns().FindByIDForDecision(context.Background(), tenantID, ret.ID)
		if err != nil {
			return err
		}
		if !locked.IsPending() {
			return shared.ErrAlreadyDecided
		}
		if err := locked.Approve(actorID); err != nil {
			return err
		}
		return repos.Returns().Save(context.Background(), locked)
	})
	require.NoError(t, err)

	found, err := NewGormReturnRepository(db).FindByIDForTenant(context.Background(), tenantID, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, returns.StatusApproved, found.Status)
	require.NotNil(t, found.DecidedBy)
	assert.Equal(t, actorID, *found.DecidedBy)
}
