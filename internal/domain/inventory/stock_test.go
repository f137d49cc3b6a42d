package inventory

import (
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockItem_ApplyDelta(t *testing.T) {
	newItem := func(t *testing.T, onHand int64) *StockItem {
		t.Helper()
		item, err := NewStockItem(uuid.New(), uuid.New())
		require.NoError(t, err)
		item.OnHand = decimal.NewFromInt(onHand)
		return item
	}

	t.Run("adds positive deltas", func(t *testing.T) {
		item := newItem(t, 10)

		before, after := item.ApplyDelta(decimal.NewFromInt(3))

		assert.True(t, before.Equal(decimal.NewFromInt(10)))
		assert.True(t, after.Equal(decimal.NewFromInt(13)))
		assert.True(t, item.OnHand.Equal(decimal.NewFromInt(13)))
	})

	t.Run("subtracts negative deltas", func(t *testing.T) {
		item := newItem(t, 10)

		_, after := item.ApplyDelta(decimal.NewFromInt(-4))

		assert.True(t, after.Equal(decimal.NewFromInt(6)))
	})

	t.Run("clamps at zero when the delta overshoots", func(t *testing.T) {
		item := newItem(t, 3)

		before, after := item.ApplyDelta(decimal.NewFromInt(-5))

		assert.True(t, before.Equal(decimal.NewFromInt(3)))
		assert.True(t, after.IsZero())
		assert.True(t, item.OnHand.IsZero())
	})

	t.Run("bumps the version on every application", func(t *testing.T) {
		item := newItem(t, 0)
		version := item.Version

		item.ApplyDelta(decimal.NewFromInt(1))
		item.ApplyDelta(decimal.NewFromInt(1))

		assert.Equal(t, version+2, item.Version)
	})
}

func TestNewStockMovement(t *testing.T) {
	t.Run("creates a restock movement", func(t *testing.T) {
		mv, err := NewStockMovement(
			uuid.New(), uuid.New(), uuid.New(),
			MovementTypeSaleReturn,
			decimal.NewFromInt(2), decimal.NewFromInt(5), decimal.NewFromInt(7),
			"SR-2026-00001",
		)
		require.NoError(t, err)

		assert.Equal(t, MovementTypeSaleReturn, mv.MovementType)
		assert.True(t, mv.QuantityDelta.Equal(decimal.NewFromInt(2)))
		assert.False(t, mv.OccurredAt.IsZero())
	})

	t.Run("rejects a zero delta for restock movements", func(t *testing.T) {
		_, err := NewStockMovement(
			uuid.New(), uuid.New(), uuid.New(),
			MovementTypeSaleReturn,
			decimal.Zero, decimal.Zero, decimal.Zero,
			"",
		)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("allows a zero delta for scrap movements", func(t *testing.T) {
		mv, err := NewStockMovement(
			uuid.New(), uuid.New(), uuid.New(),
			MovementTypeReturnScrap,
			decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(5),
			"damaged write-off",
		)
		require.NoError(t, err)
		assert.True(t, mv.QuantityDelta.IsZero())
	})

	t.Run("rejects an invalid movement type", func(t *testing.T) {
		_, err := NewStockMovement(
			uuid.New(), uuid.New(), uuid.New(),
			MovementType("TRANSFER"),
			decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1),
			"",
		)
		require.Error(t, err)
	})

	t.Run("rejects a missing return reference", func(t *testing.T) {
		_, err := NewStockMovement(
			uuid.New(), uuid.New(), uuid.Nil,
			MovementTypeSaleReturn,
			decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1),
			"",
		)
		require.Error(t, err)
	})
}
