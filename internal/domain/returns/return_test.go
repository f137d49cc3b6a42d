package returns

import (
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrigin(t *testing.T, kind Kind) (*Origin, uuid.UUID) {
	t.Helper()
	origin, err := NewOrigin(uuid.New(), "SO-2026-00001", kind, uuid.New(), "Acme Retail")
	require.NoError(t, err)
	productID := uuid.New()
	_, err = origin.AddLine(productID, decimal.NewFromInt(10), decimal.NewFromInt(25))
	require.NoError(t, err)
	return origin, productID
}

func TestNewReturn(t *testing.T) {
	t.Run("creates a pending sale return with full refund by default", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindSale)

		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		assert.Equal(t, StatusPending, r.Status)
		assert.Equal(t, RefundFull, r.RefundType)
		assert.Equal(t, origin.ID, r.OriginID)
		assert.Equal(t, origin.CounterpartyID, r.CounterpartyID)
		assert.Len(t, r.GetDomainEvents(), 1)
	})

	t.Run("creates a purchase return without a refund type", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindPurchase)

		r, err := NewReturn(origin.TenantID, "PR-2026-00001", KindPurchase, origin, "")
		require.NoError(t, err)

		assert.Equal(t, RefundType(""), r.RefundType)
	})

	t.Run("rejects a refund type on purchase returns", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindPurchase)

		_, err := NewReturn(origin.TenantID, "PR-2026-00001", KindPurchase, origin, RefundFull)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects a mismatched origin kind", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindPurchase)

		_, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects an empty return number", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindSale)

		_, err := NewReturn(origin.TenantID, "", KindSale, origin, "")
		require.Error(t, err)
	})
}

func TestReturn_AddLine(t *testing.T) {
	t.Run("adds a line and recalculates totals", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "WGT-001",
			decimal.NewFromInt(2), decimal.NewFromInt(25), decimal.Zero, decimal.NewFromInt(10), ConditionGood)
		require.NoError(t, err)

		assert.Equal(t, 1, r.LineCount())
		assert.True(t, r.Amount.Equal(decimal.NewFromInt(50)))
		assert.True(t, r.Tax.Equal(decimal.NewFromInt(5)))
		assert.True(t, r.Total.Equal(decimal.NewFromInt(55)))
		assert.True(t, r.RefundAmount.Equal(decimal.NewFromInt(55)))
	})

	t.Run("rejects a product missing from the origin", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		_, err = r.AddLine(origin, uuid.New(), "Gadget", "",
			decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero, decimal.Zero, ConditionGood)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects quantities beyond the remaining returnable", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(11), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("caps the sum of lines for the same product", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(6), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.NoError(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(5), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionDamaged)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("honors already-returned quantities on the origin", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		require.NoError(t, origin.RecordReturned(productID, decimal.NewFromInt(8)))

		r, err := NewReturn(origin.TenantID, "SR-2026-00002", KindSale, origin, "")
		require.NoError(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(3), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.Error(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(2), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.NoError(t, err)
	})

	t.Run("rejects conditions invalid for the kind", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(1), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionExcess)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails on a decided return", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)
		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(1), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.NoError(t, err)
		require.NoError(t, r.Approve(uuid.New()))

		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(1), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		assert.ErrorIs(t, err, shared.ErrAlreadyDecided)
	})
}

func TestReturn_Approve(t *testing.T) {
	newPendingReturn := func(t *testing.T) (*Return, *Origin, uuid.UUID) {
		t.Helper()
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)
		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(2), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.NoError(t, err)
		return r, origin, productID
	}

	t.Run("approves a pending return", func(t *testing.T) {
		r, _, _ := newPendingReturn(t)
		actor := uuid.New()
		version := r.Version

		err := r.Approve(actor)
		require.NoError(t, err)

		assert.Equal(t, StatusApproved, r.Status)
		require.NotNil(t, r.DecidedBy)
		assert.Equal(t, actor, *r.DecidedBy)
		assert.NotNil(t, r.DecidedAt)
		assert.Equal(t, version+1, r.Version)
	})

	t.Run("fails a second decision with already decided", func(t *testing.T) {
		r, _, _ := newPendingReturn(t)
		require.NoError(t, r.Approve(uuid.New()))

		assert.ErrorIs(t, r.Approve(uuid.New()), shared.ErrAlreadyDecided)
		assert.ErrorIs(t, r.Reject(uuid.New(), "late"), shared.ErrAlreadyDecided)
	})

	t.Run("fails without lines", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		err = r.Approve(uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, StatusPending, r.Status)
	})

	t.Run("fails without an actor", func(t *testing.T) {
		r, _, _ := newPendingReturn(t)

		err := r.Approve(uuid.Nil)
		require.Error(t, err)
		assert.Equal(t, StatusPending, r.Status)
	})
}

func TestReturn_Reject(t *testing.T) {
	t.Run("rejects a pending return with a reason", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)
		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(1), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.NoError(t, err)

		err = r.Reject(uuid.New(), "goods never received")
		require.NoError(t, err)

		assert.Equal(t, StatusRejected, r.Status)
		assert.Equal(t, "goods never received", r.Reason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)

		err = r.Reject(uuid.New(), "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails on a decided return", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		r, err := NewReturn(origin.TenantID, "SR-2026-00001", KindSale, origin, "")
		require.NoError(t, err)
		_, err = r.AddLine(origin, productID, "Widget", "",
			decimal.NewFromInt(1), decimal.NewFromInt(25), decimal.Zero, decimal.Zero, ConditionGood)
		require.NoError(t, err)
		require.NoError(t, r.Reject(uuid.New(), "first"))

		assert.ErrorIs(t, r.Reject(uuid.New(), "second"), shared.ErrAlreadyDecided)
	})
}

func TestReturnLine_StockDelta(t *testing.T) {
	t.Run("sale returns restock positive quantities", func(t *testing.T) {
		line := mustLine(t, KindSale, 3, 10, 0, 0, ConditionGood)
		assert.True(t, line.StockDelta(KindSale, false).Equal(decimal.NewFromInt(3)))
	})

	t.Run("purchase returns ship back negative quantities", func(t *testing.T) {
		line := mustLine(t, KindPurchase, 3, 10, 0, 0, ConditionDefective)
		assert.True(t, line.StockDelta(KindPurchase, false).Equal(decimal.NewFromInt(-3)))
	})

	t.Run("scrap policy zeroes damaged and defective sale lines", func(t *testing.T) {
		damaged := mustLine(t, KindSale, 2, 10, 0, 0, ConditionDamaged)
		defective := mustLine(t, KindSale, 2, 10, 0, 0, ConditionDefective)
		good := mustLine(t, KindSale, 2, 10, 0, 0, ConditionGood)

		assert.True(t, damaged.StockDelta(KindSale, true).IsZero())
		assert.True(t, defective.StockDelta(KindSale, true).IsZero())
		assert.True(t, good.StockDelta(KindSale, true).Equal(decimal.NewFromInt(2)))
	})

	t.Run("scrap policy does not affect purchase returns", func(t *testing.T) {
		line := mustLine(t, KindPurchase, 2, 10, 0, 0, ConditionDamaged)
		assert.True(t, line.StockDelta(KindPurchase, true).Equal(decimal.NewFromInt(-2)))
	})
}

func TestOrigin_RecordReturned(t *testing.T) {
	t.Run("accumulates returned quantities", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)

		require.NoError(t, origin.RecordReturned(productID, decimal.NewFromInt(4)))
		require.NoError(t, origin.RecordReturned(productID, decimal.NewFromInt(6)))

		line := origin.LineForProduct(productID)
		assert.True(t, line.RemainingReturnable().IsZero())
	})

	t.Run("rejects quantities beyond the remainder", func(t *testing.T) {
		origin, productID := newTestOrigin(t, KindSale)
		require.NoError(t, origin.RecordReturned(productID, decimal.NewFromInt(9)))

		err := origin.RecordReturned(productID, decimal.NewFromInt(2))
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects unknown products", func(t *testing.T) {
		origin, _ := newTestOrigin(t, KindSale)

		err := origin.RecordReturned(uuid.New(), decimal.NewFromInt(1))
		require.Error(t, err)
	})
}
