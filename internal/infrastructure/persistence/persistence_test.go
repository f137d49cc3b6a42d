package persistence

import (
	"context"
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&returns.Origin{},
		&returns.OriginLine{},
		&returns.Return{},
		&returns.ReturnLine{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&finance.FinancialNote{},
	)
	require.NoError(t, err)

	return db
}

func seedOrigin(t *testing.T, db *gorm.DB, tenantID uuid.UUID, kind returns.Kind, products ...uuid.UUID) *returns.Origin {
	t.Helper()

	number := "SO-2026-00001"
	if kind == returns.KindPurchase {
		number = "PO-2026-00001"
	}
	origin, err := returns.NewOrigin(tenantID, number, kind, uuid.New(), "Acme Trading")
	require.NoError(t, err)
	for _, productID := range products {
		_, err := origin.AddLine(productID, decimal.NewFromInt(10), decimal.NewFromInt(25))
		require.NoError(t, err)
	}

	repo := NewGormOriginRepository(db)
	require.NoError(t, repo.Save(context.Background(), origin))
	return origin
}

func seedReturn(t *testing.T, db *gorm.DB, tenantID uuid.UUID, origin *returns.Origin, number string) *returns.Return {
	t.Helper()

	var refundType returns.RefundType
	if origin.Kind == returns.KindSale {
		refundType = returns.RefundFull
	}
	ret, err := returns.NewReturn(tenantID, number, origin.Kind, origin, refundType)
	require.NoError(t, err)
	for _, line := range origin.Lines {
		_, err := ret.AddLine(origin, line.ProductID, "Widget", "W-1",
			decimal.NewFromInt(2), line.UnitPrice, decimal.Zero, decimal.NewFromInt(5),
			returns.ConditionGood)
		require.NoError(t, err)
	}

	repo := NewGormReturnRepository(db)
	require.NoError(t, repo.Save(context.Background(), ret))
	return ret
}
