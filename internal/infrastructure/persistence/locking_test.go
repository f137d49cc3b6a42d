package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestFindByIDForDecision_LocksRowOnPostgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormReturnRepository(db)
	tenantID := uuid.New()
	returnID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "returns" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "return_number", "kind", "status"}).
			AddRow(returnID, tenantID, "SR-2026-00001", "SALE", "PENDING"))
	mock.ExpectQuery(`SELECT .* FROM "return_lines"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "return_id"}))

	found, err := repo.FindByIDForDecision(context.Background(), tenantID, returnID)
	require.NoError(t, err)
	assert.Equal(t, returnID, found.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockForUpdate_SkippedOnSQLite(t *testing.T) {
	db := setupTestDB(t)

	var ret returns.Return
	stmt := lockForUpdate(db.Session(&gorm.Session{DryRun: true})).
		Where("tenant_id = ?", uuid.New()).
		Find(&ret).Statement

	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}
