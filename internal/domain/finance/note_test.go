package finance

import (
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/IdrisInc/smartbz/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNote(t *testing.T) *FinancialNote {
	t.Helper()
	note, err := IssueNote(
		uuid.New(),
		"CN-2026-00001",
		NoteKindCredit,
		uuid.New(),
		"SR-2026-00001",
		uuid.New(),
		"Acme Retail",
		decimal.NewFromInt(100),
		decimal.NewFromInt(10),
		decimal.NewFromInt(110),
		"Customer return",
	)
	require.NoError(t, err)
	return note
}

func TestIssueNote(t *testing.T) {
	t.Run("issues a credit note", func(t *testing.T) {
		note := newTestNote(t)

		assert.Equal(t, NoteStatusIssued, note.Status)
		assert.Equal(t, NoteKindCredit, note.Kind)
		assert.True(t, note.Total.Equal(decimal.NewFromInt(110)))
		assert.Equal(t, valueobject.DefaultCurrency, note.Currency)
		assert.False(t, note.IssuedAt.IsZero())
		assert.Nil(t, note.AppliedAt)
	})

	t.Run("exposes the total as money", func(t *testing.T) {
		note := newTestNote(t)

		total := note.TotalMoney()
		assert.True(t, total.Amount().Equal(decimal.NewFromInt(110)))
		assert.Equal(t, valueobject.USD, total.Currency())
		assert.Equal(t, "110.00 USD", total.String())
	})

	t.Run("fails with empty note number", func(t *testing.T) {
		_, err := IssueNote(uuid.New(), "", NoteKindCredit, uuid.New(), "SR-2026-00001",
			uuid.New(), "Acme", decimal.Zero, decimal.Zero, decimal.Zero, "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails with invalid kind", func(t *testing.T) {
		_, err := IssueNote(uuid.New(), "CN-2026-00001", NoteKind("REFUND"), uuid.New(), "SR-2026-00001",
			uuid.New(), "Acme", decimal.Zero, decimal.Zero, decimal.Zero, "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails without return reference", func(t *testing.T) {
		_, err := IssueNote(uuid.New(), "CN-2026-00001", NoteKindCredit, uuid.Nil, "",
			uuid.New(), "Acme", decimal.Zero, decimal.Zero, decimal.Zero, "")
		require.Error(t, err)
	})

	t.Run("fails with negative total", func(t *testing.T) {
		_, err := IssueNote(uuid.New(), "DN-2026-00001", NoteKindDebit, uuid.New(), "PR-2026-00001",
			uuid.New(), "Supplier", decimal.Zero, decimal.Zero, decimal.NewFromInt(-1), "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("allows zero total", func(t *testing.T) {
		note, err := IssueNote(uuid.New(), "CN-2026-00002", NoteKindCredit, uuid.New(), "SR-2026-00002",
			uuid.New(), "Acme", decimal.Zero, decimal.Zero, decimal.Zero, "No refund")
		require.NoError(t, err)
		assert.True(t, note.Total.IsZero())
	})
}

func TestFinancialNote_Apply(t *testing.T) {
	t.Run("applies an issued note", func(t *testing.T) {
		note := newTestNote(t)
		version := note.Version

		err := note.Apply()
		require.NoError(t, err)

		assert.Equal(t, NoteStatusApplied, note.Status)
		require.NotNil(t, note.AppliedAt)
		assert.Equal(t, version+1, note.Version)
	})

	t.Run("fails when already applied", func(t *testing.T) {
		note := newTestNote(t)
		require.NoError(t, note.Apply())

		err := note.Apply()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("fails when cancelled", func(t *testing.T) {
		note := newTestNote(t)
		require.NoError(t, note.Cancel("duplicate"))

		err := note.Apply()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestFinancialNote_Cancel(t *testing.T) {
	t.Run("cancels an issued note", func(t *testing.T) {
		note := newTestNote(t)

		err := note.Cancel("issued in error")
		require.NoError(t, err)

		assert.Equal(t, NoteStatusCancelled, note.Status)
		assert.Equal(t, "issued in error", note.CancelReason)
		require.NotNil(t, note.CancelledAt)
		assert.False(t, note.IsIssued())
	})

	t.Run("requires a reason", func(t *testing.T) {
		note := newTestNote(t)

		err := note.Cancel("")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails when already applied", func(t *testing.T) {
		note := newTestNote(t)
		require.NoError(t, note.Apply())

		err := note.Cancel("too late")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
