package returns

import (
	"context"
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNote(t *testing.T, store *fakeStore, tenantID uuid.UUID) *finance.FinancialNote {
	t.Helper()
	note, err := finance.IssueNote(
		tenantID, "CN-2026-00001", finance.NoteKindCredit,
		uuid.New(), "SR-2026-00001",
		uuid.New(), "Acme Retail",
		decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(110),
		"Customer return",
	)
	require.NoError(t, err)
	store.notes[note.ID] = note
	return note
}

func TestNoteService(t *testing.T) {
	t.Run("applies an issued note", func(t *testing.T) {
		store := newFakeStore()
		tenantID := uuid.New()
		note := seedNote(t, store, tenantID)
		service := NewNoteService(&fakeNoteRepo{s: store})

		resp, err := service.Apply(context.Background(), tenantID, note.ID)
		require.NoError(t, err)

		assert.Equal(t, "APPLIED", resp.Status)
		assert.Equal(t, finance.NoteStatusApplied, store.notes[note.ID].Status)
	})

	t.Run("apply fails twice", func(t *testing.T) {
		store := newFakeStore()
		tenantID := uuid.New()
		note := seedNote(t, store, tenantID)
		service := NewNoteService(&fakeNoteRepo{s: store})

		_, err := service.Apply(context.Background(), tenantID, note.ID)
		require.NoError(t, err)

		_, err = service.Apply(context.Background(), tenantID, note.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("cancels an issued note with a reason", func(t *testing.T) {
		store := newFakeStore()
		tenantID := uuid.New()
		note := seedNote(t, store, tenantID)
		service := NewNoteService(&fakeNoteRepo{s: store})

		resp, err := service.Cancel(context.Background(), tenantID, note.ID, "issued in error")
		require.NoError(t, err)

		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Equal(t, "issued in error", resp.CancelReason)
	})

	t.Run("looks up the note for a return", func(t *testing.T) {
		store := newFakeStore()
		tenantID := uuid.New()
		note := seedNote(t, store, tenantID)
		service := NewNoteService(&fakeNoteRepo{s: store})

		resp, err := service.GetByReturn(context.Background(), tenantID, note.ReturnID)
		require.NoError(t, err)
		assert.Equal(t, note.NoteNumber, resp.NoteNumber)

		_, err = service.GetByReturn(context.Background(), tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("scopes lookups to the tenant", func(t *testing.T) {
		store := newFakeStore()
		note := seedNote(t, store, uuid.New())
		service := NewNoteService(&fakeNoteRepo{s: store})

		_, err := service.GetByID(context.Background(), uuid.New(), note.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
