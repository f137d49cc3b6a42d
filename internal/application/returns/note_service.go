package returns

import (
	"context"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteService handles financial note operations. Notes are issued only by
// the approve transaction; this service covers the later lifecycle.
type NoteService struct {
	noteRepo finance.NoteRepository
	logger   *zap.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo finance.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

// SetLogger sets the logger used for storage failure causes
func (s *NoteService) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

func (s *NoteService) storageError(err error) error {
	return storageError(s.logger, err)
}

// GetByID retrieves a note by ID
func (s *NoteService) GetByID(ctx context.Context, tenantID, noteID uuid.UUID) (*NoteResponse, error) {
	note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, noteID)
	if err != nil {
		return nil, s.storageError(err)
	}
	response := ToNoteResponse(note)
	return &response, nil
}

// GetByReturn retrieves the note issued for a return
func (s *NoteService) GetByReturn(ctx context.Context, tenantID, returnID uuid.UUID) (*NoteResponse, error) {
	note, err := s.noteRepo.FindByReturn(ctx, tenantID, returnID)
	if err != nil {
		return nil, s.storageError(err)
	}
	response := ToNoteResponse(note)
	return &response, nil
}

// List retrieves notes for a tenant with pagination
func (s *NoteService) List(ctx context.Context, tenantID uuid.UUID, page, pageSize int) (*shared.Paginated[NoteResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	notes, err := s.noteRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, s.storageError(err)
	}
	total, err := s.noteRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, s.storageError(err)
	}

	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Apply marks a note as applied against the counterparty's balance
func (s *NoteService) Apply(ctx context.Context, tenantID, noteID uuid.UUID) (*NoteResponse, error) {
	note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, noteID)
	if err != nil {
		return nil, s.storageError(err)
	}
	if err := note.Apply(); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, s.storageError(err)
	}
	response := ToNoteResponse(note)
	return &response, nil
}

// Cancel voids an issued note
func (s *NoteService) Cancel(ctx context.Context, tenantID, noteID uuid.UUID, reason string) (*NoteResponse, error) {
	note, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, noteID)
	if err != nil {
		return nil, s.storageError(err)
	}
	if err := note.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, s.storageError(err)
	}
	response := ToNoteResponse(note)
	return &response, nil
}
