package finance

import (
	"time"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/IdrisInc/smartbz/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoteKind distinguishes credit notes (sale returns, owed to the customer)
// from debit notes (purchase returns, reducing what is owed to the supplier)
type NoteKind string

const (
	NoteKindCredit NoteKind = "CREDIT"
	NoteKindDebit  NoteKind = "DEBIT"
)

// String returns the string representation of NoteKind
func (k NoteKind) String() string {
	return string(k)
}

// IsValid returns true if the note kind is valid
func (k NoteKind) IsValid() bool {
	return k == NoteKindCredit || k == NoteKindDebit
}

// NoteStatus represents the status of a financial note
type NoteStatus string

const (
	NoteStatusDraft     NoteStatus = "DRAFT"
	NoteStatusIssued    NoteStatus = "ISSUED"
	NoteStatusApplied   NoteStatus = "APPLIED"
	NoteStatusCancelled NoteStatus = "CANCELLED"
)

// String returns the string representation of NoteStatus
func (s NoteStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the note is in a terminal state
func (s NoteStatus) IsTerminal() bool {
	return s == NoteStatusApplied || s == NoteStatusCancelled
}

// FinancialNote is the immutable accounting document issued once per approved
// return: a credit note for sale returns, a debit note for purchase returns.
// It is created in status ISSUED atomically with the return's ledger entries;
// applying or cancelling it are separate operations outside the approve path.
type FinancialNote struct {
	shared.TenantAggregateRoot
	NoteNumber       string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_notes_tenant_number"`
	Kind             NoteKind             `gorm:"type:varchar(10);not null;index"`
	ReturnID         uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_notes_return"` // exactly one note per return
	ReturnNumber     string               `gorm:"type:varchar(50)"`
	CounterpartyID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	CounterpartyName string               `gorm:"type:varchar(255)"`
	Amount           decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // pre-tax
	Tax              decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Total            decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Status           NoteStatus           `gorm:"type:varchar(10);not null;index"`
	Reason           string               `gorm:"type:varchar(255)"`
	Remark           string               `gorm:"type:varchar(500)"`
	IssuedAt         time.Time            `gorm:"not null"`
	AppliedAt        *time.Time
	CancelledAt      *time.Time
	CancelReason     string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (FinancialNote) TableName() string {
	return "financial_notes"
}

// IssueNote creates an issued financial note for an approved return.
// Uniqueness of the note number and of the return reference is enforced by
// storage indexes, not by the generator.
func IssueNote(
	tenantID uuid.UUID,
	noteNumber string,
	kind NoteKind,
	returnID uuid.UUID,
	returnNumber string,
	counterpartyID uuid.UUID,
	counterpartyName string,
	amount, tax, total decimal.Decimal,
	reason string,
) (*FinancialNote, error) {
	if noteNumber == "" {
		return nil, shared.NewValidationError("Note number cannot be empty")
	}
	if len(noteNumber) > 50 {
		return nil, shared.NewValidationError("Note number cannot exceed 50 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Note kind must be CREDIT or DEBIT")
	}
	if returnID == uuid.Nil {
		return nil, shared.NewValidationError("Return reference cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("Counterparty ID cannot be empty")
	}
	if total.IsNegative() {
		return nil, shared.NewValidationError("Note total cannot be negative")
	}

	return &FinancialNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		NoteNumber:          noteNumber,
		Kind:                kind,
		ReturnID:            returnID,
		ReturnNumber:        returnNumber,
		CounterpartyID:      counterpartyID,
		CounterpartyName:    counterpartyName,
		Amount:              amount,
		Tax:                 tax,
		Total:               total,
		Currency:            valueobject.DefaultCurrency,
		Status:              NoteStatusIssued,
		Reason:              reason,
		IssuedAt:            time.Now(),
	}, nil
}

// Apply marks the note as applied against the counterparty's balance
func (n *FinancialNote) Apply() error {
	if n.Status != NoteStatusIssued {
		return shared.ErrInvalidState
	}

	now := time.Now()
	n.Status = NoteStatusApplied
	n.AppliedAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()

	return nil
}

// Cancel voids an issued note
func (n *FinancialNote) Cancel(reason string) error {
	if n.Status != NoteStatusIssued {
		return shared.ErrInvalidState
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	n.Status = NoteStatusCancelled
	n.CancelledAt = &now
	n.CancelReason = reason
	n.UpdatedAt = now
	n.IncrementVersion()

	return nil
}

// IsIssued returns true if the note is issued and not yet applied or cancelled
func (n *FinancialNote) IsIssued() bool {
	return n.Status == NoteStatusIssued
}

// TotalMoney returns the note total as a currency-aware amount
func (n *FinancialNote) TotalMoney() valueobject.Money {
	m, err := valueobject.NewMoney(n.Total, n.Currency)
	if err != nil {
		return valueobject.NewMoneyUSD(n.Total)
	}
	return m
}
