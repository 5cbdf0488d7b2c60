package billing

import (
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNote adjusts a party's ledger outside the invoice flow. The linked
// ledger transaction carries the note's reference (a "#CREDIT-"/"#DEBIT-"
// prefixed string) and takes the note's date as its voucher date.
type CreditNote struct {
	shared.BaseEntity
	NoteNumber  string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	PartyKind   partner.PartyKind `gorm:"type:varchar(20);not null"`
	PartyID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Reference   string            `gorm:"type:varchar(200);not null;index"`
	Description string            `gorm:"type:varchar(500)"`
	Date        time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CreditNote) TableName() string {
	return "credit_notes"
}

// NewCreditNote creates a new credit note
func NewCreditNote(
	noteNumber string,
	kind partner.PartyKind,
	partyID uuid.UUID,
	amount decimal.Decimal,
	reference string,
	date time.Time,
) (*CreditNote, error) {
	if noteNumber == "" {
		return nil, shared.NewDomainError("INVALID_NOTE_NUMBER", "Note number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY_KIND", "Invalid party kind")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Note amount must be positive")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Note reference cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &CreditNote{
		BaseEntity: shared.NewBaseEntity(),
		NoteNumber: noteNumber,
		PartyKind:  kind,
		PartyID:    partyID,
		Amount:     amount,
		Reference:  reference,
		Date:       date,
	}, nil
}
