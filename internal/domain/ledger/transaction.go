package ledger

import (
	"strings"
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger transaction
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDebit, TransactionTypeCredit:
		return true
	}
	return false
}

// Reference prefixes carrying special voucher-date semantics
const (
	// ReferenceStartingBalance marks the synthetic transaction that seeds a
	// party's history. Its own (possibly backdated) createdAt is its voucher date
	// and it is always replayed first.
	ReferenceStartingBalance = "STARTING-BALANCE"
	// ReferenceCreditNote links the transaction to a credit note by reference
	ReferenceCreditNote = "#CREDIT"
	// ReferenceDebitNote links the transaction to a debit note by reference
	ReferenceDebitNote = "#DEBIT"
)

// Transaction is an entry in a party's running ledger. PreviousBalance and
// NewBalance are not authoritative at insertion time: they are recomputed in
// bulk, in voucher-date order, by the reconciliation replay. Rows are never
// physically reordered or deleted.
type Transaction struct {
	shared.BaseEntity
	PartyKind       partner.PartyKind `gorm:"type:varchar(20);not null;index:idx_tx_party,priority:1"`
	PartyID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_tx_party,priority:2"`
	Type            TransactionType   `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Description     string            `gorm:"type:varchar(500)"`
	Reference       string            `gorm:"type:varchar(200);index"`
	InvoiceNumber   string            `gorm:"type:varchar(50);index"`
	PreviousBalance decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	NewBalance      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "ledger_transactions"
}

// NewTransaction creates a new ledger transaction
func NewTransaction(
	kind partner.PartyKind,
	partyID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	description string,
) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY_KIND", "Invalid party kind")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be DEBIT or CREDIT")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	return &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		PartyKind:   kind,
		PartyID:     partyID,
		Type:        txType,
		Amount:      amount,
		Description: description,
	}, nil
}

// WithReference sets the reference string
func (t *Transaction) WithReference(reference string) *Transaction {
	t.Reference = reference
	return t
}

// WithInvoiceNumber links the transaction to an invoice
func (t *Transaction) WithInvoiceNumber(invoiceNumber string) *Transaction {
	t.InvoiceNumber = invoiceNumber
	return t
}

// WithCreatedAt backdates the transaction. Used for starting-balance entries
// that must sort before everything already on file.
func (t *Transaction) WithCreatedAt(createdAt time.Time) *Transaction {
	t.CreatedAt = createdAt
	return t
}

// SetBalances records a recomputed previous/new balance pair
func (t *Transaction) SetBalances(previous, next decimal.Decimal) {
	t.PreviousBalance = previous
	t.NewBalance = next
}

// IsStartingBalance reports whether this is the synthetic seed transaction
func (t *Transaction) IsStartingBalance() bool {
	return strings.HasPrefix(t.Reference, ReferenceStartingBalance)
}

// HasCreditNoteReference reports whether the reference links a credit/debit note
func (t *Transaction) HasCreditNoteReference() bool {
	return strings.HasPrefix(t.Reference, ReferenceCreditNote) ||
		strings.HasPrefix(t.Reference, ReferenceDebitNote)
}

// NextBalance applies the sign convention for the given party kind:
// customer CREDIT adds and DEBIT subtracts, vendor is inverted (a vendor
// DEBIT increases what we owe them).
func NextBalance(kind partner.PartyKind, txType TransactionType, balance, amount decimal.Decimal) decimal.Decimal {
	credits := txType == TransactionTypeCredit
	if kind == partner.PartyKindVendor {
		credits = !credits
	}
	if credits {
		return balance.Add(amount)
	}
	return balance.Sub(amount)
}

// StartingBalanceValue computes the seed balance a STARTING-BALANCE
// transaction establishes, following the same sign convention as NextBalance
// applied to a zero balance.
func StartingBalanceValue(kind partner.PartyKind, txType TransactionType, amount decimal.Decimal) decimal.Decimal {
	return NextBalance(kind, txType, decimal.Zero, amount)
}
