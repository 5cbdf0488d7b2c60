package accounting

import (
	"fmt"
	"time"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessTransactionType identifies which pair of accounts a ledger
// transaction posts against
type BusinessTransactionType string

const (
	BusinessTxCustomerDebit  BusinessTransactionType = "CUSTOMER_DEBIT"
	BusinessTxCustomerCredit BusinessTransactionType = "CUSTOMER_CREDIT"
	BusinessTxVendorDebit    BusinessTransactionType = "VENDOR_DEBIT"
	BusinessTxVendorCredit   BusinessTransactionType = "VENDOR_CREDIT"
)

// String returns the string representation of BusinessTransactionType
func (t BusinessTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the business transaction type is valid
func (t BusinessTransactionType) IsValid() bool {
	switch t {
	case BusinessTxCustomerDebit, BusinessTxCustomerCredit,
		BusinessTxVendorDebit, BusinessTxVendorCredit:
		return true
	}
	return false
}

// PostingRule fixes the debit/credit account pair for a business transaction
// type. The table is static; it is not editable at this layer.
type PostingRule struct {
	DebitAccountCode  string
	CreditAccountCode string
}

var postingRules = map[BusinessTransactionType]PostingRule{
	// Customer invoiced: receivable up, revenue up
	BusinessTxCustomerDebit: {AccountCodeAccountsReceivable, AccountCodeFreightRevenue},
	// Customer paid: cash up, receivable down
	BusinessTxCustomerCredit: {AccountCodeCash, AccountCodeAccountsReceivable},
	// Vendor invoiced us: cost up, payable up
	BusinessTxVendorDebit: {AccountCodeFreightCost, AccountCodeAccountsPayable},
	// We paid vendor: payable down, cash down
	BusinessTxVendorCredit: {AccountCodeAccountsPayable, AccountCodeCash},
}

// PostingRuleFor returns the account pair for a business transaction type
func PostingRuleFor(txType BusinessTransactionType) (PostingRule, error) {
	rule, ok := postingRules[txType]
	if !ok {
		return PostingRule{}, shared.NewDomainError("INVALID_TRANSACTION_TYPE",
			fmt.Sprintf("No posting rule for transaction type %s", txType))
	}
	return rule, nil
}

// JournalEntryLine is one side of a double-entry posting. Exactly one of
// DebitAmount/CreditAmount is non-zero.
type JournalEntryLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountCode    string          `gorm:"type:varchar(20);not null;index"`
	DebitAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreditAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (JournalEntryLine) TableName() string {
	return "journal_entry_lines"
}

// JournalEntry is a balanced double-entry record. It is a secondary view of
// the primary ledger, not the source of truth for balances: posting failures
// are logged by callers rather than failing the parent transaction.
//
// SourceTransactionID links the entry to the ledger transaction that produced
// it, so the update path can locate entries without reference-string pattern
// matching.
type JournalEntry struct {
	shared.BaseEntity
	EntryNumber         string             `gorm:"type:varchar(30);not null;uniqueIndex"`
	Sequence            int64              `gorm:"not null;index"`
	Date                time.Time          `gorm:"not null;index"`
	Description         string             `gorm:"type:varchar(500)"`
	Reference           string             `gorm:"type:varchar(200);index"`
	InvoiceNumber       string             `gorm:"type:varchar(50);index"`
	SourceTransactionID *uuid.UUID         `gorm:"type:uuid;index"`
	TransactionType     BusinessTransactionType `gorm:"type:varchar(30);not null"`
	TotalDebit          decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	TotalCredit         decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Lines               []JournalEntryLine `gorm:"foreignKey:JournalEntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// FormatEntryNumber renders a sequence as a human-readable entry number
func FormatEntryNumber(sequence int64) string {
	return fmt.Sprintf("JE-%06d", sequence)
}

// NewJournalEntry creates a balanced two-line journal entry for the given
// business transaction type. totalDebit == totalCredit holds by construction.
func NewJournalEntry(
	sequence int64,
	txType BusinessTransactionType,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*JournalEntry, error) {
	if sequence <= 0 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Entry sequence must be positive")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	rule, err := PostingRuleFor(txType)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	entry := &JournalEntry{
		BaseEntity:      shared.NewBaseEntity(),
		EntryNumber:     FormatEntryNumber(sequence),
		Sequence:        sequence,
		Date:            date,
		Description:     description,
		TransactionType: txType,
		TotalDebit:      amount,
		TotalCredit:     amount,
	}
	entry.Lines = []JournalEntryLine{
		{
			ID:             uuid.New(),
			JournalEntryID: entry.ID,
			AccountCode:    rule.DebitAccountCode,
			DebitAmount:    amount,
			CreditAmount:   decimal.Zero,
		},
		{
			ID:             uuid.New(),
			JournalEntryID: entry.ID,
			AccountCode:    rule.CreditAccountCode,
			DebitAmount:    decimal.Zero,
			CreditAmount:   amount,
		},
	}

	return entry, nil
}

// WithReference sets the reference string
func (e *JournalEntry) WithReference(reference string) *JournalEntry {
	e.Reference = reference
	return e
}

// WithInvoiceNumber links the entry to an invoice
func (e *JournalEntry) WithInvoiceNumber(invoiceNumber string) *JournalEntry {
	e.InvoiceNumber = invoiceNumber
	return e
}

// WithSourceTransaction links the entry to the originating ledger transaction
func (e *JournalEntry) WithSourceTransaction(transactionID uuid.UUID) *JournalEntry {
	e.SourceTransactionID = &transactionID
	return e
}

// UpdateAmount rewrites both lines and totals to a new amount, keeping the
// entry balanced, instead of creating a duplicate entry.
func (e *JournalEntry) UpdateAmount(amount decimal.Decimal, description string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}

	e.TotalDebit = amount
	e.TotalCredit = amount
	if description != "" {
		e.Description = description
	}
	for i := range e.Lines {
		if e.Lines[i].DebitAmount.GreaterThan(decimal.Zero) {
			e.Lines[i].DebitAmount = amount
		} else {
			e.Lines[i].CreditAmount = amount
		}
	}
	e.UpdatedAt = time.Now()

	return nil
}

// IsBalanced reports whether debits equal credits, both in the totals and in
// the line sums
func (e *JournalEntry) IsBalanced() bool {
	if !e.TotalDebit.Equal(e.TotalCredit) {
		return false
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	return debits.Equal(e.TotalDebit) && credits.Equal(e.TotalCredit)
}
