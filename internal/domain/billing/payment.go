package billing

import (
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTransactionType marks the cash direction of a payment record
type PaymentTransactionType string

const (
	PaymentTypeIncome  PaymentTransactionType = "INCOME"
	PaymentTypeExpense PaymentTransactionType = "EXPENSE"
)

// IsValid returns true if the payment transaction type is valid
func (t PaymentTransactionType) IsValid() bool {
	return t == PaymentTypeIncome || t == PaymentTypeExpense
}

// PaymentCategoryBalanceApplied marks payments that document an existing
// credit balance being applied to a new invoice rather than actual cash
// movement.
const PaymentCategoryBalanceApplied = "Balance Applied"

// Payment is a cash-movement record. INCOME payments against an invoice are
// also voucher-date evidence for CREDIT ledger transactions.
type Payment struct {
	shared.BaseEntity
	PartyKind       partner.PartyKind      `gorm:"type:varchar(20);not null;index:idx_payment_party,priority:1"`
	PartyID         uuid.UUID              `gorm:"type:uuid;not null;index:idx_payment_party,priority:2"`
	TransactionType PaymentTransactionType `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Mode            string                 `gorm:"type:varchar(30);not null"`
	Category        string                 `gorm:"type:varchar(50)"`
	InvoiceNumber   string                 `gorm:"type:varchar(50);index"`
	Reference       string                 `gorm:"type:varchar(200)"`
	Date            time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment record
func NewPayment(
	kind partner.PartyKind,
	partyID uuid.UUID,
	txType PaymentTransactionType,
	amount decimal.Decimal,
	mode string,
	date time.Time,
) (*Payment, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY_KIND", "Invalid party kind")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Payment type must be INCOME or EXPENSE")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Payment{
		BaseEntity:      shared.NewBaseEntity(),
		PartyKind:       kind,
		PartyID:         partyID,
		TransactionType: txType,
		Amount:          amount,
		Mode:            mode,
		Date:            date,
	}, nil
}

// WithCategory sets the payment category
func (p *Payment) WithCategory(category string) *Payment {
	p.Category = category
	return p
}

// WithInvoiceNumber links the payment to an invoice
func (p *Payment) WithInvoiceNumber(invoiceNumber string) *Payment {
	p.InvoiceNumber = invoiceNumber
	return p
}

// WithReference sets the reference string
func (p *Payment) WithReference(reference string) *Payment {
	p.Reference = reference
	return p
}
