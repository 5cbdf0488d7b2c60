package billing

import (
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks how much of an invoice has been settled
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid returns true if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// InvoiceLineItem is one charge line on an invoice
type InvoiceLineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(300);not null"`
	Value       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// Invoice represents one side of a shipment billing: a customer invoice for
// what they owe us, or a vendor invoice for what we owe the carrier. One
// invoice is created per shipment per side; edits mutate the amount in place,
// invoices are never deleted by the ledger core.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Profile       partner.PartyKind `gorm:"type:varchar(20);not null"`
	PartyID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	ShipmentID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	FscCharges    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status        InvoiceStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	LineItems     []InvoiceLineItem `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice for one side of a shipment
func NewInvoice(
	invoiceNumber string,
	profile partner.PartyKind,
	partyID uuid.UUID,
	shipmentID uuid.UUID,
	totalAmount decimal.Decimal,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !profile.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Invoice profile must be CUSTOMER or VENDOR")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if shipmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHIPMENT", "Shipment ID cannot be empty")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		Profile:           profile,
		PartyID:           partyID,
		ShipmentID:        shipmentID,
		TotalAmount:       totalAmount,
		FscCharges:        decimal.Zero,
		Discount:          decimal.Zero,
		Status:            InvoiceStatusPending,
	}, nil
}

// WithCharges sets the fuel surcharge and discount shown on the invoice
func (i *Invoice) WithCharges(fscCharges, discount decimal.Decimal) *Invoice {
	i.FscCharges = fscCharges
	i.Discount = discount
	return i
}

// AddLineItem appends a charge line
func (i *Invoice) AddLineItem(description string, value decimal.Decimal) *Invoice {
	i.LineItems = append(i.LineItems, InvoiceLineItem{
		ID:          uuid.New(),
		InvoiceID:   i.ID,
		Position:    len(i.LineItems),
		Description: description,
		Value:       value,
	})
	return i
}

// UpdateTotal changes the invoice amount after a shipment edit
func (i *Invoice) UpdateTotal(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	i.TotalAmount = amount
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// MarkPaid transitions the invoice by the amount settled so far
func (i *Invoice) MarkPaid(settled decimal.Decimal) {
	switch {
	case settled.GreaterThanOrEqual(i.TotalAmount):
		i.Status = InvoiceStatusPaid
	case settled.GreaterThan(decimal.Zero):
		i.Status = InvoiceStatusPartial
	default:
		i.Status = InvoiceStatusPending
	}
	i.UpdatedAt = time.Now()
}
