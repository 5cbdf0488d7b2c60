package partner

import (
	"strings"
	"time"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Vendor represents a carrier/agent vendor aggregate root.
// CurrentBalance is the cached output of the last reconciliation pass; a
// positive balance means we owe the vendor, a negative one means the vendor
// owes us (overpayment or credit note).
type Vendor struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Email          string          `gorm:"type:varchar(200)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Address        string          `gorm:"type:varchar(500)"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor
func NewVendor(code, name string) (*Vendor, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Vendor code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}

	return &Vendor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		CurrentBalance:    decimal.Zero,
		Active:            true,
	}, nil
}

// WithContact sets contact details
func (v *Vendor) WithContact(email, phone, address string) *Vendor {
	v.Email = email
	v.Phone = phone
	v.Address = address
	return v
}

// Kind returns the party kind
func (v *Vendor) Kind() PartyKind {
	return PartyKindVendor
}

// Balance returns the cached current balance
func (v *Vendor) Balance() decimal.Decimal {
	return v.CurrentBalance
}

// SetBalance overwrites the cached balance with a reconciled value
func (v *Vendor) SetBalance(balance decimal.Decimal) {
	v.CurrentBalance = balance
	v.UpdatedAt = time.Now()
}
