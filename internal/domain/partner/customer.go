package partner

import (
	"strings"
	"time"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer represents a freight customer aggregate root.
// CurrentBalance is the cached output of the last reconciliation pass over the
// customer's transaction history; a positive balance means the customer holds
// credit with us, a negative one means the customer owes us.
type Customer struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Email          string          `gorm:"type:varchar(200)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Address        string          `gorm:"type:varchar(500)"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(code, name string) (*Customer, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		CurrentBalance:    decimal.Zero,
		CreditLimit:       decimal.Zero,
		Active:            true,
	}, nil
}

// WithContact sets contact details
func (c *Customer) WithContact(email, phone, address string) *Customer {
	c.Email = email
	c.Phone = phone
	c.Address = address
	return c
}

// WithCreditLimit sets the credit limit
func (c *Customer) WithCreditLimit(limit decimal.Decimal) *Customer {
	c.CreditLimit = limit
	return c
}

// Kind returns the party kind
func (c *Customer) Kind() PartyKind {
	return PartyKindCustomer
}

// Balance returns the cached current balance
func (c *Customer) Balance() decimal.Decimal {
	return c.CurrentBalance
}

// SetBalance overwrites the cached balance with a reconciled value
func (c *Customer) SetBalance(balance decimal.Decimal) {
	c.CurrentBalance = balance
	c.UpdatedAt = time.Now()
}

// CreditAvailable returns the remaining credit headroom. A negative stored
// balance is money the customer owes and eats into the limit.
func (c *Customer) CreditAvailable() decimal.Decimal {
	if c.CreditLimit.IsZero() {
		return decimal.Zero
	}
	return c.CreditLimit.Add(c.CurrentBalance)
}
