package partner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyKind distinguishes the two ledger parties.
// The running-balance sign convention differs between them: for a customer a
// positive balance means the customer holds credit with us, for a vendor a
// positive balance means we owe the vendor.
type PartyKind string

const (
	PartyKindCustomer PartyKind = "CUSTOMER"
	PartyKindVendor   PartyKind = "VENDOR"
)

// String returns the string representation of PartyKind
func (k PartyKind) String() string {
	return string(k)
}

// IsValid returns true if the party kind is valid
func (k PartyKind) IsValid() bool {
	switch k {
	case PartyKindCustomer, PartyKindVendor:
		return true
	}
	return false
}

// Party is the common view of a customer or vendor held by the ledger.
// The stored balance is a memoized projection of the transaction history;
// it is only trustworthy immediately after a reconciliation pass.
type Party interface {
	GetID() uuid.UUID
	Kind() PartyKind
	Balance() decimal.Decimal
	SetBalance(balance decimal.Decimal)
}
