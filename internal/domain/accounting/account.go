package accounting

import (
	"strings"

	"github.com/forwardops/backend/internal/domain/shared"
)

// AccountType classifies a chart-of-accounts entry
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// IsValid returns true if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account codes referenced by the static posting rules
const (
	AccountCodeCash               = "1000"
	AccountCodeAccountsReceivable = "1100"
	AccountCodeAccountsPayable    = "2100"
	AccountCodeFreightRevenue     = "4000"
	AccountCodeFreightCost        = "5000"
)

// ChartOfAccount represents one account in the chart of accounts
type ChartOfAccount struct {
	shared.BaseEntity
	Code   string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name   string      `gorm:"type:varchar(200);not null"`
	Type   AccountType `gorm:"type:varchar(20);not null"`
	Active bool        `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

// NewChartOfAccount creates a new chart-of-accounts entry
func NewChartOfAccount(code, name string, accountType AccountType) (*ChartOfAccount, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type")
	}

	return &ChartOfAccount{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Type:       accountType,
		Active:     true,
	}, nil
}

// DefaultChartOfAccounts returns the accounts the posting rules depend on.
// Seeded by the initial migration and on first boot.
func DefaultChartOfAccounts() []*ChartOfAccount {
	defaults := []struct {
		code string
		name string
		typ  AccountType
	}{
		{AccountCodeCash, "Cash", AccountTypeAsset},
		{AccountCodeAccountsReceivable, "Accounts Receivable", AccountTypeAsset},
		{AccountCodeAccountsPayable, "Accounts Payable", AccountTypeLiability},
		{AccountCodeFreightRevenue, "Freight Revenue", AccountTypeRevenue},
		{AccountCodeFreightCost, "Freight Cost", AccountTypeExpense},
	}

	accounts := make([]*ChartOfAccount, 0, len(defaults))
	for _, d := range defaults {
		account, _ := NewChartOfAccount(d.code, d.name, d.typ)
		accounts = append(accounts, account)
	}
	return accounts
}
