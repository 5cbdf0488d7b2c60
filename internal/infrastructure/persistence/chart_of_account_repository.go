package persistence

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormChartOfAccountRepository implements accounting.ChartOfAccountRepository
// using GORM
type GormChartOfAccountRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountRepository creates a new GormChartOfAccountRepository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: db}
}

// FindByCode finds an account by its code
func (r *GormChartOfAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	var account accounting.ChartOfAccount
	if err := conn(ctx, r.db).First(&account, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns the full chart of accounts ordered by code
func (r *GormChartOfAccountRepository) FindAll(ctx context.Context) ([]*accounting.ChartOfAccount, error) {
	var accounts []*accounting.ChartOfAccount
	if err := conn(ctx, r.db).Order("code ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	return conn(ctx, r.db).Save(account).Error
}

// SeedDefaults inserts the accounts the posting rules depend on, skipping any
// that already exist
func (r *GormChartOfAccountRepository) SeedDefaults(ctx context.Context) error {
	for _, account := range accounting.DefaultChartOfAccounts() {
		var count int64
		if err := conn(ctx, r.db).
			Model(&accounting.ChartOfAccount{}).
			Where("code = ?", account.Code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := conn(ctx, r.db).Create(account).Error; err != nil {
			return err
		}
	}
	return nil
}
