package persistence

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := conn(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByCode finds a customer by its unique code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := conn(ctx, r.db).First(&customer, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll returns customers matching the filter with the total count
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Customer, int64, error) {
	query := conn(ctx, r.db).Model(&partner.Customer{})
	query = applySearch(query, filter.Search, "code", "name", "email")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []*partner.Customer
	if err := applyPagination(query, filter).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

// SaveWithLock saves a customer guarded by its version column. Returns
// ErrConcurrencyConflict when another writer updated the row first.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	current := customer.Version
	customer.IncrementVersion()

	result := conn(ctx, r.db).
		Model(&partner.Customer{}).
		Where("id = ? AND version = ?", customer.ID, current).
		Select("name", "email", "phone", "address", "current_balance", "credit_limit", "active", "version", "updated_at").
		Updates(customer)
	if result.Error != nil {
		customer.Version = current
		return result.Error
	}
	if result.RowsAffected == 0 {
		customer.Version = current
		return shared.ErrConcurrencyConflict
	}
	return nil
}
