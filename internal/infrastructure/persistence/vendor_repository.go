package persistence

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorRepository implements partner.VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := conn(ctx, r.db).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByCode finds a vendor by its unique code
func (r *GormVendorRepository) FindByCode(ctx context.Context, code string) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := conn(ctx, r.db).First(&vendor, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindAll returns vendors matching the filter with the total count
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Vendor, int64, error) {
	query := conn(ctx, r.db).Model(&partner.Vendor{})
	query = applySearch(query, filter.Search, "code", "name", "email")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vendors []*partner.Vendor
	if err := applyPagination(query, filter).Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return conn(ctx, r.db).Save(vendor).Error
}

// SaveWithLock saves a vendor guarded by its version column
func (r *GormVendorRepository) SaveWithLock(ctx context.Context, vendor *partner.Vendor) error {
	current := vendor.Version
	vendor.IncrementVersion()

	result := conn(ctx, r.db).
		Model(&partner.Vendor{}).
		Where("id = ? AND version = ?", vendor.ID, current).
		Select("name", "email", "phone", "address", "current_balance", "active", "version", "updated_at").
		Updates(vendor)
	if result.Error != nil {
		vendor.Version = current
		return result.Error
	}
	if result.RowsAffected == 0 {
		vendor.Version = current
		return shared.ErrConcurrencyConflict
	}
	return nil
}
