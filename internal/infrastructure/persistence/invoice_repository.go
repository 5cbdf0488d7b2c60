package persistence

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/billing"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts a new invoice with its line items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return conn(ctx, r.db).Create(invoice).Error
}

// Update persists all fields of an invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	return conn(ctx, r.db).Save(invoice).Error
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := conn(ctx, r.db).Preload("LineItems").First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds an invoice by its unique number
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := conn(ctx, r.db).Preload("LineItems").
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByShipmentID returns both side invoices of a shipment
func (r *GormInvoiceRepository) FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	err := conn(ctx, r.db).Preload("LineItems").
		Where("shipment_id = ?", shipmentID).
		Order("invoice_number ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// List returns invoices matching the filter with the total count
func (r *GormInvoiceRepository) List(ctx context.Context, filter shared.Filter) ([]*billing.Invoice, int64, error) {
	query := conn(ctx, r.db).Model(&billing.Invoice{})
	query = applySearch(query, filter.Search, "invoice_number")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []*billing.Invoice
	if err := applyPagination(query, filter).Preload("LineItems").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}
