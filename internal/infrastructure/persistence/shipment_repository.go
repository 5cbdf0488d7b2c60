package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/forwardops/backend/internal/domain/shipping"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShipmentRepository implements shipping.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Create inserts a new shipment
func (r *GormShipmentRepository) Create(ctx context.Context, shipment *shipping.Shipment) error {
	return conn(ctx, r.db).Create(shipment).Error
}

// Update persists all fields of a shipment
func (r *GormShipmentRepository) Update(ctx context.Context, shipment *shipping.Shipment) error {
	return conn(ctx, r.db).Save(shipment).Error
}

// FindByID finds a shipment by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Shipment, error) {
	var shipment shipping.Shipment
	if err := conn(ctx, r.db).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// List returns shipments matching the filter with the total count
func (r *GormShipmentRepository) List(ctx context.Context, filter shared.Filter) ([]*shipping.Shipment, int64, error) {
	query := conn(ctx, r.db).Model(&shipping.Shipment{})
	query = applySearch(query, filter.Search, "number", "origin", "destination", "tracking_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shipments []*shipping.Shipment
	if err := applyPagination(query, filter).Find(&shipments).Error; err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

// NextSequence reserves the next shipment number. Runs inside the caller's
// transaction so concurrent bookings cannot take the same number.
func (r *GormShipmentRepository) NextSequence(ctx context.Context) (int64, error) {
	var next int64
	err := conn(ctx, r.db).
		Model(&shipping.Shipment{}).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// DatesByInvoiceNumbers returns shipment dates keyed by the invoice number of
// either side
func (r *GormShipmentRepository) DatesByInvoiceNumbers(ctx context.Context, invoiceNumbers []string) (map[string]time.Time, error) {
	if len(invoiceNumbers) == 0 {
		return map[string]time.Time{}, nil
	}

	type row struct {
		CustomerInvoiceNumber string
		VendorInvoiceNumber   string
		ShipmentDate          time.Time
	}
	var rows []row
	err := conn(ctx, r.db).
		Model(&shipping.Shipment{}).
		Select("customer_invoice_number, vendor_invoice_number, shipment_date").
		Where("customer_invoice_number IN ? OR vendor_invoice_number IN ?", invoiceNumbers, invoiceNumbers).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(invoiceNumbers))
	for _, n := range invoiceNumbers {
		wanted[n] = true
	}
	dates := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		if wanted[r.CustomerInvoiceNumber] {
			dates[r.CustomerInvoiceNumber] = r.ShipmentDate
		}
		if wanted[r.VendorInvoiceNumber] {
			dates[r.VendorInvoiceNumber] = r.ShipmentDate
		}
	}
	return dates, nil
}
