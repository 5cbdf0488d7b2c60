package shipping

import (
	"context"
	"time"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShipmentRepository defines persistence operations for shipments
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *Shipment) error
	Update(ctx context.Context, shipment *Shipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	List(ctx context.Context, filter shared.Filter) ([]*Shipment, int64, error)
	// NextSequence reserves the next shipment number sequence value
	NextSequence(ctx context.Context) (int64, error)
	// DatesByInvoiceNumbers returns, per invoice number, the shipment date of
	// the shipment that produced the invoice. Used as voucher-date evidence
	// for invoice-linked DEBIT transactions.
	DatesByInvoiceNumbers(ctx context.Context, invoiceNumbers []string) (map[string]time.Time, error)
}
