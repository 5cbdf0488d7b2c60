package billing

import (
	"context"
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) ([]*Invoice, error)
	List(ctx context.Context, filter shared.Filter) ([]*Invoice, int64, error)
}

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	List(ctx context.Context, filter shared.Filter) ([]*Payment, int64, error)
	// LatestIncomeDates returns, per invoice number, the most recent INCOME
	// payment date for the given party. Used as voucher-date evidence for
	// invoice-linked CREDIT transactions.
	LatestIncomeDates(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, invoiceNumbers []string) (map[string]time.Time, error)
}

// CreditNoteRepository defines persistence operations for credit notes
type CreditNoteRepository interface {
	Create(ctx context.Context, note *CreditNote) error
	FindByReference(ctx context.Context, reference string) (*CreditNote, error)
	// DatesByReference returns, per reference, the note date. Used for
	// voucher-date resolution of "#CREDIT"/"#DEBIT" transactions.
	DatesByReference(ctx context.Context, references []string) (map[string]time.Time, error)
}
