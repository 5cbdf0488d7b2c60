package persistence

import (
	"context"
	"time"

	"github.com/forwardops/backend/internal/domain/billing"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a new payment record
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	return conn(ctx, r.db).Create(payment).Error
}

// List returns payments matching the filter with the total count
func (r *GormPaymentRepository) List(ctx context.Context, filter shared.Filter) ([]*billing.Payment, int64, error) {
	query := conn(ctx, r.db).Model(&billing.Payment{})
	query = applySearch(query, filter.Search, "invoice_number", "reference")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*billing.Payment
	if err := applyPagination(query, filter).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// LatestIncomeDates returns, per invoice number, the most recent INCOME
// payment date recorded for the party. The maximum is folded in Go: an
// aggregate expression loses its column type and the sqlite driver hands
// MAX(date) back as text, which cannot scan into time.Time.
func (r *GormPaymentRepository) LatestIncomeDates(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, invoiceNumbers []string) (map[string]time.Time, error) {
	if len(invoiceNumbers) == 0 {
		return map[string]time.Time{}, nil
	}

	var payments []*billing.Payment
	err := conn(ctx, r.db).
		Where("party_kind = ? AND party_id = ? AND transaction_type = ? AND invoice_number IN ?",
			kind, partyID, billing.PaymentTypeIncome, invoiceNumbers).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	dates := make(map[string]time.Time, len(invoiceNumbers))
	for _, p := range payments {
		if latest, ok := dates[p.InvoiceNumber]; !ok || p.Date.After(latest) {
			dates[p.InvoiceNumber] = p.Date
		}
	}
	return dates, nil
}
