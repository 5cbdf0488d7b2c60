package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/forwardops/backend/internal/domain/billing"
	"github.com/forwardops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCreditNoteRepository implements billing.CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// Create inserts a new credit note
func (r *GormCreditNoteRepository) Create(ctx context.Context, note *billing.CreditNote) error {
	return conn(ctx, r.db).Create(note).Error
}

// FindByReference finds a credit note by its ledger reference
func (r *GormCreditNoteRepository) FindByReference(ctx context.Context, reference string) (*billing.CreditNote, error) {
	var note billing.CreditNote
	if err := conn(ctx, r.db).First(&note, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// DatesByReference returns note dates keyed by reference
func (r *GormCreditNoteRepository) DatesByReference(ctx context.Context, references []string) (map[string]time.Time, error) {
	if len(references) == 0 {
		return map[string]time.Time{}, nil
	}

	type row struct {
		Reference string
		Date      time.Time
	}
	var rows []row
	err := conn(ctx, r.db).
		Model(&billing.CreditNote{}).
		Select("reference, date").
		Where("reference IN ?", references).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dates := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		dates[r.Reference] = r.Date
	}
	return dates, nil
}
