package persistence

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements accounting.JournalEntryRepository
// using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// Create inserts a new journal entry with its lines
func (r *GormJournalEntryRepository) Create(ctx context.Context, entry *accounting.JournalEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

// Update persists an entry and its rewritten lines
func (r *GormJournalEntryRepository) Update(ctx context.Context, entry *accounting.JournalEntry) error {
	db := conn(ctx, r.db)
	if err := db.Save(entry).Error; err != nil {
		return err
	}
	// Save does not touch association rows; the lines carry the new amounts
	for i := range entry.Lines {
		if err := db.Save(&entry.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds an entry by its ID
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEntryNumber finds an entry by its unique number
func (r *GormJournalEntryRepository) FindByEntryNumber(ctx context.Context, entryNumber string) (*accounting.JournalEntry, error) {
	return r.findOne(ctx, "entry_number = ?", entryNumber)
}

// NextSequence reserves the next entry number. Runs inside the caller's
// transaction so concurrent posts cannot take the same number.
func (r *GormJournalEntryRepository) NextSequence(ctx context.Context) (int64, error) {
	var next int64
	err := conn(ctx, r.db).
		Model(&accounting.JournalEntry{}).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// List returns entries matching the filter with the total count
func (r *GormJournalEntryRepository) List(ctx context.Context, filter shared.Filter) ([]*accounting.JournalEntry, int64, error) {
	query := conn(ctx, r.db).Model(&accounting.JournalEntry{})
	query = applySearch(query, filter.Search, "entry_number", "description", "reference", "invoice_number")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*accounting.JournalEntry
	if err := applyPagination(query, filter).Preload("Lines").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindBySourceTransaction finds the entry linked to a ledger transaction
func (r *GormJournalEntryRepository) FindBySourceTransaction(ctx context.Context, transactionID uuid.UUID) (*accounting.JournalEntry, error) {
	return r.findOne(ctx, "source_transaction_id = ?", transactionID)
}

// FindByReference finds the most recent entry with an exact reference match
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, reference string) (*accounting.JournalEntry, error) {
	return r.findOne(ctx, "reference = ?", reference)
}

// FindByDescriptionContains finds the most recent entry whose description
// contains the fragment
func (r *GormJournalEntryRepository) FindByDescriptionContains(ctx context.Context, fragment string) (*accounting.JournalEntry, error) {
	return r.findOne(ctx, "description LIKE ?", "%"+fragment+"%")
}

// FindByAny is the broad fallback over reference, invoice number and
// description
func (r *GormJournalEntryRepository) FindByAny(ctx context.Context, reference, invoiceNumber string) (*accounting.JournalEntry, error) {
	return r.findOne(ctx,
		"reference = ? OR invoice_number = ? OR description LIKE ?",
		reference, invoiceNumber, "%"+invoiceNumber+"%")
}

func (r *GormJournalEntryRepository) findOne(ctx context.Context, query string, args ...interface{}) (*accounting.JournalEntry, error) {
	var entry accounting.JournalEntry
	err := conn(ctx, r.db).
		Preload("Lines").
		Where(query, args...).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
