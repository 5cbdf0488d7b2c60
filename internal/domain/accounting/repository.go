package accounting

import (
	"context"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JournalEntryRepository defines persistence operations for journal entries
type JournalEntryRepository interface {
	Create(ctx context.Context, entry *JournalEntry) error
	Update(ctx context.Context, entry *JournalEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)
	FindByEntryNumber(ctx context.Context, entryNumber string) (*JournalEntry, error)
	// NextSequence reserves the next entry number sequence value
	NextSequence(ctx context.Context) (int64, error)
	List(ctx context.Context, filter shared.Filter) ([]*JournalEntry, int64, error)

	// Lookup tiers used by the update path, most precise first
	FindBySourceTransaction(ctx context.Context, transactionID uuid.UUID) (*JournalEntry, error)
	FindByReference(ctx context.Context, reference string) (*JournalEntry, error)
	FindByDescriptionContains(ctx context.Context, fragment string) (*JournalEntry, error)
	// FindByAny is the broad OR fallback over reference, invoice number and
	// description
	FindByAny(ctx context.Context, reference, invoiceNumber string) (*JournalEntry, error)
}

// ChartOfAccountRepository defines persistence operations for the chart of
// accounts
type ChartOfAccountRepository interface {
	FindByCode(ctx context.Context, code string) (*ChartOfAccount, error)
	FindAll(ctx context.Context) ([]*ChartOfAccount, error)
	Save(ctx context.Context, account *ChartOfAccount) error
}
