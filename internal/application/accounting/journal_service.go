package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// JournalService maintains the double-entry journal as a secondary view of
// the primary ledger. Posting is driven by ledger transactions; amounts flow
// through the static posting rules so every entry balances by construction.
type JournalService struct {
	entries   accounting.JournalEntryRepository
	txManager shared.TransactionManager
	logger    *zap.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(
	entries accounting.JournalEntryRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		entries:   entries,
		txManager: txManager,
		logger:    logger,
	}
}

// BusinessTypeFor maps a ledger transaction to the posting-rule key
func BusinessTypeFor(kind partner.PartyKind, txType ledger.TransactionType) (accounting.BusinessTransactionType, error) {
	switch {
	case kind == partner.PartyKindCustomer && txType == ledger.TransactionTypeDebit:
		return accounting.BusinessTxCustomerDebit, nil
	case kind == partner.PartyKindCustomer && txType == ledger.TransactionTypeCredit:
		return accounting.BusinessTxCustomerCredit, nil
	case kind == partner.PartyKindVendor && txType == ledger.TransactionTypeDebit:
		return accounting.BusinessTxVendorDebit, nil
	case kind == partner.PartyKindVendor && txType == ledger.TransactionTypeCredit:
		return accounting.BusinessTxVendorCredit, nil
	}
	return "", shared.NewDomainError("INVALID_TRANSACTION_TYPE",
		fmt.Sprintf("No posting mapping for %s %s", kind, txType))
}

// Post creates a balanced journal entry for a ledger transaction. Zero-amount
// transactions are skipped; there is nothing to post.
func (s *JournalService) Post(ctx context.Context, tx *ledger.Transaction) (*accounting.JournalEntry, error) {
	if tx.Amount.IsZero() {
		s.logger.Debug("skipping journal post for zero-amount transaction",
			zap.String("transaction_id", tx.ID.String()))
		return nil, nil
	}

	txType, err := BusinessTypeFor(tx.PartyKind, tx.Type)
	if err != nil {
		return nil, err
	}

	var entry *accounting.JournalEntry
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sequence, err := s.entries.NextSequence(ctx)
		if err != nil {
			return err
		}
		entry, err = accounting.NewJournalEntry(sequence, txType, tx.Amount, tx.Description, tx.CreatedAt)
		if err != nil {
			return err
		}
		entry.WithSourceTransaction(tx.ID)
		if tx.Reference != "" {
			entry.WithReference(tx.Reference)
		}
		if tx.InvoiceNumber != "" {
			entry.WithInvoiceNumber(tx.InvoiceNumber)
		}
		return s.entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry posted",
		zap.String("entry_number", entry.EntryNumber),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", txType.String()),
		zap.String("amount", tx.Amount.String()))

	return entry, nil
}

// UpdateForTransaction locates the journal entry for an edited ledger
// transaction and rewrites its amount in place. Lookup runs most precise
// first: the source-transaction link, then the exact reference, then a
// description fragment match on the invoice number, then the invoice number
// as a reference, then a broad match over all three. When nothing matches, a
// consistency warning is logged and a fresh entry is posted so the journal
// catches up instead of silently drifting.
func (s *JournalService) UpdateForTransaction(ctx context.Context, tx *ledger.Transaction) (*accounting.JournalEntry, error) {
	entry, err := s.locate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		s.logger.Warn("consistency warning: no journal entry found for transaction, posting fresh entry",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("reference", tx.Reference),
			zap.String("invoice_number", tx.InvoiceNumber))
		return s.Post(ctx, tx)
	}

	if err := entry.UpdateAmount(tx.Amount, tx.Description); err != nil {
		return nil, err
	}
	if entry.SourceTransactionID == nil {
		// Heal the link so the next edit skips the heuristics
		entry.WithSourceTransaction(tx.ID)
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("journal entry updated",
		zap.String("entry_number", entry.EntryNumber),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("amount", tx.Amount.String()))

	return entry, nil
}

func (s *JournalService) locate(ctx context.Context, tx *ledger.Transaction) (*accounting.JournalEntry, error) {
	entry, err := s.entries.FindBySourceTransaction(ctx, tx.ID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	type lookup func(context.Context) (*accounting.JournalEntry, error)
	var tiers []lookup
	if tx.Reference != "" {
		tiers = append(tiers, func(ctx context.Context) (*accounting.JournalEntry, error) {
			return s.entries.FindByReference(ctx, tx.Reference)
		})
	}
	if tx.InvoiceNumber != "" {
		tiers = append(tiers,
			func(ctx context.Context) (*accounting.JournalEntry, error) {
				return s.entries.FindByDescriptionContains(ctx, tx.InvoiceNumber)
			},
			func(ctx context.Context) (*accounting.JournalEntry, error) {
				return s.entries.FindByReference(ctx, tx.InvoiceNumber)
			})
	}
	if tx.Reference != "" || tx.InvoiceNumber != "" {
		tiers = append(tiers, func(ctx context.Context) (*accounting.JournalEntry, error) {
			return s.entries.FindByAny(ctx, tx.Reference, tx.InvoiceNumber)
		})
	}

	for _, find := range tiers {
		entry, err := find(ctx)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// List returns journal entries for review
func (s *JournalService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*accounting.JournalEntry], error) {
	entries, total, err := s.entries.List(ctx, filter)
	if err != nil {
		return shared.Paginated[*accounting.JournalEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}
