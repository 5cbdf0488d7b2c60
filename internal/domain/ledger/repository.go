package ledger

import (
	"context"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// TransactionRepository defines persistence operations for ledger transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// FindAllByParty loads the complete, unpaginated history for a party in
	// insertion order. Reconciliation must always see the entire history.
	FindAllByParty(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID) ([]*Transaction, error)
	FindByInvoiceNumber(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, invoiceNumber string, txType TransactionType) (*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	// UpdateBalances overwrites the previous/new balance pair of every given
	// transaction. The overwrite is idempotent and applied even when values
	// did not change.
	UpdateBalances(ctx context.Context, txs []*Transaction) error
}
