package ledger

import (
	"context"
	"time"

	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// JournalPoster posts the double-entry view of a ledger transaction
type JournalPoster interface {
	Post(ctx context.Context, tx *ledger.Transaction) (*accounting.JournalEntry, error)
}

// RecordTransactionInput carries the fields for manually recording a ledger
// transaction. CreatedAt is optional; starting-balance entries backdate it so
// they sort before everything already on file.
type RecordTransactionInput struct {
	PartyKind     partner.PartyKind
	PartyID       uuid.UUID
	Type          ledger.TransactionType
	Amount        decimal.Decimal
	Description   string
	Reference     string
	InvoiceNumber string
	CreatedAt     time.Time
}

// TransactionRecorder appends transactions to a party's ledger. The balance
// pair written here is provisional, derived from the party's cached balance;
// the reconciliation replay is what makes balances authoritative.
type TransactionRecorder struct {
	transactions ledger.TransactionRepository
	customers    partner.CustomerRepository
	vendors      partner.VendorRepository
	journal      JournalPoster
	txManager    shared.TransactionManager
	logger       *zap.Logger
}

// NewTransactionRecorder creates a new transaction recorder
func NewTransactionRecorder(
	transactions ledger.TransactionRepository,
	customers partner.CustomerRepository,
	vendors partner.VendorRepository,
	journal JournalPoster,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *TransactionRecorder {
	return &TransactionRecorder{
		transactions: transactions,
		customers:    customers,
		vendors:      vendors,
		journal:      journal,
		txManager:    txManager,
		logger:       logger,
	}
}

// Record validates the party, appends the transaction and moves the party's
// cached balance, all in one store transaction, then posts the journal view
// best effort.
func (r *TransactionRecorder) Record(ctx context.Context, input RecordTransactionInput) (*ledger.Transaction, error) {
	tx, err := ledger.NewTransaction(input.PartyKind, input.PartyID, input.Type, input.Amount, input.Description)
	if err != nil {
		return nil, err
	}
	if input.Reference != "" {
		tx.WithReference(input.Reference)
	}
	if input.InvoiceNumber != "" {
		tx.WithInvoiceNumber(input.InvoiceNumber)
	}
	if !input.CreatedAt.IsZero() {
		tx.WithCreatedAt(input.CreatedAt)
	}

	err = r.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		switch input.PartyKind {
		case partner.PartyKindCustomer:
			customer, err := r.customers.FindByID(ctx, input.PartyID)
			if err != nil {
				return err
			}
			r.applyBalances(tx, customer)
			if err := r.transactions.Create(ctx, tx); err != nil {
				return err
			}
			return r.customers.SaveWithLock(ctx, customer)
		case partner.PartyKindVendor:
			vendor, err := r.vendors.FindByID(ctx, input.PartyID)
			if err != nil {
				return err
			}
			r.applyBalances(tx, vendor)
			if err := r.transactions.Create(ctx, tx); err != nil {
				return err
			}
			return r.vendors.SaveWithLock(ctx, vendor)
		default:
			return shared.NewDomainError("INVALID_PARTY_KIND", "Invalid party kind")
		}
	})
	if err != nil {
		return nil, err
	}

	// Journal posting is best effort; starting-balance seeds are synthetic
	// rows, not business postings, and stay out of the journal.
	if !tx.IsStartingBalance() {
		if _, err := r.journal.Post(ctx, tx); err != nil {
			r.logger.Warn("journal post failed for recorded transaction",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err))
		}
	}

	r.logger.Info("ledger transaction recorded",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("party_kind", string(tx.PartyKind)),
		zap.String("party_id", tx.PartyID.String()),
		zap.String("type", tx.Type.String()),
		zap.String("amount", tx.Amount.String()))

	return tx, nil
}

func (r *TransactionRecorder) applyBalances(tx *ledger.Transaction, party partner.Party) {
	if tx.IsStartingBalance() {
		next := ledger.StartingBalanceValue(tx.PartyKind, tx.Type, tx.Amount)
		tx.SetBalances(decimal.Zero, next)
		party.SetBalance(next)
		return
	}
	previous := party.Balance()
	next := ledger.NextBalance(tx.PartyKind, tx.Type, previous, tx.Amount)
	tx.SetBalances(previous, next)
	party.SetBalance(next)
}
