package persistence

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create inserts a new ledger transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	return conn(ctx, r.db).Create(tx).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var tx ledger.Transaction
	if err := conn(ctx, r.db).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAllByParty loads the complete history for a party in insertion order
func (r *GormTransactionRepository) FindAllByParty(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID) ([]*ledger.Transaction, error) {
	var txs []*ledger.Transaction
	err := conn(ctx, r.db).
		Where("party_kind = ? AND party_id = ?", kind, partyID).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByInvoiceNumber finds the party's transaction linked to an invoice with
// the given direction
func (r *GormTransactionRepository) FindByInvoiceNumber(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, invoiceNumber string, txType ledger.TransactionType) (*ledger.Transaction, error) {
	var tx ledger.Transaction
	err := conn(ctx, r.db).
		Where("party_kind = ? AND party_id = ? AND invoice_number = ? AND type = ?",
			kind, partyID, invoiceNumber, txType).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Update persists all fields of a transaction
func (r *GormTransactionRepository) Update(ctx context.Context, tx *ledger.Transaction) error {
	return conn(ctx, r.db).Save(tx).Error
}

// UpdateBalances overwrites the balance pair of every given transaction. The
// write is idempotent; rows whose balances did not change are written anyway.
func (r *GormTransactionRepository) UpdateBalances(ctx context.Context, txs []*ledger.Transaction) error {
	db := conn(ctx, r.db)
	for _, tx := range txs {
		err := db.Model(&ledger.Transaction{}).
			Where("id = ?", tx.ID).
			Updates(map[string]interface{}{
				"previous_balance": tx.PreviousBalance,
				"new_balance":      tx.NewBalance,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
