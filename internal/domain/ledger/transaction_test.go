package ledger

import (
	"testing"
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	partyID := uuid.New()

	t.Run("creates valid transaction", func(t *testing.T) {
		tx, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionTypeDebit, decimal.NewFromInt(100), "Freight charges")
		require.NoError(t, err)
		assert.Equal(t, partner.PartyKindCustomer, tx.PartyKind)
		assert.Equal(t, TransactionTypeDebit, tx.Type)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(100)))
		assert.NotEqual(t, uuid.Nil, tx.ID)
	})

	t.Run("allows zero amount", func(t *testing.T) {
		_, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionTypeCredit, decimal.Zero, "zero adjustment")
		assert.NoError(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionTypeDebit, decimal.NewFromInt(-1), "bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionType("TRANSFER"), decimal.NewFromInt(1), "bad")
		assert.Error(t, err)
	})

	t.Run("rejects nil party", func(t *testing.T) {
		_, err := NewTransaction(partner.PartyKindVendor, uuid.Nil, TransactionTypeDebit, decimal.NewFromInt(1), "bad")
		assert.Error(t, err)
	})

	t.Run("rejects invalid party kind", func(t *testing.T) {
		_, err := NewTransaction(partner.PartyKind("BROKER"), partyID, TransactionTypeDebit, decimal.NewFromInt(1), "bad")
		assert.Error(t, err)
	})
}

func TestTransactionReferences(t *testing.T) {
	partyID := uuid.New()

	t.Run("detects starting balance prefix", func(t *testing.T) {
		tx, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionTypeCredit, decimal.NewFromInt(500), "opening")
		require.NoError(t, err)
		tx.WithReference("STARTING-BALANCE-2024")
		assert.True(t, tx.IsStartingBalance())
		assert.False(t, tx.HasCreditNoteReference())
	})

	t.Run("detects credit note prefix", func(t *testing.T) {
		tx, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionTypeCredit, decimal.NewFromInt(50), "goodwill")
		require.NoError(t, err)
		tx.WithReference("#CREDIT-CN-001")
		assert.True(t, tx.HasCreditNoteReference())
	})

	t.Run("detects debit note prefix", func(t *testing.T) {
		tx, err := NewTransaction(partner.PartyKindVendor, partyID, TransactionTypeDebit, decimal.NewFromInt(50), "claim")
		require.NoError(t, err)
		tx.WithReference("#DEBIT-DN-001")
		assert.True(t, tx.HasCreditNoteReference())
	})

	t.Run("backdates creation time", func(t *testing.T) {
		backdated := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
		tx, err := NewTransaction(partner.PartyKindCustomer, partyID, TransactionTypeCredit, decimal.NewFromInt(500), "opening")
		require.NoError(t, err)
		tx.WithReference(ReferenceStartingBalance).WithCreatedAt(backdated)
		assert.Equal(t, backdated, tx.CreatedAt)
	})
}

func TestNextBalance(t *testing.T) {
	t.Run("customer credit adds", func(t *testing.T) {
		got := NextBalance(partner.PartyKindCustomer, TransactionTypeCredit, decimal.NewFromInt(50), decimal.NewFromInt(100))
		assert.True(t, got.Equal(decimal.NewFromInt(150)))
	})

	t.Run("customer debit subtracts", func(t *testing.T) {
		got := NextBalance(partner.PartyKindCustomer, TransactionTypeDebit, decimal.NewFromInt(150), decimal.NewFromInt(100))
		assert.True(t, got.Equal(decimal.NewFromInt(50)))
	})

	t.Run("vendor debit adds", func(t *testing.T) {
		// A vendor DEBIT increases what we owe them
		got := NextBalance(partner.PartyKindVendor, TransactionTypeDebit, decimal.NewFromInt(50), decimal.NewFromInt(100))
		assert.True(t, got.Equal(decimal.NewFromInt(150)))
	})

	t.Run("vendor credit subtracts", func(t *testing.T) {
		got := NextBalance(partner.PartyKindVendor, TransactionTypeCredit, decimal.NewFromInt(150), decimal.NewFromInt(100))
		assert.True(t, got.Equal(decimal.NewFromInt(50)))
	})
}

func TestStartingBalanceValue(t *testing.T) {
	amount := decimal.NewFromInt(200)

	t.Run("customer", func(t *testing.T) {
		assert.True(t, StartingBalanceValue(partner.PartyKindCustomer, TransactionTypeCredit, amount).Equal(decimal.NewFromInt(200)))
		assert.True(t, StartingBalanceValue(partner.PartyKindCustomer, TransactionTypeDebit, amount).Equal(decimal.NewFromInt(-200)))
	})

	t.Run("vendor inverts", func(t *testing.T) {
		assert.True(t, StartingBalanceValue(partner.PartyKindVendor, TransactionTypeDebit, amount).Equal(decimal.NewFromInt(200)))
		assert.True(t, StartingBalanceValue(partner.PartyKindVendor, TransactionTypeCredit, amount).Equal(decimal.NewFromInt(-200)))
	})
}
