package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReconciliationService(
	txRepo *fakeTransactionRepo,
	customers *fakeCustomerRepo,
	vendors *fakeVendorRepo,
	notes *fakeCreditNoteRepo,
	payments *fakePaymentRepo,
	shipments *fakeShipmentDates,
) *ReconciliationService {
	return NewReconciliationService(
		txRepo, customers, vendors, notes, payments, shipments,
		fakeTxManager{}, zap.NewNop())
}

func seedTx(t *testing.T, repo *fakeTransactionRepo, kind partner.PartyKind, partyID uuid.UUID, txType ledger.TransactionType, amount int64, createdAt time.Time) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(kind, partyID, txType, decimal.NewFromInt(amount), "seed")
	require.NoError(t, err)
	tx.WithCreatedAt(createdAt)
	repo.txs = append(repo.txs, tx)
	return tx
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	d := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }

	t.Run("persists replayed balances and party balance", func(t *testing.T) {
		customer, err := partner.NewCustomer("CUST-001", "Acme")
		require.NoError(t, err)
		customers := newFakeCustomerRepo(customer)
		txRepo := &fakeTransactionRepo{}

		deposit := seedTx(t, txRepo, partner.PartyKindCustomer, customer.ID, ledger.TransactionTypeCredit, 500, d(1))
		freight := seedTx(t, txRepo, partner.PartyKindCustomer, customer.ID, ledger.TransactionTypeDebit, 200, d(2))

		svc := newReconciliationService(txRepo, customers, newFakeVendorRepo(),
			&fakeCreditNoteRepo{}, &fakePaymentRepo{}, &fakeShipmentDates{})

		result, err := svc.Reconcile(ctx, partner.PartyKindCustomer, customer.ID)
		require.NoError(t, err)

		assert.True(t, result.CurrentBalance.Equal(decimal.NewFromInt(300)))
		assert.True(t, deposit.NewBalance.Equal(decimal.NewFromInt(500)))
		assert.True(t, freight.NewBalance.Equal(decimal.NewFromInt(300)))
		assert.True(t, customer.Balance().Equal(decimal.NewFromInt(300)))
		assert.Equal(t, 1, txRepo.balanceUpdates)
		assert.Equal(t, 1, customers.saves)
	})

	t.Run("side data reorders invoice linked transactions", func(t *testing.T) {
		vendor, err := partner.NewVendor("VEND-001", "FastFreight")
		require.NoError(t, err)
		vendors := newFakeVendorRepo(vendor)
		txRepo := &fakeTransactionRepo{}

		// Payment inserted first, invoice debit recorded late for an earlier
		// shipment. The shipment date pulls the debit ahead.
		payment := seedTx(t, txRepo, partner.PartyKindVendor, vendor.ID, ledger.TransactionTypeCredit, 300, d(10))
		payment.WithInvoiceNumber("SHP-000001-V")
		invoice := seedTx(t, txRepo, partner.PartyKindVendor, vendor.ID, ledger.TransactionTypeDebit, 500, d(20))
		invoice.WithInvoiceNumber("SHP-000001-V")

		shipments := &fakeShipmentDates{dates: map[string]time.Time{"SHP-000001-V": d(1)}}
		payments := &fakePaymentRepo{dates: map[string]time.Time{"SHP-000001-V": d(5)}}

		svc := newReconciliationService(txRepo, newFakeCustomerRepo(), vendors,
			&fakeCreditNoteRepo{}, payments, shipments)

		result, err := svc.Reconcile(ctx, partner.PartyKindVendor, vendor.ID)
		require.NoError(t, err)

		require.Len(t, result.Transactions, 2)
		assert.Same(t, invoice, result.Transactions[0])
		assert.True(t, invoice.NewBalance.Equal(decimal.NewFromInt(500)))
		assert.True(t, payment.NewBalance.Equal(decimal.NewFromInt(200)))
		assert.True(t, result.CurrentBalance.Equal(decimal.NewFromInt(200)))
	})

	t.Run("failed side lookup falls back to transaction dates", func(t *testing.T) {
		vendor, err := partner.NewVendor("VEND-002", "SlowFreight")
		require.NoError(t, err)
		vendors := newFakeVendorRepo(vendor)
		txRepo := &fakeTransactionRepo{}

		// Same shape as above, but both lookups fail: without shipment or
		// payment dates the rows keep their createdAt order.
		payment := seedTx(t, txRepo, partner.PartyKindVendor, vendor.ID, ledger.TransactionTypeCredit, 300, d(10))
		payment.WithInvoiceNumber("SHP-000002-V")
		invoice := seedTx(t, txRepo, partner.PartyKindVendor, vendor.ID, ledger.TransactionTypeDebit, 500, d(20))
		invoice.WithInvoiceNumber("SHP-000002-V")

		boom := shared.NewDomainError("STORE_DOWN", "lookup unavailable")
		svc := newReconciliationService(txRepo, newFakeCustomerRepo(), vendors,
			&fakeCreditNoteRepo{}, &fakePaymentRepo{err: boom}, &fakeShipmentDates{err: boom})

		result, err := svc.Reconcile(ctx, partner.PartyKindVendor, vendor.ID)
		require.NoError(t, err)

		require.Len(t, result.Transactions, 2)
		assert.Same(t, payment, result.Transactions[0])
		assert.True(t, result.CurrentBalance.Equal(decimal.NewFromInt(200)))
	})

	t.Run("unknown party", func(t *testing.T) {
		txRepo := &fakeTransactionRepo{}
		svc := newReconciliationService(txRepo, newFakeCustomerRepo(), newFakeVendorRepo(),
			&fakeCreditNoteRepo{}, &fakePaymentRepo{}, &fakeShipmentDates{})

		customer, err := partner.NewCustomer("CUST-404", "Ghost")
		require.NoError(t, err)
		seedTx(t, txRepo, partner.PartyKindCustomer, customer.ID, ledger.TransactionTypeCredit, 1, d(1))

		_, err = svc.Reconcile(ctx, partner.PartyKindCustomer, customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	d := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }

	customer, err := partner.NewCustomer("CUST-001", "Acme")
	require.NoError(t, err)
	customers := newFakeCustomerRepo(customer)
	txRepo := &fakeTransactionRepo{}

	for i := 1; i <= 5; i++ {
		tx := seedTx(t, txRepo, partner.PartyKindCustomer, customer.ID, ledger.TransactionTypeCredit, int64(i*100), d(i))
		if i == 3 {
			tx.Description = "wire transfer"
		}
	}

	svc := newReconciliationService(txRepo, customers, newFakeVendorRepo(),
		&fakeCreditNoteRepo{}, &fakePaymentRepo{}, &fakeShipmentDates{})

	t.Run("paginates reconciled history", func(t *testing.T) {
		filter := shared.Filter{Page: 2, PageSize: 2}

		page, err := svc.ListTransactions(ctx, partner.PartyKindCustomer, customer.ID, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Items, 2)
		// Voucher-date order: page 2 holds transactions 3 and 4
		assert.True(t, page.Items[0].Amount.Equal(decimal.NewFromInt(300)))
	})

	t.Run("search filters by description", func(t *testing.T) {
		filter := shared.Filter{Page: 1, PageSize: 20, Search: "WIRE"}

		page, err := svc.ListTransactions(ctx, partner.PartyKindCustomer, customer.ID, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "wire transfer", page.Items[0].Description)
	})

	t.Run("date range narrows the page but not the balances", func(t *testing.T) {
		filter := shared.Filter{
			Page:     1,
			PageSize: 20,
			Filters: map[string]interface{}{
				"date_from": d(2),
				"date_to":   d(5), // exclusive
			},
		}

		page, err := svc.ListTransactions(ctx, partner.PartyKindCustomer, customer.ID, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(3), page.Total)
		require.Len(t, page.Items, 3)
		// Balances come from the full replay, not the filtered window: the
		// first visible row still carries the chain from the hidden day-1 row.
		assert.True(t, page.Items[0].Amount.Equal(decimal.NewFromInt(200)))
		assert.True(t, page.Items[0].PreviousBalance.Equal(decimal.NewFromInt(100)))
		assert.True(t, page.Items[0].NewBalance.Equal(decimal.NewFromInt(300)))
		assert.True(t, page.Items[2].NewBalance.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("sorts by amount descending after the replay", func(t *testing.T) {
		filter := shared.Filter{Page: 1, PageSize: 20, OrderBy: "amount", OrderDir: "desc"}

		page, err := svc.ListTransactions(ctx, partner.PartyKindCustomer, customer.ID, filter)
		require.NoError(t, err)

		require.Len(t, page.Items, 5)
		assert.True(t, page.Items[0].Amount.Equal(decimal.NewFromInt(500)))
		assert.True(t, page.Items[4].Amount.Equal(decimal.NewFromInt(100)))
		// The sort is presentation only; the balance chain is untouched
		assert.True(t, page.Items[0].PreviousBalance.Equal(decimal.NewFromInt(1000)))
		assert.True(t, page.Items[0].NewBalance.Equal(decimal.NewFromInt(1500)))
	})
}
