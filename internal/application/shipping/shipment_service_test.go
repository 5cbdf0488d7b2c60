package shipping

import (
	"context"
	"strings"
	"testing"
	"time"

	appaccounting "github.com/forwardops/backend/internal/application/accounting"
	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/domain/billing"
	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/forwardops/backend/internal/domain/shipping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeShipmentRepo struct {
	shipments []*shipping.Shipment
	sequence  int64
}

func (r *fakeShipmentRepo) Create(_ context.Context, s *shipping.Shipment) error {
	r.shipments = append(r.shipments, s)
	return nil
}

func (r *fakeShipmentRepo) Update(_ context.Context, _ *shipping.Shipment) error { return nil }

func (r *fakeShipmentRepo) FindByID(_ context.Context, id uuid.UUID) (*shipping.Shipment, error) {
	for _, s := range r.shipments {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeShipmentRepo) List(_ context.Context, _ shared.Filter) ([]*shipping.Shipment, int64, error) {
	return r.shipments, int64(len(r.shipments)), nil
}

func (r *fakeShipmentRepo) NextSequence(_ context.Context) (int64, error) {
	r.sequence++
	return r.sequence, nil
}

func (r *fakeShipmentRepo) DatesByInvoiceNumbers(_ context.Context, _ []string) (map[string]time.Time, error) {
	return map[string]time.Time{}, nil
}

type fakeInvoiceRepo struct {
	invoices  []*billing.Invoice
	createErr error
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *billing.Invoice) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, _ *billing.Invoice) error { return nil }

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*billing.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) FindByShipmentID(_ context.Context, shipmentID uuid.UUID) ([]*billing.Invoice, error) {
	var out []*billing.Invoice
	for _, inv := range r.invoices {
		if inv.ShipmentID == shipmentID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ shared.Filter) ([]*billing.Invoice, int64, error) {
	return r.invoices, int64(len(r.invoices)), nil
}

type fakePaymentRepo struct {
	payments []*billing.Payment
}

func (r *fakePaymentRepo) Create(_ context.Context, p *billing.Payment) error {
	r.payments = append(r.payments, p)
	return nil
}

func (r *fakePaymentRepo) List(_ context.Context, _ shared.Filter) ([]*billing.Payment, int64, error) {
	return r.payments, int64(len(r.payments)), nil
}

func (r *fakePaymentRepo) LatestIncomeDates(_ context.Context, _ partner.PartyKind, _ uuid.UUID, _ []string) (map[string]time.Time, error) {
	return map[string]time.Time{}, nil
}

type fakeTransactionRepo struct {
	txs []*ledger.Transaction
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *ledger.Transaction) error {
	r.txs = append(r.txs, tx)
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	for _, tx := range r.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) FindAllByParty(_ context.Context, kind partner.PartyKind, partyID uuid.UUID) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, tx := range r.txs {
		if tx.PartyKind == kind && tx.PartyID == partyID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByInvoiceNumber(_ context.Context, kind partner.PartyKind, partyID uuid.UUID, invoiceNumber string, txType ledger.TransactionType) (*ledger.Transaction, error) {
	for _, tx := range r.txs {
		if tx.PartyKind == kind && tx.PartyID == partyID && tx.InvoiceNumber == invoiceNumber && tx.Type == txType {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) Update(_ context.Context, _ *ledger.Transaction) error { return nil }

func (r *fakeTransactionRepo) UpdateBalances(_ context.Context, _ []*ledger.Transaction) error {
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindByCode(_ context.Context, _ string) (*partner.Customer, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Customer, int64, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) SaveWithLock(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	return nil
}

type fakeVendorRepo struct {
	vendors map[uuid.UUID]*partner.Vendor
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Vendor, error) {
	if v, ok := r.vendors[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeVendorRepo) FindByCode(_ context.Context, _ string) (*partner.Vendor, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeVendorRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Vendor, int64, error) {
	return nil, 0, nil
}

func (r *fakeVendorRepo) Save(_ context.Context, v *partner.Vendor) error {
	r.vendors[v.ID] = v
	return nil
}

func (r *fakeVendorRepo) SaveWithLock(_ context.Context, v *partner.Vendor) error {
	r.vendors[v.ID] = v
	return nil
}

type fakeEntryRepo struct {
	entries  []*accounting.JournalEntry
	sequence int64
}

func (r *fakeEntryRepo) Create(_ context.Context, e *accounting.JournalEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeEntryRepo) Update(_ context.Context, _ *accounting.JournalEntry) error { return nil }

func (r *fakeEntryRepo) FindByID(_ context.Context, _ uuid.UUID) (*accounting.JournalEntry, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepo) FindByEntryNumber(_ context.Context, _ string) (*accounting.JournalEntry, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepo) NextSequence(_ context.Context) (int64, error) {
	r.sequence++
	return r.sequence, nil
}

func (r *fakeEntryRepo) List(_ context.Context, _ shared.Filter) ([]*accounting.JournalEntry, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func (r *fakeEntryRepo) FindBySourceTransaction(_ context.Context, transactionID uuid.UUID) (*accounting.JournalEntry, error) {
	for _, e := range r.entries {
		if e.SourceTransactionID != nil && *e.SourceTransactionID == transactionID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepo) FindByReference(_ context.Context, _ string) (*accounting.JournalEntry, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepo) FindByDescriptionContains(_ context.Context, _ string) (*accounting.JournalEntry, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepo) FindByAny(_ context.Context, _, _ string) (*accounting.JournalEntry, error) {
	return nil, shared.ErrNotFound
}

type fixture struct {
	svc       *ShipmentService
	shipments *fakeShipmentRepo
	invoices  *fakeInvoiceRepo
	payments  *fakePaymentRepo
	txs       *fakeTransactionRepo
	entries   *fakeEntryRepo
	customer  *partner.Customer
	vendor    *partner.Vendor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	customer, err := partner.NewCustomer("CUST-001", "Acme Logistics")
	require.NoError(t, err)
	vendor, err := partner.NewVendor("VEND-001", "FastFreight Carriers")
	require.NoError(t, err)

	f := &fixture{
		shipments: &fakeShipmentRepo{},
		invoices:  &fakeInvoiceRepo{},
		payments:  &fakePaymentRepo{},
		txs:       &fakeTransactionRepo{},
		entries:   &fakeEntryRepo{},
		customer:  customer,
		vendor:    vendor,
	}
	journal := appaccounting.NewJournalService(f.entries, fakeTxManager{}, zap.NewNop())
	f.svc = NewShipmentService(
		f.shipments, f.invoices, f.payments, f.txs,
		&fakeCustomerRepo{customers: map[uuid.UUID]*partner.Customer{customer.ID: customer}},
		&fakeVendorRepo{vendors: map[uuid.UUID]*partner.Vendor{vendor.ID: vendor}},
		journal, fakeTxManager{}, zap.NewNop())
	return f
}

func bookingInput(f *fixture) CreateShipmentInput {
	return CreateShipmentInput{
		CustomerID:   f.customer.ID,
		VendorID:     f.vendor.ID,
		ShipmentDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Origin:       "Rotterdam",
		Destination:  "Singapore",
		Carrier:      "Maersk",
		Pricing: shipping.PricingInput{
			Price:           decimal.NewFromInt(1000),
			FuelSurcharge:   decimal.NewFromInt(50),
			DiscountPercent: decimal.NewFromInt(5),
			ProfitPercent:   decimal.NewFromInt(10),
			VendorPrice:     decimal.NewFromInt(700),
		},
	}
}

func TestCreateShipment(t *testing.T) {
	ctx := context.Background()

	t.Run("books shipment with paired invoices and ledger entries", func(t *testing.T) {
		f := newFixture(t)

		shipment, outcome, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)
		require.True(t, outcome.Committed, "partial failures: %v", outcome.PartialFailures)

		assert.Equal(t, "SHP-000001", shipment.Number)
		assert.Equal(t, "SHP-000001-C", shipment.CustomerInvoiceNumber)
		assert.Equal(t, "SHP-000001-V", shipment.VendorInvoiceNumber)
		assert.True(t, shipment.CustomerTotalCost.Equal(decimal.NewFromInt(1005)))
		assert.True(t, shipment.VendorTotalCost.Equal(decimal.NewFromInt(700)))

		require.Len(t, f.invoices.invoices, 2)
		require.Len(t, f.txs.txs, 2)
		require.Len(t, f.entries.entries, 2)

		// Customer owes the billed total, we owe the vendor theirs
		assert.True(t, f.customer.Balance().Equal(decimal.NewFromInt(-1005)))
		assert.True(t, f.vendor.Balance().Equal(decimal.NewFromInt(700)))

		for _, entry := range f.entries.entries {
			assert.True(t, entry.IsBalanced())
		}
	})

	t.Run("applies existing customer credit balance", func(t *testing.T) {
		f := newFixture(t)
		f.customer.SetBalance(decimal.NewFromInt(400))

		_, outcome, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)
		require.True(t, outcome.Committed, "partial failures: %v", outcome.PartialFailures)

		// Billed 1005 against a 400 credit: 400 applied, 605 still owed
		assert.True(t, f.customer.Balance().Equal(decimal.NewFromInt(-605)))

		require.Len(t, f.payments.payments, 1)
		payment := f.payments.payments[0]
		assert.Equal(t, billing.PaymentCategoryBalanceApplied, payment.Category)
		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, "SHP-000001-C", payment.InvoiceNumber)

		// The application lands as a paired debit next to the freight debit:
		// the freight row covers the remaining amount and keeps the invoice
		// link, the applied row carries the invoice number as its reference
		var freight, appliedTx *ledger.Transaction
		for _, tx := range f.txs.txs {
			if tx.PartyKind != partner.PartyKindCustomer {
				continue
			}
			switch {
			case tx.InvoiceNumber == "SHP-000001-C":
				freight = tx
			case tx.Reference == "SHP-000001-C":
				appliedTx = tx
			}
		}
		require.NotNil(t, freight)
		require.NotNil(t, appliedTx)
		assert.True(t, freight.Amount.Equal(decimal.NewFromInt(605)))
		assert.True(t, appliedTx.Amount.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, ledger.TransactionTypeDebit, appliedTx.Type)
		assert.Empty(t, appliedTx.InvoiceNumber)

		invoice, err := f.invoices.FindByInvoiceNumber(ctx, "SHP-000001-C")
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPartial, invoice.Status)
	})

	t.Run("credit larger than invoice settles it fully", func(t *testing.T) {
		f := newFixture(t)
		f.customer.SetBalance(decimal.NewFromInt(5000))

		_, outcome, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)
		require.True(t, outcome.Committed)

		assert.True(t, f.customer.Balance().Equal(decimal.NewFromInt(3995)))

		// Fully settled: the freight debit shrinks to zero and the applied
		// debit carries the whole invoice amount
		freight, err := f.txs.FindByInvoiceNumber(ctx, partner.PartyKindCustomer, f.customer.ID, "SHP-000001-C", ledger.TransactionTypeDebit)
		require.NoError(t, err)
		assert.True(t, freight.Amount.IsZero())

		invoice, err := f.invoices.FindByInvoiceNumber(ctx, "SHP-000001-C")
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, invoice.Status)
	})

	t.Run("vendor overpayment applies to new charge", func(t *testing.T) {
		f := newFixture(t)
		f.vendor.SetBalance(decimal.NewFromInt(-300))

		_, outcome, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)
		require.True(t, outcome.Committed, "partial failures: %v", outcome.PartialFailures)

		// Owe 700, 300 overpayment applied: 400 remains
		assert.True(t, f.vendor.Balance().Equal(decimal.NewFromInt(400)))
	})

	t.Run("unknown customer fails the booking outright", func(t *testing.T) {
		f := newFixture(t)
		input := bookingInput(f)
		input.CustomerID = uuid.New()

		_, _, err := f.svc.CreateShipment(ctx, input)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, f.shipments.shipments)
	})

	t.Run("invoice failure is partial, shipment stays", func(t *testing.T) {
		f := newFixture(t)
		f.invoices.createErr = shared.NewDomainError("STORE_DOWN", "invoice store unavailable")

		shipment, outcome, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)

		assert.NotNil(t, shipment)
		require.Len(t, f.shipments.shipments, 1)
		assert.False(t, outcome.Committed)
		require.NotEmpty(t, outcome.PartialFailures)
		assert.True(t, strings.Contains(outcome.PartialFailures[0], "invoice"))

		// Ledger writes still went through
		require.Len(t, f.txs.txs, 2)
	})
}

func TestUpdateShipment(t *testing.T) {
	ctx := context.Background()

	t.Run("repricing updates invoice, transaction and balances", func(t *testing.T) {
		f := newFixture(t)
		shipment, _, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)

		balanceBefore := f.customer.Balance()

		input := UpdateShipmentInput{Pricing: bookingInput(f).Pricing}
		input.Pricing.Price = decimal.NewFromInt(1200)

		updated, outcome, err := f.svc.UpdateShipment(ctx, shipment.ID, input)
		require.NoError(t, err)
		require.True(t, outcome.Committed, "partial failures: %v", outcome.PartialFailures)

		// 1200/1.10 = 1091; 1091 * 5% = 55; 1200 + 50 - 55 = 1195
		assert.True(t, updated.CustomerTotalCost.Equal(decimal.NewFromInt(1195)))

		invoice, err := f.invoices.FindByInvoiceNumber(ctx, "SHP-000001-C")
		require.NoError(t, err)
		assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(1195)))

		tx, err := f.txs.FindByInvoiceNumber(ctx, partner.PartyKindCustomer, f.customer.ID, "SHP-000001-C", ledger.TransactionTypeDebit)
		require.NoError(t, err)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(1195)))

		// Customer owes 190 more than before the edit
		assert.True(t, f.customer.Balance().Equal(balanceBefore.Sub(decimal.NewFromInt(190))))
	})

	t.Run("journal entry follows the edited amount", func(t *testing.T) {
		f := newFixture(t)
		shipment, _, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)

		input := UpdateShipmentInput{Pricing: bookingInput(f).Pricing}
		input.Pricing.VendorPrice = decimal.NewFromInt(900)

		_, outcome, err := f.svc.UpdateShipment(ctx, shipment.ID, input)
		require.NoError(t, err)
		require.True(t, outcome.Committed, "partial failures: %v", outcome.PartialFailures)

		tx, err := f.txs.FindByInvoiceNumber(ctx, partner.PartyKindVendor, f.vendor.ID, "SHP-000001-V", ledger.TransactionTypeDebit)
		require.NoError(t, err)
		entry, err := f.entries.FindBySourceTransaction(ctx, tx.ID)
		require.NoError(t, err)
		assert.True(t, entry.TotalDebit.Equal(decimal.NewFromInt(900)))
		assert.True(t, entry.IsBalanced())
	})

	t.Run("repricing keeps applied-balance rows intact", func(t *testing.T) {
		f := newFixture(t)
		f.customer.SetBalance(decimal.NewFromInt(400))
		shipment, _, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)

		input := UpdateShipmentInput{Pricing: bookingInput(f).Pricing}
		input.Pricing.Price = decimal.NewFromInt(1200)

		_, outcome, err := f.svc.UpdateShipment(ctx, shipment.ID, input)
		require.NoError(t, err)
		require.True(t, outcome.Committed, "partial failures: %v", outcome.PartialFailures)

		// New total 1195: the freight debit absorbs the 190 delta on top of
		// its remaining share, the applied debit keeps its 400
		freight, err := f.txs.FindByInvoiceNumber(ctx, partner.PartyKindCustomer, f.customer.ID, "SHP-000001-C", ledger.TransactionTypeDebit)
		require.NoError(t, err)
		assert.True(t, freight.Amount.Equal(decimal.NewFromInt(795)))

		var appliedTx *ledger.Transaction
		for _, tx := range f.txs.txs {
			if tx.PartyKind == partner.PartyKindCustomer && tx.Reference == "SHP-000001-C" {
				appliedTx = tx
			}
		}
		require.NotNil(t, appliedTx)
		assert.True(t, appliedTx.Amount.Equal(decimal.NewFromInt(400)))

		assert.True(t, f.customer.Balance().Equal(decimal.NewFromInt(-795)))
	})

	t.Run("unchanged side untouched", func(t *testing.T) {
		f := newFixture(t)
		shipment, _, err := f.svc.CreateShipment(ctx, bookingInput(f))
		require.NoError(t, err)
		vendorBalanceBefore := f.vendor.Balance()

		input := UpdateShipmentInput{Pricing: bookingInput(f).Pricing}
		input.Pricing.Price = decimal.NewFromInt(1100)

		_, outcome, err := f.svc.UpdateShipment(ctx, shipment.ID, input)
		require.NoError(t, err)
		require.True(t, outcome.Committed)

		assert.True(t, f.vendor.Balance().Equal(vendorBalanceBefore))
	})

	t.Run("unknown shipment", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.svc.UpdateShipment(ctx, uuid.New(), UpdateShipmentInput{Pricing: bookingInput(f).Pricing})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
