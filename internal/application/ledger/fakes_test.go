package ledger

import (
	"context"
	"time"

	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/domain/billing"
	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory fakes. They only implement what the services under test touch.

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTransactionRepo struct {
	txs            []*ledger.Transaction
	balanceUpdates int
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

func (r *fakeTransactionRepo) Update(_ context.Context, _ *ledger.Transaction) error {
	return nil
}

func (r *fakeTransactionRepo) UpdateBalances(_ context.Context, _ []*ledger.Transaction) error {
	r.balanceUpdates++
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
	saves     int
}

func newFakeCustomerRepo(customers ...*partner.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: map[uuid.UUID]*partner.Customer{}}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindByCode(_ context.Context, code string) (*partner.Customer, error) {
	for _, c := range r.customers {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Customer, int64, error) {
	var out []*partner.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) SaveWithLock(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	r.saves++
	return nil
}

type fakeVendorRepo struct {
	vendors map[uuid.UUID]*partner.Vendor
	saves   int
}

func newFakeVendorRepo(vendors ...*partner.Vendor) *fakeVendorRepo {
	r := &fakeVendorRepo{vendors: map[uuid.UUID]*partner.Vendor{}}
	for _, v := range vendors {
		r.vendors[v.ID] = v
	}
	return r
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Vendor, error) {
	if v, ok := r.vendors[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeVendorRepo) FindByCode(_ context.Context, code string) (*partner.Vendor, error) {
	for _, v := range r.vendors {
		if v.Code == code {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeVendorRepo) FindAll(_ context.Context, _ shared.Filter) ([]*partner.Vendor, int64, error) {
	var out []*partner.Vendor
	for _, v := range r.vendors {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVendorRepo) Save(_ context.Context, v *partner.Vendor) error {
	r.vendors[v.ID] = v
	return nil
}

func (r *fakeVendorRepo) SaveWithLock(_ context.Context, v *partner.Vendor) error {
	r.vendors[v.ID] = v
	r.saves++
	return nil
}

type fakeCreditNoteRepo struct {
	dates map[string]time.Time
	err   error
}

func (r *fakeCreditNoteRepo) Create(_ context.Context, _ *billing.CreditNote) error { return nil }

func (r *fakeCreditNoteRepo) FindByReference(_ context.Context, _ string) (*billing.CreditNote, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCreditNoteRepo) DatesByReference(_ context.Context, refs []string) (map[string]time.Time, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]time.Time{}
	for _, ref := range refs {
		if d, ok := r.dates[ref]; ok {
			out[ref] = d
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	dates map[string]time.Time
	err   error
}

func (r *fakePaymentRepo) Create(_ context.Context, _ *billing.Payment) error { return nil }

func (r *fakePaymentRepo) List(_ context.Context, _ shared.Filter) ([]*billing.Payment, int64, error) {
	return nil, 0, nil
}

func (r *fakePaymentRepo) LatestIncomeDates(_ context.Context, _ partner.PartyKind, _ uuid.UUID, invoiceNumbers []string) (map[string]time.Time, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]time.Time{}
	for _, n := range invoiceNumbers {
		if d, ok := r.dates[n]; ok {
			out[n] = d
		}
	}
	return out, nil
}

type fakeShipmentDates struct {
	dates map[string]time.Time
	err   error
}

func (r *fakeShipmentDates) DatesByInvoiceNumbers(_ context.Context, invoiceNumbers []string) (map[string]time.Time, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]time.Time{}
	for _, n := range invoiceNumbers {
		if d, ok := r.dates[n]; ok {
			out[n] = d
		}
	}
	return out, nil
}

type fakeJournalPoster struct {
	posted []*ledger.Transaction
	err    error
}

func (f *fakeJournalPoster) Post(_ context.Context, tx *ledger.Transaction) (*accounting.JournalEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.posted = append(f.posted, tx)
	return nil, nil
}
