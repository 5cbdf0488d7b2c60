package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Date sources feeding voucher-date resolution. The billing and shipping
// repositories satisfy these.
type (
	// NoteDateSource resolves credit/debit note dates by reference
	NoteDateSource interface {
		DatesByReference(ctx context.Context, references []string) (map[string]time.Time, error)
	}
	// ShipmentDateSource resolves shipment dates by invoice number
	ShipmentDateSource interface {
		DatesByInvoiceNumbers(ctx context.Context, invoiceNumbers []string) (map[string]time.Time, error)
	}
	// PaymentDateSource resolves latest income payment dates by invoice number
	PaymentDateSource interface {
		LatestIncomeDates(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, invoiceNumbers []string) (map[string]time.Time, error)
	}
)

// ReconciliationService recomputes a party's transaction balances from the
// full history in voucher-date order and persists the corrected chain. It runs
// on every ledger read, so backdated entries and late edits heal themselves
// without a separate repair job.
type ReconciliationService struct {
	transactions ledger.TransactionRepository
	customers    partner.CustomerRepository
	vendors      partner.VendorRepository
	creditNotes  NoteDateSource
	payments     PaymentDateSource
	shipments    ShipmentDateSource
	txManager    shared.TransactionManager
	logger       *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	transactions ledger.TransactionRepository,
	customers partner.CustomerRepository,
	vendors partner.VendorRepository,
	creditNotes NoteDateSource,
	payments PaymentDateSource,
	shipments ShipmentDateSource,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		transactions: transactions,
		customers:    customers,
		vendors:      vendors,
		creditNotes:  creditNotes,
		payments:     payments,
		shipments:    shipments,
		txManager:    txManager,
		logger:       logger,
	}
}

// Reconcile replays the party's complete history and persists the corrected
// balance pairs plus the party's cached balance in one store transaction.
func (s *ReconciliationService) Reconcile(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID) (ledger.ReplayResult, error) {
	txs, err := s.transactions.FindAllByParty(ctx, kind, partyID)
	if err != nil {
		return ledger.ReplayResult{}, err
	}

	side := s.buildSideData(ctx, kind, partyID, txs)

	result := ledger.Replay(kind, txs, side)

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if len(result.Transactions) > 0 {
			if err := s.transactions.UpdateBalances(ctx, result.Transactions); err != nil {
				return err
			}
		}
		switch kind {
		case partner.PartyKindCustomer:
			customer, err := s.customers.FindByID(ctx, partyID)
			if err != nil {
				return err
			}
			customer.SetBalance(result.CurrentBalance)
			return s.customers.SaveWithLock(ctx, customer)
		case partner.PartyKindVendor:
			vendor, err := s.vendors.FindByID(ctx, partyID)
			if err != nil {
				return err
			}
			vendor.SetBalance(result.CurrentBalance)
			return s.vendors.SaveWithLock(ctx, vendor)
		default:
			return shared.NewDomainError("INVALID_PARTY_KIND", "Invalid party kind")
		}
	})
	if err != nil {
		return ledger.ReplayResult{}, err
	}

	s.logger.Debug("ledger reconciled",
		zap.String("party_kind", string(kind)),
		zap.String("party_id", partyID.String()),
		zap.Int("transactions", len(result.Transactions)),
		zap.String("balance", result.CurrentBalance.String()))

	return result, nil
}

// ListTransactions reconciles first, then filters, sorts and paginates the
// corrected history. Presentation never feeds back into the replay: balances
// are fixed before any of the filtering runs.
func (s *ReconciliationService) ListTransactions(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Transaction], error) {
	result, err := s.Reconcile(ctx, kind, partyID)
	if err != nil {
		return shared.Paginated[*ledger.Transaction]{}, err
	}

	filtered := result.Transactions
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		matched := make([]*ledger.Transaction, 0, len(filtered))
		for _, tx := range filtered {
			if strings.Contains(strings.ToLower(tx.Description), needle) ||
				strings.Contains(strings.ToLower(tx.Reference), needle) ||
				strings.Contains(strings.ToLower(tx.InvoiceNumber), needle) {
				matched = append(matched, tx)
			}
		}
		filtered = matched
	}
	if from, ok := filter.Filters["date_from"].(time.Time); ok {
		matched := make([]*ledger.Transaction, 0, len(filtered))
		for _, tx := range filtered {
			if !tx.CreatedAt.Before(from) {
				matched = append(matched, tx)
			}
		}
		filtered = matched
	}
	if to, ok := filter.Filters["date_to"].(time.Time); ok {
		matched := make([]*ledger.Transaction, 0, len(filtered))
		for _, tx := range filtered {
			if tx.CreatedAt.Before(to) {
				matched = append(matched, tx)
			}
		}
		filtered = matched
	}

	// An empty OrderBy keeps the replayed voucher-date order
	switch filter.OrderBy {
	case "created_at", "date", "amount":
		filtered = append([]*ledger.Transaction(nil), filtered...)
		sortTransactions(filtered, filter.OrderBy, filter.OrderDir)
	}

	total := int64(len(filtered))
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return shared.NewPaginated(filtered[start:end], total, page, pageSize), nil
}

func sortTransactions(txs []*ledger.Transaction, orderBy, orderDir string) {
	var less func(a, b *ledger.Transaction) bool
	switch orderBy {
	case "created_at", "date":
		less = func(a, b *ledger.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "amount":
		less = func(a, b *ledger.Transaction) bool { return a.Amount.LessThan(b.Amount) }
	default:
		return
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if orderDir == "desc" {
			return less(txs[j], txs[i])
		}
		return less(txs[i], txs[j])
	})
}

// buildSideData pre-fetches the date lookups voucher-date resolution needs:
// note dates for "#CREDIT"/"#DEBIT" references, shipment dates for
// invoice-linked debits, latest income payment dates for invoice-linked
// credits. A failed lookup is logged and its map left empty, so the affected
// transactions fall back to their createdAt instead of aborting the replay.
func (s *ReconciliationService) buildSideData(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, txs []*ledger.Transaction) ledger.SideData {
	side := ledger.EmptySideData()

	var noteRefs []string
	var debitInvoices []string
	var creditInvoices []string
	seenRefs := map[string]bool{}
	seenDebit := map[string]bool{}
	seenCredit := map[string]bool{}

	for _, tx := range txs {
		switch {
		case tx.IsStartingBalance():
		case tx.HasCreditNoteReference():
			if !seenRefs[tx.Reference] {
				seenRefs[tx.Reference] = true
				noteRefs = append(noteRefs, tx.Reference)
			}
		case tx.InvoiceNumber != "" && tx.Type == ledger.TransactionTypeDebit:
			if !seenDebit[tx.InvoiceNumber] {
				seenDebit[tx.InvoiceNumber] = true
				debitInvoices = append(debitInvoices, tx.InvoiceNumber)
			}
		case tx.InvoiceNumber != "" && tx.Type == ledger.TransactionTypeCredit:
			if !seenCredit[tx.InvoiceNumber] {
				seenCredit[tx.InvoiceNumber] = true
				creditInvoices = append(creditInvoices, tx.InvoiceNumber)
			}
		}
	}

	if len(noteRefs) > 0 {
		if dates, err := s.creditNotes.DatesByReference(ctx, noteRefs); err != nil {
			s.logger.Warn("credit note date lookup failed, falling back to transaction dates", zap.Error(err))
		} else {
			side.CreditNoteDates = dates
		}
	}
	if len(debitInvoices) > 0 {
		if dates, err := s.shipments.DatesByInvoiceNumbers(ctx, debitInvoices); err != nil {
			s.logger.Warn("shipment date lookup failed, falling back to transaction dates", zap.Error(err))
		} else {
			side.ShipmentDates = dates
		}
	}
	if len(creditInvoices) > 0 {
		if dates, err := s.payments.LatestIncomeDates(ctx, kind, partyID, creditInvoices); err != nil {
			s.logger.Warn("payment date lookup failed, falling back to transaction dates", zap.Error(err))
		} else {
			side.PaymentDates = dates
		}
	}

	return side
}
