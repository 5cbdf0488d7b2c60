package shipping

import (
	"context"
	"fmt"
	"time"

	appaccounting "github.com/forwardops/backend/internal/application/accounting"
	"github.com/forwardops/backend/internal/domain/billing"
	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/forwardops/backend/internal/domain/shipping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerOutcome reports how far the secondary billing and ledger writes got.
// The shipment itself is authoritative once written; a partial failure here
// means invoices, transactions or journal entries need repair, not that the
// booking failed.
type LedgerOutcome struct {
	Committed       bool
	PartialFailures []string
}

func (o *LedgerOutcome) fail(step string, err error) {
	o.Committed = false
	o.PartialFailures = append(o.PartialFailures, fmt.Sprintf("%s: %v", step, err))
}

// CreateShipmentInput carries the booking request
type CreateShipmentInput struct {
	CustomerID   uuid.UUID
	VendorID     uuid.UUID
	ShipmentDate time.Time
	Origin       string
	Destination  string
	Carrier      string
	TrackingID   string
	Pricing      shipping.PricingInput
}

// UpdateShipmentInput carries a shipment edit. Route fields are optional;
// pricing is always recomputed from the full input set.
type UpdateShipmentInput struct {
	Origin      string
	Destination string
	Carrier     string
	TrackingID  string
	Pricing     shipping.PricingInput
}

// ShipmentService orchestrates booking: the shipment row is the primary
// write, then per side it creates the invoice, applies any existing credit
// balance, appends the ledger transactions and posts journal entries. The
// secondary writes are best effort and reported through LedgerOutcome.
type ShipmentService struct {
	shipments    shipping.ShipmentRepository
	invoices     billing.InvoiceRepository
	payments     billing.PaymentRepository
	transactions ledger.TransactionRepository
	customers    partner.CustomerRepository
	vendors      partner.VendorRepository
	journal      *appaccounting.JournalService
	txManager    shared.TransactionManager
	logger       *zap.Logger
}

// NewShipmentService creates a new shipment service
func NewShipmentService(
	shipments shipping.ShipmentRepository,
	invoices billing.InvoiceRepository,
	payments billing.PaymentRepository,
	transactions ledger.TransactionRepository,
	customers partner.CustomerRepository,
	vendors partner.VendorRepository,
	journal *appaccounting.JournalService,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments:    shipments,
		invoices:     invoices,
		payments:     payments,
		transactions: transactions,
		customers:    customers,
		vendors:      vendors,
		journal:      journal,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateShipment books a shipment. Validation and the shipment row itself are
// hard failures; everything after that is recorded in the returned outcome.
func (s *ShipmentService) CreateShipment(ctx context.Context, input CreateShipmentInput) (*shipping.Shipment, LedgerOutcome, error) {
	outcome := LedgerOutcome{Committed: true}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, outcome, err
	}
	vendor, err := s.vendors.FindByID(ctx, input.VendorID)
	if err != nil {
		return nil, outcome, err
	}

	var shipment *shipping.Shipment
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sequence, err := s.shipments.NextSequence(ctx)
		if err != nil {
			return err
		}
		shipment, err = shipping.NewShipment(sequence, input.CustomerID, input.VendorID, input.ShipmentDate, input.Pricing)
		if err != nil {
			return err
		}
		shipment.WithRoute(input.Origin, input.Destination, input.Carrier).WithTracking(input.TrackingID)
		shipment.CustomerInvoiceNumber = shipment.Number + "-C"
		shipment.VendorInvoiceNumber = shipment.Number + "-V"
		return s.shipments.Create(ctx, shipment)
	})
	if err != nil {
		return nil, outcome, err
	}

	s.bookSide(ctx, &outcome, shipment, partner.PartyKindCustomer, customer,
		shipment.CustomerInvoiceNumber, shipment.CustomerTotalCost)
	s.bookSide(ctx, &outcome, shipment, partner.PartyKindVendor, vendor,
		shipment.VendorInvoiceNumber, shipment.VendorTotalCost)

	s.logger.Info("shipment booked",
		zap.String("shipment_number", shipment.Number),
		zap.String("customer_total", shipment.CustomerTotalCost.String()),
		zap.String("vendor_total", shipment.VendorTotalCost.String()),
		zap.Bool("ledger_committed", outcome.Committed))

	return shipment, outcome, nil
}

// bookSide creates one side's invoice, debit transactions and journal
// entries. Any credit balance the party already holds is applied first: the
// freight debit covers only the remaining amount, and the applied share is
// booked separately by applyCreditBalance. Each failure is appended to the
// outcome and the remaining steps still run where they can.
func (s *ShipmentService) bookSide(
	ctx context.Context,
	outcome *LedgerOutcome,
	shipment *shipping.Shipment,
	kind partner.PartyKind,
	party partner.Party,
	invoiceNumber string,
	totalCost decimal.Decimal,
) {
	side := string(kind)

	invoice, err := billing.NewInvoice(invoiceNumber, kind, party.GetID(), shipment.ID, totalCost)
	if err == nil {
		invoice.WithCharges(shipment.FuelSurcharge, shipment.DiscountAmount)
		invoice.AddLineItem("Freight "+shipment.Origin+" - "+shipment.Destination, totalCost)
		err = s.invoices.Create(ctx, invoice)
	}
	if err != nil {
		outcome.fail(side+" invoice", err)
	}

	applied := creditToApply(kind, party.Balance(), totalCost)
	remaining := totalCost.Sub(applied)

	debit, err := s.appendTransaction(ctx, kind, party, ledger.TransactionTypeDebit, remaining,
		fmt.Sprintf("Shipment %s freight charges", shipment.Number), "", invoiceNumber)
	if err != nil {
		outcome.fail(side+" debit transaction", err)
	} else if _, err := s.journal.Post(ctx, debit); err != nil {
		outcome.fail(side+" journal entry", err)
	}

	if applied.GreaterThan(decimal.Zero) {
		if err := s.applyCreditBalance(ctx, shipment, kind, party, invoice, invoiceNumber, applied); err != nil {
			outcome.fail(side+" balance application", err)
		}
	}
}

// applyCreditBalance documents an existing credit balance settling part of a
// fresh invoice: a paired DEBIT transaction consuming the applied credit, a
// "Balance Applied" payment record and the invoice status move. The paired
// debit carries the invoice number as its reference, not its invoice link, so
// the freight debit stays the only DEBIT row found by invoice-number lookup.
func (s *ShipmentService) applyCreditBalance(
	ctx context.Context,
	shipment *shipping.Shipment,
	kind partner.PartyKind,
	party partner.Party,
	invoice *billing.Invoice,
	invoiceNumber string,
	applied decimal.Decimal,
) error {
	debit, err := s.appendTransaction(ctx, kind, party, ledger.TransactionTypeDebit, applied,
		fmt.Sprintf("Balance applied to invoice %s", invoiceNumber), invoiceNumber, "")
	if err != nil {
		return err
	}
	if _, err := s.journal.Post(ctx, debit); err != nil {
		return err
	}

	paymentType := billing.PaymentTypeIncome
	if kind == partner.PartyKindVendor {
		paymentType = billing.PaymentTypeExpense
	}
	payment, err := billing.NewPayment(kind, party.GetID(), paymentType, applied, "ADJUSTMENT", shipment.ShipmentDate)
	if err != nil {
		return err
	}
	payment.WithCategory(billing.PaymentCategoryBalanceApplied).WithInvoiceNumber(invoiceNumber)
	if err := s.payments.Create(ctx, payment); err != nil {
		return err
	}

	if invoice != nil {
		invoice.MarkPaid(applied)
		if err := s.invoices.Update(ctx, invoice); err != nil {
			return err
		}
	}
	return nil
}

// appendTransaction writes one ledger transaction and moves the party's
// cached balance under its optimistic lock.
func (s *ShipmentService) appendTransaction(
	ctx context.Context,
	kind partner.PartyKind,
	party partner.Party,
	txType ledger.TransactionType,
	amount decimal.Decimal,
	description, reference, invoiceNumber string,
) (*ledger.Transaction, error) {
	tx, err := ledger.NewTransaction(kind, party.GetID(), txType, amount, description)
	if err != nil {
		return nil, err
	}
	if reference != "" {
		tx.WithReference(reference)
	}
	if invoiceNumber != "" {
		tx.WithInvoiceNumber(invoiceNumber)
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		previous := party.Balance()
		next := ledger.NextBalance(kind, txType, previous, amount)
		tx.SetBalances(previous, next)
		if err := s.transactions.Create(ctx, tx); err != nil {
			return err
		}
		party.SetBalance(next)
		return s.saveParty(ctx, kind, party)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *ShipmentService) saveParty(ctx context.Context, kind partner.PartyKind, party partner.Party) error {
	switch p := party.(type) {
	case *partner.Customer:
		return s.customers.SaveWithLock(ctx, p)
	case *partner.Vendor:
		return s.vendors.SaveWithLock(ctx, p)
	default:
		return shared.NewDomainError("INVALID_PARTY_KIND", fmt.Sprintf("Unknown party type for kind %s", kind))
	}
}

// creditToApply computes how much of an existing credit balance can settle a
// new charge. A customer in credit has a positive balance; a vendor we have
// overpaid has a negative one.
func creditToApply(kind partner.PartyKind, balance, totalCost decimal.Decimal) decimal.Decimal {
	available := balance
	if kind == partner.PartyKindVendor {
		available = balance.Neg()
	}
	if available.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if available.GreaterThan(totalCost) {
		return totalCost
	}
	return available
}

// UpdateShipment edits a booking. Pricing is recomputed and the shipment row
// updated as the primary write; invoice totals, the party balance delta and
// the linked debit transaction follow best effort so the next reconciliation
// replay agrees with the edit.
func (s *ShipmentService) UpdateShipment(ctx context.Context, id uuid.UUID, input UpdateShipmentInput) (*shipping.Shipment, LedgerOutcome, error) {
	outcome := LedgerOutcome{Committed: true}

	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, outcome, err
	}

	oldCustomerTotal := shipment.CustomerTotalCost
	oldVendorTotal := shipment.VendorTotalCost

	if input.Pricing.Price.IsNegative() || input.Pricing.VendorPrice.IsNegative() {
		return nil, outcome, shared.NewDomainError("INVALID_AMOUNT", "Shipment pricing cannot be negative")
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.Origin != "" || input.Destination != "" || input.Carrier != "" {
			shipment.WithRoute(input.Origin, input.Destination, input.Carrier)
		}
		if input.TrackingID != "" {
			shipment.WithTracking(input.TrackingID)
		}
		shipment.ApplyPricing(input.Pricing)
		shipment.IncrementVersion()
		return s.shipments.Update(ctx, shipment)
	})
	if err != nil {
		return nil, outcome, err
	}

	s.adjustSide(ctx, &outcome, shipment, partner.PartyKindCustomer, shipment.CustomerID,
		shipment.CustomerInvoiceNumber, oldCustomerTotal, shipment.CustomerTotalCost)
	s.adjustSide(ctx, &outcome, shipment, partner.PartyKindVendor, shipment.VendorID,
		shipment.VendorInvoiceNumber, oldVendorTotal, shipment.VendorTotalCost)

	s.logger.Info("shipment updated",
		zap.String("shipment_number", shipment.Number),
		zap.Bool("ledger_committed", outcome.Committed))

	return shipment, outcome, nil
}

// adjustSide propagates a pricing change to one side's invoice, ledger
// transaction, party balance and journal entry.
func (s *ShipmentService) adjustSide(
	ctx context.Context,
	outcome *LedgerOutcome,
	shipment *shipping.Shipment,
	kind partner.PartyKind,
	partyID uuid.UUID,
	invoiceNumber string,
	oldTotal, newTotal decimal.Decimal,
) {
	side := string(kind)
	delta := newTotal.Sub(oldTotal)
	if delta.IsZero() {
		return
	}

	if invoice, err := s.invoices.FindByInvoiceNumber(ctx, invoiceNumber); err != nil {
		outcome.fail(side+" invoice lookup", err)
	} else if err := invoice.UpdateTotal(newTotal); err != nil {
		outcome.fail(side+" invoice total", err)
	} else if err := s.invoices.Update(ctx, invoice); err != nil {
		outcome.fail(side+" invoice update", err)
	}

	tx, err := s.transactions.FindByInvoiceNumber(ctx, kind, partyID, invoiceNumber, ledger.TransactionTypeDebit)
	if err != nil {
		outcome.fail(side+" debit lookup", err)
		return
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		// The freight debit moves by the delta rather than being rewritten to
		// the new total: any applied-balance debit recorded at booking keeps
		// its share of the invoice.
		tx.Amount = tx.Amount.Add(delta)
		tx.Description = fmt.Sprintf("Shipment %s freight charges", shipment.Number)
		if err := s.transactions.Update(ctx, tx); err != nil {
			return err
		}
		// Move the cached balance by the delta in the debit direction so the
		// party row agrees with the edited history before the next replay.
		switch kind {
		case partner.PartyKindCustomer:
			customer, err := s.customers.FindByID(ctx, partyID)
			if err != nil {
				return err
			}
			customer.SetBalance(ledger.NextBalance(kind, ledger.TransactionTypeDebit, customer.Balance(), delta))
			return s.customers.SaveWithLock(ctx, customer)
		case partner.PartyKindVendor:
			vendor, err := s.vendors.FindByID(ctx, partyID)
			if err != nil {
				return err
			}
			vendor.SetBalance(ledger.NextBalance(kind, ledger.TransactionTypeDebit, vendor.Balance(), delta))
			return s.vendors.SaveWithLock(ctx, vendor)
		}
		return nil
	})
	if err != nil {
		outcome.fail(side+" balance adjustment", err)
		return
	}

	if _, err := s.journal.UpdateForTransaction(ctx, tx); err != nil {
		outcome.fail(side+" journal update", err)
	}
}

// GetShipment returns a shipment by ID
func (s *ShipmentService) GetShipment(ctx context.Context, id uuid.UUID) (*shipping.Shipment, error) {
	return s.shipments.FindByID(ctx, id)
}

// ListShipments returns shipments matching the filter
func (s *ShipmentService) ListShipments(ctx context.Context, filter shared.Filter) (shared.Paginated[*shipping.Shipment], error) {
	shipments, total, err := s.shipments.List(ctx, filter)
	if err != nil {
		return shared.Paginated[*shipping.Shipment]{}, err
	}
	return shared.NewPaginated(shipments, total, filter.Page, filter.PageSize), nil
}
