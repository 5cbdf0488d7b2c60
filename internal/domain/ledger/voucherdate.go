package ledger

import (
	"sort"
	"time"
)

// SideData carries the pre-fetched lookups needed to resolve voucher dates,
// so derivation stays a pure function testable without a live store.
type SideData struct {
	// CreditNoteDates maps a credit/debit note reference to the note's date
	CreditNoteDates map[string]time.Time
	// ShipmentDates maps an invoice number to the linked shipment's date
	ShipmentDates map[string]time.Time
	// PaymentDates maps an invoice number to the most recent INCOME payment
	// date recorded for the same party and invoice
	PaymentDates map[string]time.Time
}

// EmptySideData returns side data with no lookups; every transaction then
// falls back to its insertion timestamp.
func EmptySideData() SideData {
	return SideData{
		CreditNoteDates: make(map[string]time.Time),
		ShipmentDates:   make(map[string]time.Time),
		PaymentDates:    make(map[string]time.Time),
	}
}

// VoucherDateOf resolves the business-effective date of a transaction, which
// orders balance recomputation and is distinct from the insertion timestamp:
//
//   - STARTING-BALANCE references use the transaction's own (possibly
//     backdated) createdAt
//   - #CREDIT / #DEBIT references use the linked credit note's date
//   - invoice-linked DEBITs use the linked shipment's date
//   - invoice-linked CREDITs use the latest matching payment's date
//   - everything else uses createdAt
//
// A missing side lookup falls back to createdAt rather than failing, so one
// broken link never aborts a whole reconciliation.
func VoucherDateOf(tx *Transaction, side SideData) time.Time {
	switch {
	case tx.IsStartingBalance():
		return tx.CreatedAt
	case tx.HasCreditNoteReference():
		if d, ok := side.CreditNoteDates[tx.Reference]; ok {
			return d
		}
	case tx.InvoiceNumber != "" && tx.Type == TransactionTypeDebit:
		if d, ok := side.ShipmentDates[tx.InvoiceNumber]; ok {
			return d
		}
	case tx.InvoiceNumber != "" && tx.Type == TransactionTypeCredit:
		if d, ok := side.PaymentDates[tx.InvoiceNumber]; ok {
			return d
		}
	}
	return tx.CreatedAt
}

// SortByVoucherDate orders transactions by (voucher date, DEBIT before CREDIT).
// The tie-break keeps a shipment recorded before its same-day payment. The
// sort is stable so equal-key transactions keep their insertion order.
func SortByVoucherDate(txs []*Transaction, side SideData) {
	dates := make(map[*Transaction]time.Time, len(txs))
	for _, tx := range txs {
		dates[tx] = VoucherDateOf(tx, side)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		di, dj := dates[txs[i]], dates[txs[j]]
		if di.Equal(dj) {
			return txs[i].Type == TransactionTypeDebit && txs[j].Type == TransactionTypeCredit
		}
		return di.Before(dj)
	})
}
