package ledger

import (
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// ReplayResult is the output of a balance replay over a party's full history
type ReplayResult struct {
	// Transactions in voucher-date order with corrected balance pairs
	Transactions []*Transaction
	// CurrentBalance is the final fold value; the party row caches it
	CurrentBalance decimal.Decimal
}

// Replay recomputes every transaction's previous/new balance in voucher-date
// order. It is a pure fold over the ordered history: running it twice over the
// same input yields identical output, which is what lets the reconciliation
// pass be re-run on every read.
//
// A STARTING-BALANCE transaction, wherever it was inserted, seeds the fold:
// its previousBalance is fixed at zero and its newBalance becomes the initial
// running balance. All other transactions fold in sorted order with
// previousBalance taken from the running value before the step.
//
// The input slice is mutated in place (balances overwritten) and returned
// sorted.
func Replay(kind partner.PartyKind, txs []*Transaction, side SideData) ReplayResult {
	SortByVoucherDate(txs, side)

	running := decimal.Zero
	var starting *Transaction
	for _, tx := range txs {
		if tx.IsStartingBalance() {
			starting = tx
			break
		}
	}
	if starting != nil {
		value := StartingBalanceValue(kind, starting.Type, starting.Amount)
		starting.SetBalances(decimal.Zero, value)
		running = value
	}

	for _, tx := range txs {
		if tx == starting {
			continue
		}
		next := NextBalance(kind, tx.Type, running, tx.Amount)
		tx.SetBalances(running, next)
		running = next
	}

	return ReplayResult{
		Transactions:   txs,
		CurrentBalance: running,
	}
}
