package billing

import (
	"testing"
	"time"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	partyID, shipmentID := uuid.New(), uuid.New()

	t.Run("creates pending invoice", func(t *testing.T) {
		inv, err := NewInvoice("SHP-000001-C", partner.PartyKindCustomer, partyID, shipmentID, decimal.NewFromInt(1005))
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1005)))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewInvoice("", partner.PartyKindCustomer, partyID, shipmentID, decimal.NewFromInt(1))
		assert.Error(t, err)
		_, err = NewInvoice("INV-1", partner.PartyKind("BROKER"), partyID, shipmentID, decimal.NewFromInt(1))
		assert.Error(t, err)
		_, err = NewInvoice("INV-1", partner.PartyKindCustomer, partyID, shipmentID, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("line items keep position order", func(t *testing.T) {
		inv, err := NewInvoice("SHP-000002-V", partner.PartyKindVendor, partyID, shipmentID, decimal.NewFromInt(700))
		require.NoError(t, err)
		inv.AddLineItem("Base freight", decimal.NewFromInt(650)).
			AddLineItem("Fuel surcharge", decimal.NewFromInt(50))
		require.Len(t, inv.LineItems, 2)
		assert.Equal(t, 0, inv.LineItems[0].Position)
		assert.Equal(t, 1, inv.LineItems[1].Position)
	})
}

func TestInvoiceUpdateTotal(t *testing.T) {
	inv, err := NewInvoice("SHP-000003-C", partner.PartyKindCustomer, uuid.New(), uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	before := inv.Version

	require.NoError(t, inv.UpdateTotal(decimal.NewFromInt(1200)))
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, before+1, inv.Version)

	assert.Error(t, inv.UpdateTotal(decimal.NewFromInt(-1)))
}

func TestInvoiceMarkPaid(t *testing.T) {
	inv, err := NewInvoice("SHP-000004-C", partner.PartyKindCustomer, uuid.New(), uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)

	inv.MarkPaid(decimal.NewFromInt(400))
	assert.Equal(t, InvoiceStatusPartial, inv.Status)

	inv.MarkPaid(decimal.NewFromInt(1000))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	inv.MarkPaid(decimal.Zero)
	assert.Equal(t, InvoiceStatusPending, inv.Status)
}

func TestNewPayment(t *testing.T) {
	partyID := uuid.New()
	date := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	t.Run("creates income payment", func(t *testing.T) {
		p, err := NewPayment(partner.PartyKindCustomer, partyID, PaymentTypeIncome, decimal.NewFromInt(300), "BANK", date)
		require.NoError(t, err)
		p.WithInvoiceNumber("SHP-000001-C").WithCategory(PaymentCategoryBalanceApplied)
		assert.Equal(t, date, p.Date)
		assert.Equal(t, PaymentCategoryBalanceApplied, p.Category)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		_, err := NewPayment(partner.PartyKindCustomer, partyID, PaymentTypeIncome, decimal.Zero, "BANK", date)
		assert.Error(t, err)
	})

	t.Run("rejects invalid direction", func(t *testing.T) {
		_, err := NewPayment(partner.PartyKindCustomer, partyID, PaymentTransactionType("TRANSFER"), decimal.NewFromInt(1), "BANK", date)
		assert.Error(t, err)
	})
}

func TestNewCreditNote(t *testing.T) {
	t.Run("creates note", func(t *testing.T) {
		n, err := NewCreditNote("CN-001", partner.PartyKindCustomer, uuid.New(), decimal.NewFromInt(50), "#CREDIT-CN-001", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "#CREDIT-CN-001", n.Reference)
	})

	t.Run("rejects empty reference", func(t *testing.T) {
		_, err := NewCreditNote("CN-002", partner.PartyKindCustomer, uuid.New(), decimal.NewFromInt(50), "", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		_, err := NewCreditNote("CN-003", partner.PartyKindVendor, uuid.New(), decimal.Zero, "#DEBIT-DN-001", time.Now())
		assert.Error(t, err)
	})
}
