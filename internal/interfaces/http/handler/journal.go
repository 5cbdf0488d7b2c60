package handler

import (
	"time"

	accountingapp "github.com/forwardops/backend/internal/application/accounting"
	"github.com/forwardops/backend/internal/domain/accounting"
	"github.com/forwardops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// JournalHandler exposes the double-entry journal and chart of accounts for
// review. Both are read-only; entries are produced by the ledger, never posted
// directly.
type JournalHandler struct {
	BaseHandler
	service  *accountingapp.JournalService
	accounts accounting.ChartOfAccountRepository
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(service *accountingapp.JournalService, accounts accounting.ChartOfAccountRepository) *JournalHandler {
	return &JournalHandler{service: service, accounts: accounts}
}

type journalLineResponse struct {
	AccountCode  string          `json:"account_code"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
}

type journalEntryResponse struct {
	ID              string                `json:"id"`
	EntryNumber     string                `json:"entry_number"`
	Date            time.Time             `json:"date"`
	Description     string                `json:"description,omitempty"`
	Reference       string                `json:"reference,omitempty"`
	InvoiceNumber   string                `json:"invoice_number,omitempty"`
	TransactionType string                `json:"transaction_type"`
	TotalDebit      decimal.Decimal       `json:"total_debit"`
	TotalCredit     decimal.Decimal       `json:"total_credit"`
	Lines           []journalLineResponse `json:"lines"`
	CreatedAt       time.Time             `json:"created_at"`
}

type accountResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func toJournalEntryResponse(entry *accounting.JournalEntry) journalEntryResponse {
	lines := make([]journalLineResponse, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		lines = append(lines, journalLineResponse{
			AccountCode:  line.AccountCode,
			DebitAmount:  line.DebitAmount,
			CreditAmount: line.CreditAmount,
		})
	}
	return journalEntryResponse{
		ID:              entry.ID.String(),
		EntryNumber:     entry.EntryNumber,
		Date:            entry.Date,
		Description:     entry.Description,
		Reference:       entry.Reference,
		InvoiceNumber:   entry.InvoiceNumber,
		TransactionType: entry.TransactionType.String(),
		TotalDebit:      entry.TotalDebit,
		TotalCredit:     entry.TotalCredit,
		Lines:           lines,
		CreatedAt:       entry.CreatedAt,
	}
}

// ListEntries handles GET /accounting/journal-entries
func (h *JournalHandler) ListEntries(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]journalEntryResponse, 0, len(page.Items))
	for _, entry := range page.Items {
		items = append(items, toJournalEntryResponse(entry))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// ListAccounts handles GET /accounting/accounts
func (h *JournalHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, accountResponse{
			Code:   account.Code,
			Name:   account.Name,
			Type:   account.Type.String(),
			Active: account.Active,
		})
	}
	h.Success(c, items)
}
