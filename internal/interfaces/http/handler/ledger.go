package handler

import (
	"time"

	ledgerapp "github.com/forwardops/backend/internal/application/ledger"
	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/forwardops/backend/internal/interfaces/http/dto"
	"github.com/forwardops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles party ledger endpoints. Every read reconciles the
// party's history first, so responses always carry replayed balances.
type LedgerHandler struct {
	BaseHandler
	reconciliation *ledgerapp.ReconciliationService
	recorder       *ledgerapp.TransactionRecorder
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(reconciliation *ledgerapp.ReconciliationService, recorder *ledgerapp.TransactionRecorder) *LedgerHandler {
	return &LedgerHandler{reconciliation: reconciliation, recorder: recorder}
}

type listTransactionsRequest struct {
	dto.ListRequest
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// bindTransactionListFilter binds the listing parameters. Unlike the common
// list binding it leaves OrderBy empty unless the caller asked for a sort, so
// the default stays the replayed voucher-date order, and date_to is widened
// to cover the whole named day.
func bindTransactionListFilter(c *gin.Context) (shared.Filter, error) {
	var req listTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search
	if req.DateFrom != nil {
		filter.Filters["date_from"] = *req.DateFrom
	}
	if req.DateTo != nil {
		filter.Filters["date_to"] = req.DateTo.AddDate(0, 0, 1)
	}
	return filter, nil
}

type recordTransactionRequest struct {
	Type          string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"omitempty,max=500"`
	Reference     string          `json:"reference" binding:"omitempty,max=200"`
	InvoiceNumber string          `json:"invoice_number" binding:"omitempty,max=50"`
	Date          *time.Time      `json:"date"`
}

type transactionResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toTransactionResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID.String(),
		Type:            string(tx.Type),
		Amount:          tx.Amount,
		Description:     tx.Description,
		Reference:       tx.Reference,
		InvoiceNumber:   tx.InvoiceNumber,
		PreviousBalance: tx.PreviousBalance,
		NewBalance:      tx.NewBalance,
		CreatedAt:       tx.CreatedAt,
	}
}

// ListCustomerTransactions handles GET /ledger/customers/:id/transactions
func (h *LedgerHandler) ListCustomerTransactions(c *gin.Context) {
	h.listTransactions(c, partner.PartyKindCustomer)
}

// ListVendorTransactions handles GET /ledger/vendors/:id/transactions
func (h *LedgerHandler) ListVendorTransactions(c *gin.Context) {
	h.listTransactions(c, partner.PartyKindVendor)
}

// RecordCustomerTransaction handles POST /ledger/customers/:id/transactions
func (h *LedgerHandler) RecordCustomerTransaction(c *gin.Context) {
	h.recordTransaction(c, partner.PartyKindCustomer)
}

// RecordVendorTransaction handles POST /ledger/vendors/:id/transactions
func (h *LedgerHandler) RecordVendorTransaction(c *gin.Context) {
	h.recordTransaction(c, partner.PartyKindVendor)
}

func (h *LedgerHandler) listTransactions(c *gin.Context, kind partner.PartyKind) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid party ID")
		return
	}
	filter, err := bindTransactionListFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.reconciliation.ListTransactions(c.Request.Context(), kind, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]transactionResponse, 0, len(page.Items))
	for _, tx := range page.Items {
		items = append(items, toTransactionResponse(tx))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

func (h *LedgerHandler) recordTransaction(c *gin.Context, kind partner.PartyKind) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid party ID")
		return
	}
	var req recordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := ledgerapp.RecordTransactionInput{
		PartyKind:     kind,
		PartyID:       id,
		Type:          ledger.TransactionType(req.Type),
		Amount:        req.Amount,
		Description:   req.Description,
		Reference:     req.Reference,
		InvoiceNumber: req.InvoiceNumber,
	}
	if req.Date != nil {
		input.CreatedAt = *req.Date
	}

	tx, err := h.recorder.Record(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(tx))
}
