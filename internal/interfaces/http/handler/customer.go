package handler

import (
	"time"

	partnerapp "github.com/forwardops/backend/internal/application/partner"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	service *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

type createCustomerRequest struct {
	Code        string          `json:"code" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=200"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Phone       string          `json:"phone" binding:"omitempty,max=50"`
	Address     string          `json:"address" binding:"omitempty,max=500"`
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"omitempty,dgte=0"`
}

type customerResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditAvailable decimal.Decimal `json:"credit_available"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toCustomerResponse(c *partner.Customer) customerResponse {
	return customerResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		CurrentBalance:  c.CurrentBalance,
		CreditLimit:     c.CreditLimit,
		CreditAvailable: c.CreditAvailable(),
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// Create handles POST /partner/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.service.Create(c.Request.Context(), partnerapp.CreateCustomerInput{
		Code:        req.Code,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCustomerResponse(customer))
}

// GetByID handles GET /partner/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// List handles GET /partner/customers
func (h *CustomerHandler) List(c *gin.Context) {
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

	items := make([]customerResponse, 0, len(page.Items))
	for _, customer := range page.Items {
		items = append(items, toCustomerResponse(customer))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}
