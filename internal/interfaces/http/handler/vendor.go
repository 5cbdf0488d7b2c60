package handler

import (
	"time"

	partnerapp "github.com/forwardops/backend/internal/application/partner"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	BaseHandler
	service *partnerapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(service *partnerapp.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

type createVendorRequest struct {
	Code    string `json:"code" binding:"required,max=50"`
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

type vendorResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toVendorResponse(v *partner.Vendor) vendorResponse {
	return vendorResponse{
		ID:             v.ID.String(),
		Code:           v.Code,
		Name:           v.Name,
		Email:          v.Email,
		Phone:          v.Phone,
		Address:        v.Address,
		CurrentBalance: v.CurrentBalance,
		Active:         v.Active,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// Create handles POST /partner/vendors
func (h *VendorHandler) Create(c *gin.Context) {
	var req createVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	vendor, err := h.service.Create(c.Request.Context(), partnerapp.CreateVendorInput{
		Code:    req.Code,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toVendorResponse(vendor))
}

// GetByID handles GET /partner/vendors/:id
func (h *VendorHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	vendor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVendorResponse(vendor))
}

// List handles GET /partner/vendors
func (h *VendorHandler) List(c *gin.Context) {
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

	items := make([]vendorResponse, 0, len(page.Items))
	for _, vendor := range page.Items {
		items = append(items, toVendorResponse(vendor))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}
