package handler

import (
	"time"

	shippingapp "github.com/forwardops/backend/internal/application/shipping"
	"github.com/forwardops/backend/internal/domain/shipping"
	"github.com/forwardops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentHandler handles shipment booking endpoints
type ShipmentHandler struct {
	BaseHandler
	service *shippingapp.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(service *shippingapp.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

type pricingRequest struct {
	Price           decimal.Decimal `json:"price" binding:"required,dgte=0"`
	FuelSurcharge   decimal.Decimal `json:"fuel_surcharge" binding:"omitempty,dgte=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent" binding:"omitempty,dgte=0"`
	ProfitPercent   decimal.Decimal `json:"profit_percent" binding:"omitempty,dgte=0"`
	VendorPrice     decimal.Decimal `json:"vendor_price" binding:"omitempty,dgte=0"`
}

func (r pricingRequest) toInput() shipping.PricingInput {
	return shipping.PricingInput{
		Price:           r.Price,
		FuelSurcharge:   r.FuelSurcharge,
		DiscountPercent: r.DiscountPercent,
		ProfitPercent:   r.ProfitPercent,
		VendorPrice:     r.VendorPrice,
	}
}

type createShipmentRequest struct {
	CustomerID   string         `json:"customer_id" binding:"required,uuid"`
	VendorID     string         `json:"vendor_id" binding:"required,uuid"`
	ShipmentDate *time.Time     `json:"shipment_date"`
	Origin       string         `json:"origin" binding:"omitempty,max=200"`
	Destination  string         `json:"destination" binding:"omitempty,max=200"`
	Carrier      string         `json:"carrier" binding:"omitempty,max=100"`
	TrackingID   string         `json:"tracking_id" binding:"omitempty,max=100"`
	Pricing      pricingRequest `json:"pricing" binding:"required"`
}

type updateShipmentRequest struct {
	Origin      string         `json:"origin" binding:"omitempty,max=200"`
	Destination string         `json:"destination" binding:"omitempty,max=200"`
	Carrier     string         `json:"carrier" binding:"omitempty,max=100"`
	TrackingID  string         `json:"tracking_id" binding:"omitempty,max=100"`
	Pricing     pricingRequest `json:"pricing" binding:"required"`
}

type ledgerOutcomeResponse struct {
	Committed       bool     `json:"committed"`
	PartialFailures []string `json:"partial_failures,omitempty"`
}

type shipmentResponse struct {
	ID                    string          `json:"id"`
	Number                string          `json:"number"`
	CustomerID            string          `json:"customer_id"`
	VendorID              string          `json:"vendor_id"`
	ShipmentDate          time.Time       `json:"shipment_date"`
	Origin                string          `json:"origin,omitempty"`
	Destination           string          `json:"destination,omitempty"`
	Carrier               string          `json:"carrier,omitempty"`
	TrackingID            string          `json:"tracking_id,omitempty"`
	Status                string          `json:"status"`
	Price                 decimal.Decimal `json:"price"`
	FuelSurcharge         decimal.Decimal `json:"fuel_surcharge"`
	DiscountPercent       decimal.Decimal `json:"discount_percent"`
	ProfitPercent         decimal.Decimal `json:"profit_percent"`
	VendorPrice           decimal.Decimal `json:"vendor_price"`
	OriginalPrice         decimal.Decimal `json:"original_price"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	CustomerTotalCost     decimal.Decimal `json:"customer_total_cost"`
	VendorTotalCost       decimal.Decimal `json:"vendor_total_cost"`
	CustomerInvoiceNumber string          `json:"customer_invoice_number,omitempty"`
	VendorInvoiceNumber   string          `json:"vendor_invoice_number,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type shipmentWithOutcomeResponse struct {
	Shipment shipmentResponse      `json:"shipment"`
	Ledger   ledgerOutcomeResponse `json:"ledger"`
}

func toShipmentResponse(s *shipping.Shipment) shipmentResponse {
	return shipmentResponse{
		ID:                    s.ID.String(),
		Number:                s.Number,
		CustomerID:            s.CustomerID.String(),
		VendorID:              s.VendorID.String(),
		ShipmentDate:          s.ShipmentDate,
		Origin:                s.Origin,
		Destination:           s.Destination,
		Carrier:               s.Carrier,
		TrackingID:            s.TrackingID,
		Status:                string(s.Status),
		Price:                 s.Price,
		FuelSurcharge:         s.FuelSurcharge,
		DiscountPercent:       s.DiscountPercent,
		ProfitPercent:         s.ProfitPercent,
		VendorPrice:           s.VendorPrice,
		OriginalPrice:         s.OriginalPrice,
		DiscountAmount:        s.DiscountAmount,
		CustomerTotalCost:     s.CustomerTotalCost,
		VendorTotalCost:       s.VendorTotalCost,
		CustomerInvoiceNumber: s.CustomerInvoiceNumber,
		VendorInvoiceNumber:   s.VendorInvoiceNumber,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func toOutcomeResponse(o shippingapp.LedgerOutcome) ledgerOutcomeResponse {
	return ledgerOutcomeResponse{Committed: o.Committed, PartialFailures: o.PartialFailures}
}

// Create handles POST /shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req createShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	vendorID, _ := uuid.Parse(req.VendorID)

	input := shippingapp.CreateShipmentInput{
		CustomerID:  customerID,
		VendorID:    vendorID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Carrier:     req.Carrier,
		TrackingID:  req.TrackingID,
		Pricing:     req.Pricing.toInput(),
	}
	if req.ShipmentDate != nil {
		input.ShipmentDate = *req.ShipmentDate
	}

	shipment, outcome, err := h.service.CreateShipment(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, shipmentWithOutcomeResponse{
		Shipment: toShipmentResponse(shipment),
		Ledger:   toOutcomeResponse(outcome),
	})
}

// Update handles PUT /shipments/:id
func (h *ShipmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	var req updateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	shipment, outcome, err := h.service.UpdateShipment(c.Request.Context(), id, shippingapp.UpdateShipmentInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		Carrier:     req.Carrier,
		TrackingID:  req.TrackingID,
		Pricing:     req.Pricing.toInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shipmentWithOutcomeResponse{
		Shipment: toShipmentResponse(shipment),
		Ledger:   toOutcomeResponse(outcome),
	})
}

// GetByID handles GET /shipments/:id
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	shipment, err := h.service.GetShipment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toShipmentResponse(shipment))
}

// List handles GET /shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.service.ListShipments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]shipmentResponse, 0, len(page.Items))
	for _, shipment := range page.Items {
		items = append(items, toShipmentResponse(shipment))
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}
