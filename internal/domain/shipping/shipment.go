package shipping

import (
	"fmt"
	"time"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingInput holds the pricing fields entered when booking a shipment.
// Price is the quoted price with profit already included.
type PricingInput struct {
	Price           decimal.Decimal
	FuelSurcharge   decimal.Decimal
	DiscountPercent decimal.Decimal
	ProfitPercent   decimal.Decimal
	VendorPrice     decimal.Decimal
}

// Pricing holds the computed pricing outputs
type Pricing struct {
	OriginalPrice     decimal.Decimal
	DiscountAmount    decimal.Decimal
	CustomerTotalCost decimal.Decimal
	VendorTotalCost   decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// ComputePricing derives the billed totals from the quoted inputs:
//
//	originalPrice     = profit > 0 ? round(price / (1 + profit/100)) : price
//	discountAmount    = round(originalPrice * discount/100)
//	customerTotalCost = round(price + fuelSurcharge - discountAmount)
//	vendorTotalCost   = round(vendorPrice)
//
// Rounding is to whole currency units, half away from zero.
func ComputePricing(in PricingInput) Pricing {
	originalPrice := in.Price
	if in.ProfitPercent.GreaterThan(decimal.Zero) {
		divisor := decimal.NewFromInt(1).Add(in.ProfitPercent.Div(oneHundred))
		originalPrice = in.Price.Div(divisor).Round(0)
	}

	discountAmount := originalPrice.Mul(in.DiscountPercent.Div(oneHundred)).Round(0)

	return Pricing{
		OriginalPrice:     originalPrice,
		DiscountAmount:    discountAmount,
		CustomerTotalCost: in.Price.Add(in.FuelSurcharge).Sub(discountAmount).Round(0),
		VendorTotalCost:   in.VendorPrice.Round(0),
	}
}

// ShipmentStatus tracks the lifecycle of a shipment
type ShipmentStatus string

const (
	ShipmentStatusBooked    ShipmentStatus = "BOOKED"
	ShipmentStatusInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

// IsValid returns true if the shipment status is valid
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusBooked, ShipmentStatusInTransit, ShipmentStatusDelivered:
		return true
	}
	return false
}

// Shipment is the authoritative booking record. Once persisted it stays
// authoritative even when downstream invoice or ledger writes fail; those are
// repaired by reconciliation or manual audit, never by rolling the shipment
// back.
type Shipment struct {
	shared.BaseAggregateRoot
	Number       string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Sequence     int64           `gorm:"not null;index"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShipmentDate time.Time       `gorm:"not null;index"`
	Origin       string          `gorm:"type:varchar(200)"`
	Destination  string          `gorm:"type:varchar(200)"`
	Carrier      string          `gorm:"type:varchar(100)"`
	TrackingID   string          `gorm:"type:varchar(100);index"`
	Status       ShipmentStatus  `gorm:"type:varchar(20);not null;default:'BOOKED'"`

	// Pricing inputs
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FuelSurcharge   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	ProfitPercent   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	VendorPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	// Computed pricing outputs
	OriginalPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CustomerTotalCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VendorTotalCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	CustomerInvoiceNumber string `gorm:"type:varchar(50);index"`
	VendorInvoiceNumber   string `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// FormatShipmentNumber renders a sequence as a human-readable number
func FormatShipmentNumber(sequence int64) string {
	return fmt.Sprintf("SHP-%06d", sequence)
}

// NewShipment creates a new shipment booking with computed pricing
func NewShipment(
	sequence int64,
	customerID, vendorID uuid.UUID,
	shipmentDate time.Time,
	pricing PricingInput,
) (*Shipment, error) {
	if sequence <= 0 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Shipment sequence must be positive")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if pricing.Price.IsNegative() || pricing.VendorPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Shipment pricing cannot be negative")
	}
	if shipmentDate.IsZero() {
		shipmentDate = time.Now()
	}

	s := &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            FormatShipmentNumber(sequence),
		Sequence:          sequence,
		CustomerID:        customerID,
		VendorID:          vendorID,
		ShipmentDate:      shipmentDate,
		Status:            ShipmentStatusBooked,
	}
	s.ApplyPricing(pricing)

	return s, nil
}

// WithRoute sets origin/destination/carrier details
func (s *Shipment) WithRoute(origin, destination, carrier string) *Shipment {
	s.Origin = origin
	s.Destination = destination
	s.Carrier = carrier
	return s
}

// WithTracking sets the carrier tracking identifier
func (s *Shipment) WithTracking(trackingID string) *Shipment {
	s.TrackingID = trackingID
	return s
}

// ApplyPricing stores the inputs and recomputes the derived totals
func (s *Shipment) ApplyPricing(in PricingInput) {
	out := ComputePricing(in)

	s.Price = in.Price
	s.FuelSurcharge = in.FuelSurcharge
	s.DiscountPercent = in.DiscountPercent
	s.ProfitPercent = in.ProfitPercent
	s.VendorPrice = in.VendorPrice

	s.OriginalPrice = out.OriginalPrice
	s.DiscountAmount = out.DiscountAmount
	s.CustomerTotalCost = out.CustomerTotalCost
	s.VendorTotalCost = out.VendorTotalCost

	s.UpdatedAt = time.Now()
}

// PricingInput returns the stored pricing inputs
func (s *Shipment) PricingInput() PricingInput {
	return PricingInput{
		Price:           s.Price,
		FuelSurcharge:   s.FuelSurcharge,
		DiscountPercent: s.DiscountPercent,
		ProfitPercent:   s.ProfitPercent,
		VendorPrice:     s.VendorPrice,
	}
}
