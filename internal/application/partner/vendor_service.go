package partner

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateVendorInput carries the fields for registering a vendor
type CreateVendorInput struct {
	Code    string
	Name    string
	Email   string
	Phone   string
	Address string
}

// VendorService handles vendor management
type VendorService struct {
	vendors partner.VendorRepository
	logger  *zap.Logger
}

// NewVendorService creates a new VendorService
func NewVendorService(vendors partner.VendorRepository, logger *zap.Logger) *VendorService {
	return &VendorService{vendors: vendors, logger: logger}
}

// Create registers a new vendor with a unique code
func (s *VendorService) Create(ctx context.Context, input CreateVendorInput) (*partner.Vendor, error) {
	existing, err := s.vendors.FindByCode(ctx, input.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A vendor with this code already exists")
	}

	vendor, err := partner.NewVendor(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	vendor.WithContact(input.Email, input.Phone, input.Address)

	if err := s.vendors.Save(ctx, vendor); err != nil {
		return nil, err
	}

	s.logger.Info("vendor created",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("code", vendor.Code))
	return vendor, nil
}

// Get returns a vendor by ID
func (s *VendorService) Get(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	return s.vendors.FindByID(ctx, id)
}

// List returns vendors matching the filter
func (s *VendorService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Vendor], error) {
	vendors, total, err := s.vendors.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[*partner.Vendor]{}, err
	}
	return shared.NewPaginated(vendors, total, filter.Page, filter.PageSize), nil
}
