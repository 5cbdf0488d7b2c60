package partner

import (
	"context"
	"errors"

	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateCustomerInput carries the fields for registering a customer
type CreateCustomerInput struct {
	Code        string
	Name        string
	Email       string
	Phone       string
	Address     string
	CreditLimit decimal.Decimal
}

// CustomerService handles customer management
type CustomerService struct {
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

// Create registers a new customer with a unique code
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*partner.Customer, error) {
	existing, err := s.customers.FindByCode(ctx, input.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this code already exists")
	}

	customer, err := partner.NewCustomer(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	customer.WithContact(input.Email, input.Phone, input.Address)
	if input.CreditLimit.GreaterThan(decimal.Zero) {
		customer.WithCreditLimit(input.CreditLimit)
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code))
	return customer, nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// List returns customers matching the filter
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Customer], error) {
	customers, total, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[*partner.Customer]{}, err
	}
	return shared.NewPaginated(customers, total, filter.Page, filter.PageSize), nil
}
