package partner

import (
	"context"

	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
	// SaveWithLock persists the customer guarded by its version column and
	// returns ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, customer *Customer) error
}

// VendorRepository defines persistence operations for vendors
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindByCode(ctx context.Context, code string) (*Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Vendor, int64, error)
	Save(ctx context.Context, vendor *Vendor) error
	SaveWithLock(ctx context.Context, vendor *Vendor) error
}
