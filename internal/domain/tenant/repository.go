package tenant

import "context"

// Repository defines the interface for tenant persistence.
type Repository interface {
	// Create persists a new tenant.
	Create(ctx context.Context, tenant *Tenant) error

	// GetByID retrieves a tenant by ID.
	GetByID(ctx context.Context, id uint) (*Tenant, error)

	// GetByIDForUpdate retrieves a tenant by ID holding an exclusive row lock
	// for the duration of the surrounding transaction. Used by the extension
	// allocator to serialize cursor advances per tenant.
	GetByIDForUpdate(ctx context.Context, id uint) (*Tenant, error)

	// GetByName retrieves a tenant by name.
	GetByName(ctx context.Context, name string) (*Tenant, error)

	// Update updates an existing tenant.
	Update(ctx context.Context, tenant *Tenant) error

	// Delete removes a tenant.
	Delete(ctx context.Context, id uint) error

	// List returns tenants with optional filtering.
	List(ctx context.Context, filter ListFilter) ([]*Tenant, int64, error)

	// ListAll returns every tenant, for configuration generation.
	ListAll(ctx context.Context) ([]*Tenant, error)

	// ExistsByName checks if a tenant with the given name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ListFilter defines the filtering options for listing tenants.
type ListFilter struct {
	Page     int
	PageSize int
	Name     string
	Status   string
}
