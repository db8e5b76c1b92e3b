package user

import "context"

// Repository defines the interface for user persistence.
type Repository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes a user row. Normal deletion is logical via MarkDeleted;
	// this is the physical removal used by the tenant cascade.
	Delete(ctx context.Context, id uint) error

	// List returns users with optional filtering.
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)

	// ListByTenantID returns all users of a tenant.
	ListByTenantID(ctx context.Context, tenantID uint) ([]*User, error)

	// ListAll returns every user, for configuration generation and validation.
	ListAll(ctx context.Context) ([]*User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByTenantID returns the number of users of a tenant.
	CountByTenantID(ctx context.Context, tenantID uint) (int64, error)
}

// ListFilter defines the filtering options for listing users.
type ListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Search   string
	Status   string
}
