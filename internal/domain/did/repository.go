package did

import "context"

// PhoneNumberRepository defines the interface for phone number persistence.
type PhoneNumberRepository interface {
	// Create persists a new phone number.
	Create(ctx context.Context, number *PhoneNumber) error

	// CreateBatch persists a batch of phone numbers atomically: either every
	// number is created or none are.
	CreateBatch(ctx context.Context, numbers []*PhoneNumber) error

	// GetByID retrieves a phone number by ID.
	GetByID(ctx context.Context, id uint) (*PhoneNumber, error)

	// GetByNumber retrieves a phone number by its E.164 string.
	GetByNumber(ctx context.Context, number string) (*PhoneNumber, error)

	// Update updates an existing phone number.
	Update(ctx context.Context, number *PhoneNumber) error

	// List returns phone numbers with optional filtering.
	List(ctx context.Context, filter ListFilter) ([]*PhoneNumber, int64, error)

	// ListByStatus returns all phone numbers in the given status.
	ListByStatus(ctx context.Context, status Status) ([]*PhoneNumber, error)

	// ListByTenantID returns all phone numbers allocated or assigned to a
	// tenant, for the tenant deletion cascade.
	ListByTenantID(ctx context.Context, tenantID uint) ([]*PhoneNumber, error)

	// ExistsByNumber checks if a phone number with the given string exists.
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// ListFilter defines the filtering options for listing phone numbers.
type ListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Status   string
	Search   string
}

// AssignmentRepository defines the interface for assignment persistence.
type AssignmentRepository interface {
	// Create persists a new assignment. A violation of the one-assignment-
	// per-number constraint is returned as ErrAlreadyAssigned.
	Create(ctx context.Context, assignment *Assignment) error

	// GetByPhoneNumberID retrieves the assignment of a phone number.
	GetByPhoneNumberID(ctx context.Context, phoneNumberID uint) (*Assignment, error)

	// DeleteByPhoneNumberID removes the assignment of a phone number.
	DeleteByPhoneNumberID(ctx context.Context, phoneNumberID uint) error

	// ListAll returns every assignment, for configuration generation.
	ListAll(ctx context.Context) ([]*Assignment, error)
}
