package apply

import "context"

// JobRepository defines the interface for apply job persistence.
type JobRepository interface {
	// Create persists a new apply job.
	Create(ctx context.Context, job *Job) error

	// Update updates an existing apply job.
	Update(ctx context.Context, job *Job) error

	// GetByID retrieves an apply job by ID.
	GetByID(ctx context.Context, id uint) (*Job, error)

	// List returns apply jobs with optional filtering, newest first.
	List(ctx context.Context, filter JobListFilter) ([]*Job, int64, error)
}

// JobListFilter defines the filtering options for listing apply jobs.
type JobListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Status   string
}
