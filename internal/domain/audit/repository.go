package audit

import "context"

// Repository defines the interface for audit log persistence. The log is
// append-only: there are no update or delete operations.
type Repository interface {
	// Create appends an audit entry.
	Create(ctx context.Context, entry *Entry) error

	// List returns audit entries with optional filtering, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Entry, int64, error)
}

// ListFilter defines the filtering options for listing audit entries.
type ListFilter struct {
	Page       int
	PageSize   int
	Actor      string
	EntityType string
	EntityID   uint
	Action     string
}
