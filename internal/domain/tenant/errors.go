package tenant

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotFound is returned when a tenant is not found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNameAlreadyExists is returned when a tenant with the same name exists.
	ErrNameAlreadyExists = errors.New("tenant name already exists")
)

// PoolExhaustedError is returned when a tenant's extension pool has no free
// numbers left. It is terminal: the caller must widen the range, not retry.
type PoolExhaustedError struct {
	TenantID uint
	ExtMin   int
	ExtMax   int
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("extension pool exhausted for tenant %d: range [%d, %d] fully allocated", e.TenantID, e.ExtMin, e.ExtMax)
}

// IsPoolExhausted checks if the error is an extension pool exhaustion.
func IsPoolExhausted(err error) bool {
	var pe *PoolExhaustedError
	return errors.As(err, &pe)
}
