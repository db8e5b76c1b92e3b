// Package tenant provides domain models and business logic for tenant management.
package tenant

import (
	"fmt"
	"time"
)

// Status represents the status of a tenant
type Status string

const (
	// StatusActive indicates the tenant is active
	StatusActive Status = "active"
	// StatusSuspended indicates the tenant is suspended
	StatusSuspended Status = "suspended"
)

// IsValid checks if the tenant status is valid
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSuspended
}

// Tenant represents the tenant aggregate root. It owns the extension pool
// cursor: extMin <= extNext <= extMax+1 holds at all times, and extNext is
// advanced only through AllocateExtension under a row lock held by the caller.
type Tenant struct {
	id                    uint
	name                  string
	status                Status
	extMin                int
	extMax                int
	extNext               int
	defaultInboundContext string
	createdAt             time.Time
	updatedAt             time.Time
}

// NewTenant creates a new active tenant with the given extension range.
// The allocation cursor starts at extMin.
func NewTenant(name string, extMin, extMax int) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if err := validateRange(extMin, extMax); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Tenant{
		name:      name,
		status:    StatusActive,
		extMin:    extMin,
		extMax:    extMax,
		extNext:   extMin,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructTenant reconstructs a tenant from persistence
func ReconstructTenant(
	id uint,
	name string,
	status Status,
	extMin, extMax, extNext int,
	defaultInboundContext string,
	createdAt, updatedAt time.Time,
) (*Tenant, error) {
	if id == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid tenant status: %s", status)
	}
	if err := validateRange(extMin, extMax); err != nil {
		return nil, err
	}
	if extNext < extMin || extNext > extMax+1 {
		return nil, fmt.Errorf("extension cursor %d outside [%d, %d]", extNext, extMin, extMax+1)
	}

	return &Tenant{
		id:                    id,
		name:                  name,
		status:                status,
		extMin:                extMin,
		extMax:                extMax,
		extNext:               extNext,
		defaultInboundContext: defaultInboundContext,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}, nil
}

func validateRange(extMin, extMax int) error {
	if extMin < 1 {
		return fmt.Errorf("extension range start must be positive, got %d", extMin)
	}
	if extMax < extMin {
		return fmt.Errorf("extension range end %d is below start %d", extMax, extMin)
	}
	return nil
}

// ID returns the tenant ID
func (t *Tenant) ID() uint {
	return t.id
}

// Name returns the tenant name
func (t *Tenant) Name() string {
	return t.name
}

// Status returns the tenant status
func (t *Tenant) Status() Status {
	return t.status
}

// ExtMin returns the lower bound of the extension pool
func (t *Tenant) ExtMin() int {
	return t.extMin
}

// ExtMax returns the upper bound of the extension pool
func (t *Tenant) ExtMax() int {
	return t.extMax
}

// ExtNext returns the next extension the pool will hand out
func (t *Tenant) ExtNext() int {
	return t.extNext
}

// DefaultInboundContext returns the fallback routing context for inbound
// calls that match none of the tenant's assignments. Empty means none.
func (t *Tenant) DefaultInboundContext() string {
	return t.defaultInboundContext
}

// CreatedAt returns when the tenant was created
func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns when the tenant was last updated
func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

// SetID sets the tenant ID (only for persistence layer use)
func (t *Tenant) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("tenant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	t.id = id
	return nil
}

// AllocateExtension returns the next free extension and advances the cursor.
// The caller must hold a row lock on the tenant record and persist the tenant
// in the same transaction as the record consuming the extension.
func (t *Tenant) AllocateExtension() (int, error) {
	if t.extNext > t.extMax {
		return 0, &PoolExhaustedError{
			TenantID: t.id,
			ExtMin:   t.extMin,
			ExtMax:   t.extMax,
		}
	}

	ext := t.extNext
	t.extNext++
	t.updatedAt = time.Now()
	return ext, nil
}

// RemainingExtensions returns how many extensions the pool can still hand out.
func (t *Tenant) RemainingExtensions() int {
	if t.extNext > t.extMax {
		return 0
	}
	return t.extMax - t.extNext + 1
}

// UpdateName updates the tenant name
func (t *Tenant) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("tenant name cannot be empty")
	}
	if t.name == name {
		return nil
	}
	t.name = name
	t.updatedAt = time.Now()
	return nil
}

// UpdateExtensionRange widens or moves the extension range. The new range must
// still contain every extension already handed out, so the cursor is clamped
// to newMin but never moved backwards past numbers already allocated.
func (t *Tenant) UpdateExtensionRange(extMin, extMax int) error {
	if err := validateRange(extMin, extMax); err != nil {
		return err
	}
	if t.extNext > extMax+1 {
		return fmt.Errorf("range [%d, %d] excludes already-allocated extensions up to %d", extMin, extMax, t.extNext-1)
	}

	t.extMin = extMin
	t.extMax = extMax
	if t.extNext < extMin {
		t.extNext = extMin
	}
	t.updatedAt = time.Now()
	return nil
}

// UpdateDefaultInboundContext sets the fallback routing context. An empty
// value clears it.
func (t *Tenant) UpdateDefaultInboundContext(context string) {
	if t.defaultInboundContext == context {
		return
	}
	t.defaultInboundContext = context
	t.updatedAt = time.Now()
}

// Suspend suspends the tenant
func (t *Tenant) Suspend() {
	if t.status == StatusSuspended {
		return
	}
	t.status = StatusSuspended
	t.updatedAt = time.Now()
}

// Activate activates the tenant
func (t *Tenant) Activate() {
	if t.status == StatusActive {
		return
	}
	t.status = StatusActive
	t.updatedAt = time.Now()
}

// IsActive checks if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.status == StatusActive
}
