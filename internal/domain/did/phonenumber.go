// Package did provides domain models for phone number (DID) lifecycle
// management.
package did

import (
	"fmt"
	"regexp"
	"time"
)

// Status represents the lifecycle state of a phone number. The only legal
// path is UNASSIGNED -> ALLOCATED -> ASSIGNED and back one step at a time.
type Status string

const (
	// StatusUnassigned indicates the number is in stock, owned by no tenant
	StatusUnassigned Status = "UNASSIGNED"
	// StatusAllocated indicates the number is reserved for a tenant
	StatusAllocated Status = "ALLOCATED"
	// StatusAssigned indicates the number routes to a destination
	StatusAssigned Status = "ASSIGNED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusUnassigned || s == StatusAllocated || s == StatusAssigned
}

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// ValidateE164 checks the number against the E.164 format: a plus sign
// followed by 2 to 15 digits, no leading zero.
func ValidateE164(number string) error {
	if !e164Pattern.MatchString(number) {
		return fmt.Errorf("invalid E.164 number: %q", number)
	}
	return nil
}

// PhoneNumber represents a DID aggregate root. Invariant: UNASSIGNED numbers
// have no tenant; ALLOCATED and ASSIGNED numbers always have one.
type PhoneNumber struct {
	id               uint
	number           string
	status           Status
	tenantID         uint // zero when unassigned
	provider         string
	providerMetadata map[string]string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewPhoneNumber creates a new phone number in UNASSIGNED state.
func NewPhoneNumber(number, provider string) (*PhoneNumber, error) {
	if err := ValidateE164(number); err != nil {
		return nil, err
	}

	now := time.Now()
	return &PhoneNumber{
		number:    number,
		status:    StatusUnassigned,
		provider:  provider,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPhoneNumber reconstructs a phone number from persistence
func ReconstructPhoneNumber(
	id uint,
	number string,
	status Status,
	tenantID uint,
	provider string,
	providerMetadata map[string]string,
	createdAt, updatedAt time.Time,
) (*PhoneNumber, error) {
	if id == 0 {
		return nil, fmt.Errorf("phone number ID cannot be zero")
	}
	if err := ValidateE164(number); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid phone number status: %s", status)
	}
	if status == StatusUnassigned && tenantID != 0 {
		return nil, fmt.Errorf("unassigned number %s cannot have a tenant", number)
	}
	if status != StatusUnassigned && tenantID == 0 {
		return nil, fmt.Errorf("%s number %s must have a tenant", status, number)
	}

	return &PhoneNumber{
		id:               id,
		number:           number,
		status:           status,
		tenantID:         tenantID,
		provider:         provider,
		providerMetadata: providerMetadata,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

// ID returns the phone number ID
func (p *PhoneNumber) ID() uint {
	return p.id
}

// Number returns the E.164 number string
func (p *PhoneNumber) Number() string {
	return p.number
}

// Status returns the lifecycle status
func (p *PhoneNumber) Status() Status {
	return p.status
}

// TenantID returns the owning tenant ID, zero when unassigned
func (p *PhoneNumber) TenantID() uint {
	return p.tenantID
}

// Provider returns the upstream carrier name
func (p *PhoneNumber) Provider() string {
	return p.provider
}

// ProviderMetadata returns free-form carrier bookkeeping attached at import.
func (p *PhoneNumber) ProviderMetadata() map[string]string {
	return p.providerMetadata
}

// SetProviderMetadata attaches carrier bookkeeping to the number.
func (p *PhoneNumber) SetProviderMetadata(metadata map[string]string) {
	p.providerMetadata = metadata
	p.updatedAt = time.Now()
}

// CreatedAt returns when the number was imported
func (p *PhoneNumber) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the number was last updated
func (p *PhoneNumber) UpdatedAt() time.Time {
	return p.updatedAt
}

// SetID sets the phone number ID (only for persistence layer use)
func (p *PhoneNumber) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("phone number ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("phone number ID cannot be zero")
	}
	p.id = id
	return nil
}

// AllocateToTenant moves the number UNASSIGNED -> ALLOCATED and records the
// owning tenant.
func (p *PhoneNumber) AllocateToTenant(tenantID uint) error {
	if p.status != StatusUnassigned {
		return p.transitionError(StatusUnassigned)
	}
	if tenantID == 0 {
		return fmt.Errorf("tenant ID is required")
	}

	p.status = StatusAllocated
	p.tenantID = tenantID
	p.updatedAt = time.Now()
	return nil
}

// Assign moves the number ALLOCATED -> ASSIGNED. The caller creates the
// assignment record in the same transaction.
func (p *PhoneNumber) Assign() error {
	if p.status != StatusAllocated {
		return p.transitionError(StatusAllocated)
	}

	p.status = StatusAssigned
	p.updatedAt = time.Now()
	return nil
}

// Unassign moves the number ASSIGNED -> ALLOCATED. The number itself is
// never deleted; only its assignment record goes away.
func (p *PhoneNumber) Unassign() error {
	if p.status != StatusAssigned {
		return p.transitionError(StatusAssigned)
	}

	p.status = StatusAllocated
	p.updatedAt = time.Now()
	return nil
}

// Deallocate moves the number ALLOCATED -> UNASSIGNED and clears the tenant.
// Forbidden while ASSIGNED: the number must be unassigned first.
func (p *PhoneNumber) Deallocate() error {
	if p.status != StatusAllocated {
		return p.transitionError(StatusAllocated)
	}

	p.status = StatusUnassigned
	p.tenantID = 0
	p.updatedAt = time.Now()
	return nil
}

func (p *PhoneNumber) transitionError(expected Status) error {
	return &InvalidStateTransitionError{
		Number:   p.number,
		Current:  p.status,
		Expected: expected,
	}
}
