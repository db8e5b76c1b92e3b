// Package user provides domain models and business logic for telephony users.
package user

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Status represents the status of a user
type Status string

const (
	// StatusActive indicates the user is active
	StatusActive Status = "active"
	// StatusSuspended indicates the user is suspended
	StatusSuspended Status = "suspended"
	// StatusDeleted indicates the user is logically deleted. The extension
	// stays reserved until the tenant cascade physically removes the row.
	StatusDeleted Status = "deleted"
)

// IsValid checks if the user status is valid
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSuspended || s == StatusDeleted
}

// User represents a telephony user aggregate root. Each user belongs to
// exactly one tenant and holds exactly one extension drawn from that
// tenant's pool.
type User struct {
	id              uint
	tenantID        uint
	name            string
	email           string
	extension       int
	sipSecret       string
	dndEnabled      bool
	callForwardDest string
	voicemailOn     bool
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

// NewUser creates a new active user. The extension must already be allocated
// from the tenant's pool; the user record and the cursor advance commit in
// the same transaction.
func NewUser(tenantID uint, name, email string, extension int) (*User, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if extension <= 0 {
		return nil, fmt.Errorf("extension must be positive, got %d", extension)
	}

	secret, err := generateSIPSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SIP secret: %w", err)
	}

	now := time.Now()
	return &User{
		tenantID:    tenantID,
		name:        name,
		email:       strings.ToLower(email),
		extension:   extension,
		sipSecret:   secret,
		voicemailOn: true,
		status:      StatusActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// generateSIPSecret returns a random secret for endpoint registration.
func generateSIPSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(
	id uint,
	tenantID uint,
	name, email string,
	extension int,
	sipSecret string,
	dndEnabled bool,
	callForwardDest string,
	voicemailEnabled bool,
	status Status,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid user status: %s", status)
	}

	return &User{
		id:              id,
		tenantID:        tenantID,
		name:            name,
		email:           email,
		extension:       extension,
		sipSecret:       sipSecret,
		dndEnabled:      dndEnabled,
		callForwardDest: callForwardDest,
		voicemailOn:     voicemailEnabled,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("user email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ID returns the user ID
func (u *User) ID() uint {
	return u.id
}

// TenantID returns the owning tenant ID
func (u *User) TenantID() uint {
	return u.tenantID
}

// Name returns the user display name
func (u *User) Name() string {
	return u.name
}

// Email returns the user email
func (u *User) Email() string {
	return u.email
}

// Extension returns the user's extension number
func (u *User) Extension() int {
	return u.extension
}

// SIPSecret returns the endpoint registration secret
func (u *User) SIPSecret() string {
	return u.sipSecret
}

// RegenerateSIPSecret replaces the endpoint registration secret. Existing
// registrations drop on the next apply.
func (u *User) RegenerateSIPSecret() error {
	secret, err := generateSIPSecret()
	if err != nil {
		return fmt.Errorf("failed to generate SIP secret: %w", err)
	}
	u.sipSecret = secret
	u.updatedAt = time.Now()
	return nil
}

// DNDEnabled reports whether do-not-disturb is on
func (u *User) DNDEnabled() bool {
	return u.dndEnabled
}

// CallForwardDestination returns the forward target, empty when disabled
func (u *User) CallForwardDestination() string {
	return u.callForwardDest
}

// VoicemailEnabled reports whether voicemail is on
func (u *User) VoicemailEnabled() bool {
	return u.voicemailOn
}

// Status returns the user status
func (u *User) Status() Status {
	return u.status
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// SetID sets the user ID (only for persistence layer use)
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// UpdateName updates the user display name
func (u *User) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if u.name == name {
		return nil
	}
	u.name = name
	u.updatedAt = time.Now()
	return nil
}

// UpdateEmail updates the user email
func (u *User) UpdateEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	u.email = strings.ToLower(email)
	u.updatedAt = time.Now()
	return nil
}

// EnableDND turns do-not-disturb on
func (u *User) EnableDND() {
	if u.dndEnabled {
		return
	}
	u.dndEnabled = true
	u.updatedAt = time.Now()
}

// DisableDND turns do-not-disturb off
func (u *User) DisableDND() {
	if !u.dndEnabled {
		return
	}
	u.dndEnabled = false
	u.updatedAt = time.Now()
}

// SetCallForward sets the call forwarding destination
func (u *User) SetCallForward(destination string) error {
	if destination == "" {
		return fmt.Errorf("call forward destination cannot be empty")
	}
	u.callForwardDest = destination
	u.updatedAt = time.Now()
	return nil
}

// ClearCallForward disables call forwarding
func (u *User) ClearCallForward() {
	if u.callForwardDest == "" {
		return
	}
	u.callForwardDest = ""
	u.updatedAt = time.Now()
}

// EnableVoicemail turns voicemail on
func (u *User) EnableVoicemail() {
	if u.voicemailOn {
		return
	}
	u.voicemailOn = true
	u.updatedAt = time.Now()
}

// DisableVoicemail turns voicemail off
func (u *User) DisableVoicemail() {
	if !u.voicemailOn {
		return
	}
	u.voicemailOn = false
	u.updatedAt = time.Now()
}

// Suspend suspends the user
func (u *User) Suspend() error {
	if u.status == StatusDeleted {
		return ErrUserDeleted
	}
	u.status = StatusSuspended
	u.updatedAt = time.Now()
	return nil
}

// Activate activates the user
func (u *User) Activate() error {
	if u.status == StatusDeleted {
		return ErrUserDeleted
	}
	u.status = StatusActive
	u.updatedAt = time.Now()
	return nil
}

// MarkDeleted logically deletes the user. The extension is not returned to
// the pool; pointer allocation never reuses numbers.
func (u *User) MarkDeleted() {
	if u.status == StatusDeleted {
		return
	}
	u.status = StatusDeleted
	u.updatedAt = time.Now()
}

// IsActive checks if the user is active
func (u *User) IsActive() bool {
	return u.status == StatusActive
}
