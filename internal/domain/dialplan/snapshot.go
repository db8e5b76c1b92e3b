// Package dialplan generates Asterisk configuration text, dialplan and PJSIP
// endpoints, from an in-memory snapshot of tenants, users and DID
// assignments. The package is pure: it never touches storage or the
// filesystem, and identical snapshots produce byte-identical output apart
// from the generation timestamp line.
package dialplan

import "github.com/centrex-inc/centrex/internal/domain/did"

// Tenant is the generator's read-model view of a tenant.
type Tenant struct {
	ID     uint
	Name   string
	ExtMin int
	ExtMax int
}

// User is the generator's read-model view of a user.
type User struct {
	ID                     uint
	TenantID               uint
	Name                   string
	Extension              int
	SIPSecret              string
	DNDEnabled             bool
	CallForwardDestination string
	VoicemailEnabled       bool
}

// Assignment is the generator's read-model view of one ASSIGNED DID. For
// USER targets Extension and TenantID locate the destination; for EXTERNAL
// targets Context carries the literal dialplan context.
type Assignment struct {
	Number   string
	Type     did.TargetType
	TargetID uint
	TenantID uint
	// Extension is the destination user's extension, USER targets only.
	Extension int
	// Context is the literal destination context, EXTERNAL targets only.
	Context string
}

// Snapshot is the full generator input.
type Snapshot struct {
	Tenants     []Tenant
	Users       []User
	Assignments []Assignment
}
