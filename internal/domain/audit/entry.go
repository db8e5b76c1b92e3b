// Package audit provides the append-only audit log domain model.
package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action identifies what kind of mutation an entry records
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionApply  Action = "apply"
)

// Entry is one immutable audit record. Entries are only ever appended; there
// is no update or delete path.
type Entry struct {
	id         uint
	actor      string
	action     Action
	entityType string
	entityID   uint
	before     json.RawMessage
	after      json.RawMessage
	sourceIP   string
	userAgent  string
	createdAt  time.Time
}

// NewEntry creates an audit entry. Before and after hold JSON snapshots of
// the entity around the mutation; either may be nil (create has no before,
// delete has no after).
func NewEntry(actor string, action Action, entityType string, entityID uint, before, after json.RawMessage) (*Entry, error) {
	if actor == "" {
		return nil, fmt.Errorf("audit actor is required")
	}
	if action == "" {
		return nil, fmt.Errorf("audit action is required")
	}
	if entityType == "" {
		return nil, fmt.Errorf("audit entity type is required")
	}

	return &Entry{
		actor:      actor,
		action:     action,
		entityType: entityType,
		entityID:   entityID,
		before:     before,
		after:      after,
		createdAt:  time.Now(),
	}, nil
}

// ReconstructEntry reconstructs an audit entry from persistence
func ReconstructEntry(
	id uint,
	actor string,
	action Action,
	entityType string,
	entityID uint,
	before, after json.RawMessage,
	sourceIP, userAgent string,
	createdAt time.Time,
) (*Entry, error) {
	if id == 0 {
		return nil, fmt.Errorf("audit entry ID cannot be zero")
	}

	return &Entry{
		id:         id,
		actor:      actor,
		action:     action,
		entityType: entityType,
		entityID:   entityID,
		before:     before,
		after:      after,
		sourceIP:   sourceIP,
		userAgent:  userAgent,
		createdAt:  createdAt,
	}, nil
}

// SetProvenance records where the request came from.
func (e *Entry) SetProvenance(sourceIP, userAgent string) {
	e.sourceIP = sourceIP
	e.userAgent = userAgent
}

// ID returns the entry ID
func (e *Entry) ID() uint { return e.id }

// Actor returns who performed the action
func (e *Entry) Actor() string { return e.actor }

// Action returns the mutation kind
func (e *Entry) Action() Action { return e.action }

// EntityType returns the mutated entity's type name
func (e *Entry) EntityType() string { return e.entityType }

// EntityID returns the mutated entity's ID
func (e *Entry) EntityID() uint { return e.entityID }

// Before returns the pre-mutation snapshot, nil for creates
func (e *Entry) Before() json.RawMessage { return e.before }

// After returns the post-mutation snapshot, nil for deletes
func (e *Entry) After() json.RawMessage { return e.after }

// SourceIP returns the request source address
func (e *Entry) SourceIP() string { return e.sourceIP }

// UserAgent returns the request user agent
func (e *Entry) UserAgent() string { return e.userAgent }

// CreatedAt returns when the entry was recorded
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// SetID sets the entry ID (only for persistence layer use)
func (e *Entry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("audit entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("audit entry ID cannot be zero")
	}
	e.id = id
	return nil
}
