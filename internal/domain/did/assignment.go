package did

import (
	"fmt"
	"time"
)

// TargetType tags the destination variant of an assignment
type TargetType string

const (
	// TargetUser routes the DID to a user's extension
	TargetUser TargetType = "USER"
	// TargetIVR routes the DID to an IVR menu
	TargetIVR TargetType = "IVR"
	// TargetQueue routes the DID to a call queue
	TargetQueue TargetType = "QUEUE"
	// TargetExternal routes the DID to a literal dialplan context
	TargetExternal TargetType = "EXTERNAL"
)

// IsValid checks if the target type is valid
func (t TargetType) IsValid() bool {
	switch t {
	case TargetUser, TargetIVR, TargetQueue, TargetExternal:
		return true
	}
	return false
}

// Target is the tagged destination of an assignment. USER/IVR/QUEUE targets
// carry an entity ID and no context; EXTERNAL targets carry a dialplan
// context string and no ID. Exactly one payload is populated, enforced at
// construction.
type Target struct {
	kind    TargetType
	id      uint
	context string
}

// NewEntityTarget builds a USER, IVR or QUEUE target.
func NewEntityTarget(kind TargetType, id uint) (Target, error) {
	if kind != TargetUser && kind != TargetIVR && kind != TargetQueue {
		return Target{}, fmt.Errorf("target type %s does not take an entity ID", kind)
	}
	if id == 0 {
		return Target{}, fmt.Errorf("%s target requires an entity ID", kind)
	}
	return Target{kind: kind, id: id}, nil
}

// NewExternalTarget builds an EXTERNAL target carrying a dialplan context.
func NewExternalTarget(context string) (Target, error) {
	if context == "" {
		return Target{}, fmt.Errorf("external target requires a dialplan context")
	}
	return Target{kind: TargetExternal, context: context}, nil
}

// Kind returns the target type tag
func (t Target) Kind() TargetType {
	return t.kind
}

// EntityID returns the target entity ID, zero for EXTERNAL targets
func (t Target) EntityID() uint {
	return t.id
}

// Context returns the dialplan context, empty for entity targets
func (t Target) Context() string {
	return t.context
}

// Assignment links a phone number to its destination. At most one assignment
// may exist per phone number.
type Assignment struct {
	id            uint
	phoneNumberID uint
	target        Target
	createdAt     time.Time
}

// NewAssignment creates an assignment for a phone number.
func NewAssignment(phoneNumberID uint, target Target) (*Assignment, error) {
	if phoneNumberID == 0 {
		return nil, fmt.Errorf("phone number ID is required")
	}
	if !target.kind.IsValid() {
		return nil, fmt.Errorf("invalid target type: %s", target.kind)
	}

	return &Assignment{
		phoneNumberID: phoneNumberID,
		target:        target,
		createdAt:     time.Now(),
	}, nil
}

// ReconstructAssignment reconstructs an assignment from persistence. The
// variant invariant is re-checked so a row with mixed payloads is rejected
// instead of silently loaded.
func ReconstructAssignment(
	id uint,
	phoneNumberID uint,
	kind TargetType,
	entityID uint,
	context string,
	createdAt time.Time,
) (*Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if phoneNumberID == 0 {
		return nil, fmt.Errorf("phone number ID is required")
	}

	var target Target
	var err error
	switch kind {
	case TargetExternal:
		if entityID != 0 {
			return nil, fmt.Errorf("external assignment %d carries an entity ID", id)
		}
		target, err = NewExternalTarget(context)
	case TargetUser, TargetIVR, TargetQueue:
		if context != "" {
			return nil, fmt.Errorf("%s assignment %d carries a context string", kind, id)
		}
		target, err = NewEntityTarget(kind, entityID)
	default:
		return nil, fmt.Errorf("invalid target type: %s", kind)
	}
	if err != nil {
		return nil, err
	}

	return &Assignment{
		id:            id,
		phoneNumberID: phoneNumberID,
		target:        target,
		createdAt:     createdAt,
	}, nil
}

// ID returns the assignment ID
func (a *Assignment) ID() uint {
	return a.id
}

// PhoneNumberID returns the assigned phone number's ID
func (a *Assignment) PhoneNumberID() uint {
	return a.phoneNumberID
}

// Target returns the destination
func (a *Assignment) Target() Target {
	return a.target
}

// CreatedAt returns when the assignment was made
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// SetID sets the assignment ID (only for persistence layer use)
func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}
