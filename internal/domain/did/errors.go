package did

import (
	"errors"
	"fmt"
)

var (
	// ErrPhoneNumberNotFound is returned when a phone number is not found.
	ErrPhoneNumberNotFound = errors.New("phone number not found")

	// ErrAssignmentNotFound is returned when an assignment is not found.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrAlreadyAssigned is returned when a phone number already has an
	// assignment. Surfaced from the 1:1 uniqueness constraint, never as a
	// generic database error.
	ErrAlreadyAssigned = errors.New("phone number is already assigned")

	// ErrCrossTenantAssignment is returned when a USER target belongs to a
	// different tenant than the phone number.
	ErrCrossTenantAssignment = errors.New("user belongs to a different tenant than the phone number")
)

// InvalidStateTransitionError is returned when a lifecycle operation is
// invoked from the wrong state. It names the current and the expected state.
type InvalidStateTransitionError struct {
	Number   string
	Current  Status
	Expected Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("phone number %s is %s, operation requires %s", e.Number, e.Current, e.Expected)
}

// IsInvalidStateTransition checks if the error is a state precondition failure.
func IsInvalidStateTransition(err error) bool {
	var te *InvalidStateTransitionError
	return errors.As(err, &te)
}

// ImportError describes one rejected number in a bulk import.
type ImportError struct {
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// BatchImportError is returned when a bulk import is rejected. The batch is
// all-or-nothing: any invalid or colliding number rejects the whole batch.
type BatchImportError struct {
	Errors []ImportError
}

func (e *BatchImportError) Error() string {
	return fmt.Sprintf("import rejected: %d invalid number(s)", len(e.Errors))
}
