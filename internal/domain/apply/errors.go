package apply

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when an apply job is not found.
	ErrJobNotFound = errors.New("apply job not found")

	// ErrApplyInProgress is returned when the cluster apply lock is held by
	// another operation.
	ErrApplyInProgress = errors.New("another apply operation is in progress")
)

// InvalidJobTransitionError is returned when a job lifecycle method is
// invoked from the wrong state.
type InvalidJobTransitionError struct {
	JobID     uint
	Current   JobStatus
	Attempted JobStatus
}

func (e *InvalidJobTransitionError) Error() string {
	return fmt.Sprintf("apply job %d is %s, cannot transition to %s", e.JobID, e.Current, e.Attempted)
}

// ValidationError is returned when the pre-apply validator finds invariant
// violations and no override was requested.
type ValidationError struct {
	Report *ValidationReport
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed: %s", e.Report.ErrorSummary())
}
