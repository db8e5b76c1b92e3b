package apply

import "strings"

// ValidationReport aggregates the database-wide invariant checks run before
// an apply proceeds. Errors block the apply unless overridden; warnings are
// logged and do not block.
type ValidationReport struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// AddError records a blocking violation.
func (r *ValidationReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a non-blocking finding.
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Valid reports whether the apply may proceed without an override.
func (r *ValidationReport) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorSummary joins the blocking violations into one line.
func (r *ValidationReport) ErrorSummary() string {
	return strings.Join(r.Errors, ", ")
}
