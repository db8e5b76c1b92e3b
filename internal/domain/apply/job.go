// Package apply provides the domain model for configuration apply jobs.
package apply

import (
	"fmt"
	"time"
)

// JobStatus represents the lifecycle state of an apply job. The lifecycle is
// strict and monotonic: PENDING -> RUNNING -> {SUCCESS | FAILED | ROLLED_BACK},
// no state is ever skipped and terminal jobs are immutable.
type JobStatus string

const (
	// JobStatusPending indicates the job record exists but has not started
	JobStatusPending JobStatus = "PENDING"
	// JobStatusRunning indicates the job holds the apply lock and is working
	JobStatusRunning JobStatus = "RUNNING"
	// JobStatusSuccess indicates the apply completed and the switch reloaded
	JobStatusSuccess JobStatus = "SUCCESS"
	// JobStatusFailed indicates the apply stopped before touching live files,
	// or could not be rolled back
	JobStatusFailed JobStatus = "FAILED"
	// JobStatusRolledBack indicates published files were restored after a
	// reload failure
	JobStatusRolledBack JobStatus = "ROLLED_BACK"
)

// IsValid checks if the job status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusSuccess, JobStatusFailed, JobStatusRolledBack:
		return true
	}
	return false
}

// IsTerminal reports whether the status is final.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailed || s == JobStatusRolledBack
}

// Job represents one apply attempt.
type Job struct {
	id            uint
	actor         string
	tenantID      uint // zero means all tenants
	status        JobStatus
	summary       string
	errorText     string
	configFiles   []string
	backupPath    string
	backupSkipped bool
	startedAt     *time.Time
	finishedAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewJob creates a new apply job in PENDING state. tenantID zero applies
// configuration for every tenant.
func NewJob(actor string, tenantID uint) (*Job, error) {
	if actor == "" {
		return nil, fmt.Errorf("apply job actor is required")
	}

	now := time.Now()
	return &Job{
		actor:     actor,
		tenantID:  tenantID,
		status:    JobStatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructJob reconstructs an apply job from persistence
func ReconstructJob(
	id uint,
	actor string,
	tenantID uint,
	status JobStatus,
	summary, errorText string,
	configFiles []string,
	backupPath string,
	backupSkipped bool,
	startedAt, finishedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Job, error) {
	if id == 0 {
		return nil, fmt.Errorf("apply job ID cannot be zero")
	}
	if actor == "" {
		return nil, fmt.Errorf("apply job actor is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid apply job status: %s", status)
	}

	return &Job{
		id:            id,
		actor:         actor,
		tenantID:      tenantID,
		status:        status,
		summary:       summary,
		errorText:     errorText,
		configFiles:   configFiles,
		backupPath:    backupPath,
		backupSkipped: backupSkipped,
		startedAt:     startedAt,
		finishedAt:    finishedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ID returns the job ID
func (j *Job) ID() uint {
	return j.id
}

// Actor returns who triggered the apply
func (j *Job) Actor() string {
	return j.actor
}

// TenantID returns the tenant scope, zero for all tenants
func (j *Job) TenantID() uint {
	return j.tenantID
}

// Status returns the job status
func (j *Job) Status() JobStatus {
	return j.status
}

// Summary returns the human-readable diff summary
func (j *Job) Summary() string {
	return j.summary
}

// ErrorText returns the failure diagnostic, empty on success
func (j *Job) ErrorText() string {
	return j.errorText
}

// ConfigFiles returns the files this apply touched
func (j *Job) ConfigFiles() []string {
	return j.configFiles
}

// BackupPath returns the backup directory used for this run
func (j *Job) BackupPath() string {
	return j.backupPath
}

// BackupSkipped reports whether the run proceeded without a usable backup,
// meaning rollback was unavailable.
func (j *Job) BackupSkipped() bool {
	return j.backupSkipped
}

// StartedAt returns when the job entered RUNNING
func (j *Job) StartedAt() *time.Time {
	return j.startedAt
}

// FinishedAt returns when the job reached a terminal state
func (j *Job) FinishedAt() *time.Time {
	return j.finishedAt
}

// CreatedAt returns when the job record was created
func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

// UpdatedAt returns when the job was last updated
func (j *Job) UpdatedAt() time.Time {
	return j.updatedAt
}

// SetID sets the job ID (only for persistence layer use)
func (j *Job) SetID(id uint) error {
	if j.id != 0 {
		return fmt.Errorf("apply job ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("apply job ID cannot be zero")
	}
	j.id = id
	return nil
}

// Start moves the job PENDING -> RUNNING.
func (j *Job) Start() error {
	if j.status != JobStatusPending {
		return j.transitionError(JobStatusRunning)
	}

	now := time.Now()
	j.status = JobStatusRunning
	j.startedAt = &now
	j.updatedAt = now
	return nil
}

// Succeed moves the job RUNNING -> SUCCESS with a diff summary.
func (j *Job) Succeed(summary string) error {
	if j.status != JobStatusRunning {
		return j.transitionError(JobStatusSuccess)
	}

	now := time.Now()
	j.status = JobStatusSuccess
	j.summary = summary
	j.finishedAt = &now
	j.updatedAt = now
	return nil
}

// Fail marks the job FAILED. Allowed from PENDING (lock conflict, validation)
// and RUNNING, never from a terminal state.
func (j *Job) Fail(errorText string) error {
	if j.status.IsTerminal() {
		return j.transitionError(JobStatusFailed)
	}

	now := time.Now()
	j.status = JobStatusFailed
	j.errorText = errorText
	j.finishedAt = &now
	j.updatedAt = now
	return nil
}

// RollBack moves the job RUNNING -> ROLLED_BACK after published files were
// restored from backup.
func (j *Job) RollBack(errorText string) error {
	if j.status != JobStatusRunning {
		return j.transitionError(JobStatusRolledBack)
	}
	if errorText == "" {
		return fmt.Errorf("rolled back job requires a non-empty error text")
	}

	now := time.Now()
	j.status = JobStatusRolledBack
	j.errorText = errorText
	j.finishedAt = &now
	j.updatedAt = now
	return nil
}

// RecordFiles records the files the apply touched, for rollback bookkeeping.
func (j *Job) RecordFiles(files []string, backupPath string) {
	j.configFiles = files
	j.backupPath = backupPath
	j.updatedAt = time.Now()
}

// MarkBackupSkipped flags that no usable backup exists for this run.
func (j *Job) MarkBackupSkipped() {
	j.backupSkipped = true
	j.updatedAt = time.Now()
}

// IsTerminal reports whether the job reached a final state.
func (j *Job) IsTerminal() bool {
	return j.status.IsTerminal()
}

// Duration returns how long the job ran. Zero until the job has both
// started and finished.
func (j *Job) Duration() time.Duration {
	if j.startedAt == nil || j.finishedAt == nil {
		return 0
	}
	return j.finishedAt.Sub(*j.startedAt)
}

func (j *Job) transitionError(attempted JobStatus) error {
	return &InvalidJobTransitionError{
		JobID:     j.id,
		Current:   j.status,
		Attempted: attempted,
	}
}
