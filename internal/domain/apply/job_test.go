package apply

import (
	"errors"
	"testing"
)

func newRunningJob(t *testing.T) *Job {
	t.Helper()
	j, err := NewJob("admin@example.com", 0)
	if err != nil {
		t.Fatalf("NewJob() unexpected error = %v", err)
	}
	if err := j.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	return j
}

// TestJobLifecycle_Success walks PENDING -> RUNNING -> SUCCESS.
func TestJobLifecycle_Success(t *testing.T) {
	j, err := NewJob("admin@example.com", 3)
	if err != nil {
		t.Fatalf("NewJob() unexpected error = %v", err)
	}
	if j.Status() != JobStatusPending {
		t.Fatalf("new job status = %v, want %v", j.Status(), JobStatusPending)
	}
	if j.TenantID() != 3 {
		t.Errorf("TenantID() = %d, want 3", j.TenantID())
	}

	if err := j.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	if j.StartedAt() == nil {
		t.Error("Start() did not set startedAt")
	}

	if err := j.Succeed("Applied 4 users across 2 tenant(s)"); err != nil {
		t.Fatalf("Succeed() unexpected error = %v", err)
	}
	if j.Status() != JobStatusSuccess {
		t.Errorf("status = %v, want %v", j.Status(), JobStatusSuccess)
	}
	if !j.IsTerminal() {
		t.Error("IsTerminal() = false for SUCCESS")
	}
	if j.FinishedAt() == nil {
		t.Error("Succeed() did not set finishedAt")
	}
}

// TestJobLifecycle_RolledBack verifies rollback requires RUNNING and a
// non-empty diagnostic.
func TestJobLifecycle_RolledBack(t *testing.T) {
	j := newRunningJob(t)

	if err := j.RollBack(""); err == nil {
		t.Error("RollBack(\"\") expected error, diagnostic is required")
	}

	if err := j.RollBack("asterisk reload failed: timeout after 30s"); err != nil {
		t.Fatalf("RollBack() unexpected error = %v", err)
	}
	if j.Status() != JobStatusRolledBack {
		t.Errorf("status = %v, want %v", j.Status(), JobStatusRolledBack)
	}
	if j.ErrorText() == "" {
		t.Error("RollBack() left errorText empty")
	}
}

// TestJobLifecycle_NoSkipping verifies states cannot be skipped and terminal
// jobs are immutable.
func TestJobLifecycle_NoSkipping(t *testing.T) {
	j, err := NewJob("admin@example.com", 0)
	if err != nil {
		t.Fatalf("NewJob() unexpected error = %v", err)
	}

	// PENDING cannot jump straight to SUCCESS or ROLLED_BACK.
	if err := j.Succeed("x"); err == nil {
		t.Error("Succeed() from PENDING expected error")
	}
	if err := j.RollBack("x"); err == nil {
		t.Error("RollBack() from PENDING expected error")
	}

	// Fail from PENDING is legal: lock conflicts and validation failures end
	// the job before it runs.
	if err := j.Fail("another apply operation is in progress"); err != nil {
		t.Fatalf("Fail() from PENDING unexpected error = %v", err)
	}

	// Terminal jobs reject every further transition.
	var te *InvalidJobTransitionError
	if err := j.Start(); !errors.As(err, &te) {
		t.Errorf("Start() on FAILED job error = %v, want InvalidJobTransitionError", err)
	}
	if err := j.Fail("again"); err == nil {
		t.Error("Fail() on FAILED job expected error")
	}
	if err := j.Succeed("x"); err == nil {
		t.Error("Succeed() on FAILED job expected error")
	}
}

// TestJobBackupFlags verifies file and backup bookkeeping.
func TestJobBackupFlags(t *testing.T) {
	j := newRunningJob(t)

	j.RecordFiles([]string{"/etc/asterisk/extensions_custom.conf"}, "/var/backups/centrex/20260829T120000")
	j.MarkBackupSkipped()

	if len(j.ConfigFiles()) != 1 {
		t.Errorf("ConfigFiles() = %v", j.ConfigFiles())
	}
	if !j.BackupSkipped() {
		t.Error("BackupSkipped() = false after MarkBackupSkipped")
	}
}

// TestValidationReport verifies the valid/summary behavior.
func TestValidationReport(t *testing.T) {
	r := &ValidationReport{}
	if !r.Valid() {
		t.Error("empty report should be valid")
	}

	r.AddWarning("tenant 4 has no users")
	if !r.Valid() {
		t.Error("warnings must not block the apply")
	}

	r.AddError("duplicate email bob@example.com")
	r.AddError("duplicate extension 1003 in tenant 2")
	if r.Valid() {
		t.Error("errors must block the apply")
	}
	if r.ErrorSummary() != "duplicate email bob@example.com, duplicate extension 1003 in tenant 2" {
		t.Errorf("ErrorSummary() = %q", r.ErrorSummary())
	}
}
