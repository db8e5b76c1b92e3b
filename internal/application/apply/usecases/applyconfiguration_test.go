package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/application/testutil"
	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/domain/dialplan"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
)

// fakeClusterLock is an in-process stand-in for the MySQL advisory lock.
type fakeClusterLock struct {
	acquireResult bool
	acquireErr    error
	releaseErr    error
	acquires      int
	releases      int
}

func (l *fakeClusterLock) TryAcquire(ctx context.Context) (bool, error) {
	l.acquires++
	return l.acquireResult, l.acquireErr
}

func (l *fakeClusterLock) Release(ctx context.Context) error {
	l.releases++
	return l.releaseErr
}

// fakeConfigWriter records published files and can fail a specific path.
type fakeConfigWriter struct {
	files    map[string][]byte
	failPath string
}

func newFakeConfigWriter() *fakeConfigWriter {
	return &fakeConfigWriter{files: make(map[string][]byte)}
}

func (w *fakeConfigWriter) Write(path string, content []byte) error {
	if w.failPath != "" && path == w.failPath {
		return fmt.Errorf("write %s: disk full", path)
	}
	w.files[path] = content
	return nil
}

// fakeBackupStore records backup and restore calls.
type fakeBackupStore struct {
	backupDir  string
	backupErr  error
	restoreErr error
	backups    int
	restores   int
}

func (s *fakeBackupStore) Backup(paths []string) (string, error) {
	s.backups++
	if s.backupErr != nil {
		return "", s.backupErr
	}
	return s.backupDir, nil
}

func (s *fakeBackupStore) Restore(backupDir string, paths []string) error {
	s.restores++
	return s.restoreErr
}

// fakeReloader returns scripted results per target and records call order.
// Setting panicTarget makes the reload of that target panic, standing in
// for an unexpected fault inside the switch client.
type fakeReloader struct {
	results     map[string]ReloadResult
	calls       []string
	panicTarget string
}

func newFakeReloader() *fakeReloader {
	return &fakeReloader{results: make(map[string]ReloadResult)}
}

func (r *fakeReloader) Reload(ctx context.Context, target string) ReloadResult {
	r.calls = append(r.calls, target)
	if r.panicTarget != "" && target == r.panicTarget {
		panic("ami connection state corrupted")
	}
	if res, ok := r.results[target]; ok {
		return res
	}
	return ReloadResult{Target: target, Success: true}
}

type applyFixture struct {
	jobRepo        *testutil.MockJobRepository
	tenantRepo     *testutil.MockTenantRepository
	userRepo       *testutil.MockUserRepository
	phoneRepo      *testutil.MockPhoneNumberRepository
	assignmentRepo *testutil.MockAssignmentRepository
	auditRepo      *testutil.MockAuditRepository
	lock           *fakeClusterLock
	writer         *fakeConfigWriter
	backups        *fakeBackupStore
	reloader       *fakeReloader
	uc             *ApplyConfigurationUseCase
}

const (
	testDialplanPath = "/etc/asterisk/extensions_centrex.conf"
	testEndpointPath = "/etc/asterisk/pjsip_centrex.conf"
)

func newApplyFixture(t *testing.T) *applyFixture {
	t.Helper()

	f := &applyFixture{
		jobRepo:        testutil.NewMockJobRepository(),
		tenantRepo:     testutil.NewMockTenantRepository(),
		userRepo:       testutil.NewMockUserRepository(),
		phoneRepo:      testutil.NewMockPhoneNumberRepository(),
		assignmentRepo: testutil.NewMockAssignmentRepository(),
		auditRepo:      testutil.NewMockAuditRepository(),
		lock:           &fakeClusterLock{acquireResult: true},
		writer:         newFakeConfigWriter(),
		backups:        &fakeBackupStore{backupDir: "/var/backups/centrex/20260115-120000"},
		reloader:       newFakeReloader(),
	}

	logger := testutil.DiscardLogger()
	f.uc = NewApplyConfigurationUseCase(
		f.jobRepo,
		f.tenantRepo,
		f.userRepo,
		f.phoneRepo,
		f.assignmentRepo,
		f.lock,
		f.writer,
		f.backups,
		f.reloader,
		dialplan.NewGenerator(),
		dialplan.NewEndpointsGenerator(),
		testDialplanPath,
		testEndpointPath,
		appaudit.NewRecorder(f.auditRepo, logger),
		logger,
	)
	return f
}

func (f *applyFixture) seedTenantWithUser(t *testing.T) (*tenant.Tenant, *user.User) {
	t.Helper()
	ctx := context.Background()

	tn, err := tenant.NewTenant("acme", 100, 199)
	if err != nil {
		t.Fatalf("NewTenant() error = %v", err)
	}
	if err := f.tenantRepo.Create(ctx, tn); err != nil {
		t.Fatalf("tenantRepo.Create() error = %v", err)
	}

	u, err := user.NewUser(tn.ID(), "Alice", "alice@acme.example", 100)
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	if err := f.userRepo.Create(ctx, u); err != nil {
		t.Fatalf("userRepo.Create() error = %v", err)
	}
	return tn, u
}

func applyCommand() ApplyConfigurationCommand {
	return ApplyConfigurationCommand{Meta: appaudit.Meta{Actor: "admin@example.com"}}
}

// TestApplyConfiguration_Success verifies the full pipeline: both files are
// published, both targets reloaded, the job ends SUCCESS with the backup
// path and file list recorded, and the lock is released.
func TestApplyConfiguration_Success(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Status != string(apply.JobStatusSuccess) {
		t.Errorf("result.Status = %v, want SUCCESS", result.Status)
	}

	if _, ok := f.writer.files[testDialplanPath]; !ok {
		t.Error("dialplan file was not published")
	}
	if _, ok := f.writer.files[testEndpointPath]; !ok {
		t.Error("endpoints file was not published")
	}
	if len(f.reloader.calls) != 2 {
		t.Errorf("reload calls = %v, want [routing endpoints]", f.reloader.calls)
	}
	if f.lock.releases != 1 {
		t.Errorf("lock releases = %d, want 1", f.lock.releases)
	}

	job, _ := f.jobRepo.GetByID(context.Background(), result.ID)
	if job.BackupPath() != f.backups.backupDir {
		t.Errorf("job.BackupPath() = %v, want %v", job.BackupPath(), f.backups.backupDir)
	}
	if len(job.ConfigFiles()) != 2 {
		t.Errorf("job.ConfigFiles() = %v, want both config files", job.ConfigFiles())
	}
}

// TestApplyConfiguration_LockHeld verifies a concurrent apply fails the job
// without touching any file.
func TestApplyConfiguration_LockHeld(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)
	f.lock.acquireResult = false

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if !errors.Is(err, apply.ErrApplyInProgress) {
		t.Fatalf("Execute() error = %v, want ErrApplyInProgress", err)
	}
	if result.Status != string(apply.JobStatusFailed) {
		t.Errorf("result.Status = %v, want FAILED", result.Status)
	}
	if len(f.writer.files) != 0 {
		t.Errorf("no files should be written, got %v", f.writer.files)
	}
	// The lock was never acquired, so it must not be released either.
	if f.lock.releases != 0 {
		t.Errorf("lock releases = %d, want 0", f.lock.releases)
	}
}

// TestApplyConfiguration_ValidationBlocks verifies that a duplicate extension
// fails the apply before publishing, and that Force overrides it.
func TestApplyConfiguration_ValidationBlocks(t *testing.T) {
	f := newApplyFixture(t)
	tn, _ := f.seedTenantWithUser(t)

	dup, err := user.NewUser(tn.ID(), "Bob", "bob@acme.example", 100)
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	if err := f.userRepo.Create(context.Background(), dup); err != nil {
		t.Fatalf("userRepo.Create() error = %v", err)
	}

	_, err = f.uc.Execute(context.Background(), applyCommand())
	var validationErr *apply.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Execute() error = %v, want *apply.ValidationError", err)
	}
	if len(f.writer.files) != 0 {
		t.Error("no files should be written on validation failure")
	}

	cmd := applyCommand()
	cmd.Force = true
	result, err := f.uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute() with Force unexpected error = %v", err)
	}
	if result.Status != string(apply.JobStatusSuccess) {
		t.Errorf("forced apply result.Status = %v, want SUCCESS", result.Status)
	}
}

// TestApplyConfiguration_BackupFailureIsNonFatal verifies the apply proceeds
// when the backup fails, with the job flagged.
func TestApplyConfiguration_BackupFailureIsNonFatal(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)
	f.backups.backupErr = errors.New("backup volume unavailable")

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Status != string(apply.JobStatusSuccess) {
		t.Errorf("result.Status = %v, want SUCCESS", result.Status)
	}

	job, _ := f.jobRepo.GetByID(context.Background(), result.ID)
	if !job.BackupSkipped() {
		t.Error("job.BackupSkipped() = false, want true")
	}
}

// TestApplyConfiguration_ReloadFailureRollsBack verifies that a failed reload
// restores the backup and marks the job ROLLED_BACK.
func TestApplyConfiguration_ReloadFailureRollsBack(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)
	f.reloader.results[ReloadTargetEndpoints] = ReloadResult{
		Target:     ReloadTargetEndpoints,
		Success:    false,
		Kind:       "rejected",
		Diagnostic: "Module could not be reloaded",
	}

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err == nil {
		t.Fatal("Execute() expected error on reload failure")
	}
	if result.Status != string(apply.JobStatusRolledBack) {
		t.Errorf("result.Status = %v, want ROLLED_BACK", result.Status)
	}
	if f.backups.restores != 1 {
		t.Errorf("restore calls = %d, want 1", f.backups.restores)
	}
	if f.lock.releases != 1 {
		t.Errorf("lock releases = %d, want 1", f.lock.releases)
	}

	job, _ := f.jobRepo.GetByID(context.Background(), result.ID)
	if !strings.Contains(job.ErrorText(), "endpoints reload failed") {
		t.Errorf("job.ErrorText() = %q, want endpoints reload diagnostic", job.ErrorText())
	}
	// The rolled-back record still says which files were in play and
	// which backup covered them.
	if len(job.ConfigFiles()) != 2 {
		t.Errorf("job.ConfigFiles() = %v, want both config paths", job.ConfigFiles())
	}
	if job.BackupPath() != f.backups.backupDir {
		t.Errorf("job.BackupPath() = %q, want %q", job.BackupPath(), f.backups.backupDir)
	}
}

// TestApplyConfiguration_ReloadFailureWithoutBackupFails verifies that when
// the backup was skipped a reload failure cannot roll back, so the job ends
// FAILED with a manual-intervention diagnostic.
func TestApplyConfiguration_ReloadFailureWithoutBackupFails(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)
	f.backups.backupErr = errors.New("backup volume unavailable")
	f.reloader.results[ReloadTargetRouting] = ReloadResult{
		Target:     ReloadTargetRouting,
		Success:    false,
		Kind:       "timeout",
		Diagnostic: "no response within 30s",
	}

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err == nil {
		t.Fatal("Execute() expected error on reload failure")
	}
	if result.Status != string(apply.JobStatusFailed) {
		t.Errorf("result.Status = %v, want FAILED", result.Status)
	}
	if f.backups.restores != 0 {
		t.Errorf("restore calls = %d, want 0", f.backups.restores)
	}

	job, _ := f.jobRepo.GetByID(context.Background(), result.ID)
	if !strings.Contains(job.ErrorText(), "manual intervention") {
		t.Errorf("job.ErrorText() = %q, want manual intervention note", job.ErrorText())
	}
	if len(job.ConfigFiles()) != 2 {
		t.Errorf("job.ConfigFiles() = %v, want both config paths", job.ConfigFiles())
	}
	if job.BackupPath() != "" {
		t.Errorf("job.BackupPath() = %q, want empty when backup was skipped", job.BackupPath())
	}
}

// TestApplyConfiguration_SecondWriteFailureRollsBack verifies that a failure
// publishing the endpoints file after the dialplan was replaced restores the
// backup.
func TestApplyConfiguration_SecondWriteFailureRollsBack(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)
	f.writer.failPath = testEndpointPath

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err == nil {
		t.Fatal("Execute() expected error on write failure")
	}
	if result.Status != string(apply.JobStatusRolledBack) {
		t.Errorf("result.Status = %v, want ROLLED_BACK", result.Status)
	}
	if f.backups.restores != 1 {
		t.Errorf("restore calls = %d, want 1", f.backups.restores)
	}
}

// TestApplyConfiguration_PanicFailsJob verifies that an unexpected fault in
// the pipeline never strands the job in RUNNING: it ends FAILED with the
// fault captured, the backup is restored since files were already replaced,
// and the lock is released.
func TestApplyConfiguration_PanicFailsJob(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)
	f.reloader.panicTarget = ReloadTargetEndpoints

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err == nil {
		t.Fatal("Execute() expected error after pipeline fault")
	}
	if result == nil {
		t.Fatal("Execute() result = nil, want failed job result")
	}
	if result.Status != string(apply.JobStatusFailed) {
		t.Errorf("result.Status = %v, want FAILED", result.Status)
	}
	if f.backups.restores != 1 {
		t.Errorf("restore calls = %d, want 1", f.backups.restores)
	}
	if f.lock.releases != 1 {
		t.Errorf("lock releases = %d, want 1", f.lock.releases)
	}

	job, _ := f.jobRepo.GetByID(context.Background(), result.ID)
	if !strings.Contains(job.ErrorText(), "internal error") {
		t.Errorf("job.ErrorText() = %q, want captured internal error", job.ErrorText())
	}
	if job.FinishedAt() == nil {
		t.Error("job.FinishedAt() = nil, want terminal timestamp")
	}
}

// TestApplyConfiguration_SuspendedUsersExcluded verifies that suspended users
// keep their rows but emit no configuration.
func TestApplyConfiguration_SuspendedUsersExcluded(t *testing.T) {
	f := newApplyFixture(t)
	_, u := f.seedTenantWithUser(t)
	if err := u.Suspend(); err != nil {
		t.Fatalf("Suspend() error = %v", err)
	}

	result, err := f.uc.Execute(context.Background(), applyCommand())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Status != string(apply.JobStatusSuccess) {
		t.Errorf("result.Status = %v, want SUCCESS", result.Status)
	}
	if strings.Contains(string(f.writer.files[testEndpointPath]), u.SIPSecret()) {
		t.Error("suspended user must not appear in the endpoints file")
	}
}

// TestApplyConfiguration_UnknownTenant verifies scoping to a missing tenant
// is rejected before a job record is created.
func TestApplyConfiguration_UnknownTenant(t *testing.T) {
	f := newApplyFixture(t)

	cmd := applyCommand()
	cmd.TenantID = 42
	_, err := f.uc.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("Execute() expected error for unknown tenant")
	}
	if _, total, _ := f.jobRepo.List(context.Background(), apply.JobListFilter{}); total != 0 {
		t.Errorf("job records = %d, want 0", total)
	}
}

// TestApplyConfiguration_AuditRecorded verifies a successful apply appends an
// audit entry for the job.
func TestApplyConfiguration_AuditRecorded(t *testing.T) {
	f := newApplyFixture(t)
	f.seedTenantWithUser(t)

	if _, err := f.uc.Execute(context.Background(), applyCommand()); err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}

	entries := f.auditRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].EntityType() != "apply_job" {
		t.Errorf("entry.EntityType() = %v, want apply_job", entries[0].EntityType())
	}
	if entries[0].Actor() != "admin@example.com" {
		t.Errorf("entry.Actor() = %v, want admin@example.com", entries[0].Actor())
	}
}
