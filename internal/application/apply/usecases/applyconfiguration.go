package usecases

import (
	"context"
	"fmt"
	"strings"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/dialplan"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ApplyConfigurationCommand represents the input for an apply run.
// TenantID is bookkeeping scope for the job record; the generated files
// always cover every tenant, since both files are whole-switch documents.
type ApplyConfigurationCommand struct {
	TenantID uint
	Force    bool
	Meta     appaudit.Meta
}

// ApplyConfigurationUseCase is the apply engine: it pushes the current
// database state onto the switch as a unit. The pipeline is lock,
// validate, back up, generate, publish, reload; any failure after
// publishing restores the backup. Exactly one apply runs at a time
// cluster-wide.
type ApplyConfigurationUseCase struct {
	jobRepo        apply.JobRepository
	tenantRepo     tenant.Repository
	userRepo       user.Repository
	phoneRepo      did.PhoneNumberRepository
	assignmentRepo did.AssignmentRepository

	lock     ClusterLock
	writer   ConfigWriter
	backups  BackupStore
	reloader SwitchReloader

	generator    *dialplan.Generator
	endpointsGen *dialplan.EndpointsGenerator

	dialplanPath string
	endpointPath string

	recorder *appaudit.Recorder
	logger   logger.Interface
}

// NewApplyConfigurationUseCase creates a new ApplyConfigurationUseCase.
func NewApplyConfigurationUseCase(
	jobRepo apply.JobRepository,
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	phoneRepo did.PhoneNumberRepository,
	assignmentRepo did.AssignmentRepository,
	lock ClusterLock,
	writer ConfigWriter,
	backups BackupStore,
	reloader SwitchReloader,
	generator *dialplan.Generator,
	endpointsGen *dialplan.EndpointsGenerator,
	dialplanPath string,
	endpointPath string,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *ApplyConfigurationUseCase {
	return &ApplyConfigurationUseCase{
		jobRepo:        jobRepo,
		tenantRepo:     tenantRepo,
		userRepo:       userRepo,
		phoneRepo:      phoneRepo,
		assignmentRepo: assignmentRepo,
		lock:           lock,
		writer:         writer,
		backups:        backups,
		reloader:       reloader,
		generator:      generator,
		endpointsGen:   endpointsGen,
		dialplanPath:   dialplanPath,
		endpointPath:   endpointPath,
		recorder:       recorder,
		logger:         logger,
	}
}

// Execute runs the apply pipeline. The returned JobResult reflects the
// job's terminal state; on failure the error carries the reason and the
// job record carries the diagnostics.
func (uc *ApplyConfigurationUseCase) Execute(ctx context.Context, cmd ApplyConfigurationCommand) (result *JobResult, err error) {
	uc.logger.Infow("executing apply configuration use case",
		"actor", cmd.Meta.Actor, "tenant_id", cmd.TenantID, "force", cmd.Force)

	if cmd.TenantID != 0 {
		tn, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get tenant: %w", err)
		}
		if tn == nil {
			return nil, errors.NewNotFoundError("tenant not found")
		}
	}

	job, err := apply.NewJob(cmd.Meta.Actor, cmd.TenantID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.jobRepo.Create(ctx, job); err != nil {
		uc.logger.Errorw("failed to create apply job", "error", err)
		return nil, fmt.Errorf("failed to create apply job: %w", err)
	}

	// A panic anywhere in the pipeline must not leave the job RUNNING
	// forever. Mark it FAILED with the panic message, restore the backup
	// when files were already replaced, and hand back an internal error.
	var (
		paths      []string
		backupPath string
		published  bool
	)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		diag := fmt.Sprintf("internal error: %v", r)
		uc.logger.Errorw("apply pipeline panicked", "job_id", job.ID(), "panic", r)
		if published && backupPath != "" {
			if rerr := uc.backups.Restore(backupPath, paths); rerr != nil {
				uc.logger.Errorw("restore after panic failed", "job_id", job.ID(), "error", rerr)
				diag = fmt.Sprintf("%s; restore also failed: %v", diag, rerr)
			}
		}
		if !job.IsTerminal() {
			if ferr := job.Fail(diag); ferr != nil {
				uc.logger.Errorw("failed to mark job failed", "job_id", job.ID(), "error", ferr)
			}
			if uerr := uc.jobRepo.Update(ctx, job); uerr != nil {
				uc.logger.Errorw("failed to persist failed job", "job_id", job.ID(), "error", uerr)
			}
			uc.recordOutcome(ctx, job)
		}
		result = newJobResult(job)
		err = fmt.Errorf("apply pipeline panicked: %v", r)
	}()

	acquired, err := uc.lock.TryAcquire(ctx)
	if err != nil {
		return uc.failJob(ctx, job, fmt.Sprintf("failed to acquire apply lock: %v", err), err)
	}
	if !acquired {
		uc.logger.Warnw("apply lock held by another instance", "job_id", job.ID())
		return uc.failJob(ctx, job, "another apply operation is in progress", apply.ErrApplyInProgress)
	}
	// Released on every path once held, including panics in the pipeline.
	defer func() {
		if err := uc.lock.Release(ctx); err != nil {
			uc.logger.Errorw("failed to release apply lock", "job_id", job.ID(), "error", err)
		}
	}()

	if err := job.Start(); err != nil {
		return nil, err
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update apply job: %w", err)
	}

	tenants, err := uc.tenantRepo.ListAll(ctx)
	if err != nil {
		return uc.failJob(ctx, job, fmt.Sprintf("failed to list tenants: %v", err), err)
	}
	users, err := uc.userRepo.ListAll(ctx)
	if err != nil {
		return uc.failJob(ctx, job, fmt.Sprintf("failed to list users: %v", err), err)
	}

	report := buildValidationReport(tenants, users)
	for _, warning := range report.Warnings {
		uc.logger.Warnw("validation warning", "job_id", job.ID(), "warning", warning)
	}
	if !report.Valid() && !cmd.Force {
		uc.logger.Warnw("validation failed", "job_id", job.ID(), "errors", len(report.Errors))
		result, _ = uc.failJob(ctx, job, report.ErrorSummary(), nil)
		return result, &apply.ValidationError{Report: report}
	}

	snap, err := uc.loadSnapshot(ctx, tenants, users)
	if err != nil {
		return uc.failJob(ctx, job, fmt.Sprintf("failed to load configuration snapshot: %v", err), err)
	}

	paths = []string{uc.dialplanPath, uc.endpointPath}

	backupPath, err = uc.backups.Backup(paths)
	if err != nil {
		// A missing backup never blocks the apply, but the job is flagged
		// so the operator knows rollback is off the table for this run.
		uc.logger.Warnw("backup failed, continuing without rollback cover",
			"job_id", job.ID(), "error", err)
		job.MarkBackupSkipped()
	}

	// Recorded before the first write so failed and rolled-back jobs
	// still report which files were in play and where the backup lives.
	job.RecordFiles(paths, backupPath)

	dialplanText := uc.generator.Generate(snap)
	endpointsText := uc.endpointsGen.Generate(snap)

	if err := uc.writer.Write(uc.dialplanPath, []byte(dialplanText)); err != nil {
		return uc.failJob(ctx, job, fmt.Sprintf("failed to publish dialplan: %v", err), err)
	}
	published = true
	if err := uc.writer.Write(uc.endpointPath, []byte(endpointsText)); err != nil {
		return uc.rollBackJob(ctx, job, backupPath, paths,
			fmt.Sprintf("failed to publish endpoints: %v", err), err)
	}

	var reloadFailures []string
	for _, target := range []string{ReloadTargetRouting, ReloadTargetEndpoints} {
		res := uc.reloader.Reload(ctx, target)
		if !res.Success {
			reloadFailures = append(reloadFailures,
				fmt.Sprintf("%s reload failed (%s): %s", res.Target, res.Kind, res.Diagnostic))
		}
	}
	if len(reloadFailures) > 0 {
		diag := strings.Join(reloadFailures, "; ")
		return uc.rollBackJob(ctx, job, backupPath, paths, diag,
			fmt.Errorf("switch reload failed: %s", diag))
	}

	summary := fmt.Sprintf("Applied %d users across %d tenant(s)", len(snap.Users), len(snap.Tenants))
	if err := job.Succeed(summary); err != nil {
		return nil, err
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update apply job: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionApply, "apply_job", job.ID(), nil, map[string]any{
		"status":  string(job.Status()),
		"summary": summary,
	})

	uc.logger.Infow("apply completed", "job_id", job.ID(), "summary", summary)
	return newJobResult(job), nil
}

// failJob moves the job to FAILED before any file was replaced.
func (uc *ApplyConfigurationUseCase) failJob(ctx context.Context, job *apply.Job, diagnostic string, cause error) (*JobResult, error) {
	if err := job.Fail(diagnostic); err != nil {
		uc.logger.Errorw("failed to mark job failed", "job_id", job.ID(), "error", err)
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		uc.logger.Errorw("failed to persist failed job", "job_id", job.ID(), "error", err)
	}
	uc.recordOutcome(ctx, job)
	return newJobResult(job), cause
}

// rollBackJob restores the previous configuration after a partial publish
// or a reload failure, then moves the job to ROLLED_BACK. Without a backup
// there is nothing to restore, so the job fails instead, with the
// diagnostic noting the switch may hold a half-applied configuration.
func (uc *ApplyConfigurationUseCase) rollBackJob(ctx context.Context, job *apply.Job, backupPath string, paths []string, diagnostic string, cause error) (*JobResult, error) {
	if backupPath == "" {
		return uc.failJob(ctx, job, diagnostic+" (no backup available, manual intervention required)", cause)
	}

	if err := uc.backups.Restore(backupPath, paths); err != nil {
		uc.logger.Errorw("restore failed during rollback", "job_id", job.ID(), "error", err)
		return uc.failJob(ctx, job, fmt.Sprintf("%s; restore also failed: %v", diagnostic, err), cause)
	}

	// Reload the restored configuration so the switch goes back to the
	// pre-apply state. Best effort: the rollback outcome is already decided.
	for _, target := range []string{ReloadTargetRouting, ReloadTargetEndpoints} {
		if res := uc.reloader.Reload(ctx, target); !res.Success {
			uc.logger.Errorw("reload of restored configuration failed",
				"job_id", job.ID(), "target", res.Target, "diagnostic", res.Diagnostic)
		}
	}

	if err := job.RollBack(diagnostic); err != nil {
		uc.logger.Errorw("failed to mark job rolled back", "job_id", job.ID(), "error", err)
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		uc.logger.Errorw("failed to persist rolled back job", "job_id", job.ID(), "error", err)
	}
	uc.recordOutcome(ctx, job)

	uc.logger.Warnw("apply rolled back", "job_id", job.ID(), "diagnostic", diagnostic)
	return newJobResult(job), cause
}

func (uc *ApplyConfigurationUseCase) recordOutcome(ctx context.Context, job *apply.Job) {
	uc.recorder.Record(ctx, appaudit.Meta{Actor: job.Actor()}, audit.ActionApply, "apply_job", job.ID(), nil, map[string]any{
		"status":     string(job.Status()),
		"error_text": job.ErrorText(),
	})
}

// loadSnapshot builds the generator read model. Only active users route;
// suspended and deleted users keep their extensions reserved but emit no
// configuration. Assignments whose destination user is inactive are
// dropped with a warning rather than failing the whole apply.
func (uc *ApplyConfigurationUseCase) loadSnapshot(ctx context.Context, tenants []*tenant.Tenant, users []*user.User) (dialplan.Snapshot, error) {
	var snap dialplan.Snapshot

	for _, t := range tenants {
		snap.Tenants = append(snap.Tenants, dialplan.Tenant{
			ID:     t.ID(),
			Name:   t.Name(),
			ExtMin: t.ExtMin(),
			ExtMax: t.ExtMax(),
		})
	}

	usersByID := make(map[uint]*user.User, len(users))
	for _, u := range users {
		usersByID[u.ID()] = u
		if !u.IsActive() {
			continue
		}
		snap.Users = append(snap.Users, dialplan.User{
			ID:                     u.ID(),
			TenantID:               u.TenantID(),
			Name:                   u.Name(),
			Extension:              u.Extension(),
			SIPSecret:              u.SIPSecret(),
			DNDEnabled:             u.DNDEnabled(),
			CallForwardDestination: u.CallForwardDestination(),
			VoicemailEnabled:       u.VoicemailEnabled(),
		})
	}

	assigned, err := uc.phoneRepo.ListByStatus(ctx, did.StatusAssigned)
	if err != nil {
		return dialplan.Snapshot{}, fmt.Errorf("failed to list assigned numbers: %w", err)
	}
	numbersByID := make(map[uint]*did.PhoneNumber, len(assigned))
	for _, n := range assigned {
		numbersByID[n.ID()] = n
	}

	assignments, err := uc.assignmentRepo.ListAll(ctx)
	if err != nil {
		return dialplan.Snapshot{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	for _, a := range assignments {
		number, ok := numbersByID[a.PhoneNumberID()]
		if !ok {
			uc.logger.Warnw("assignment references non-assigned number, skipping",
				"phone_number_id", a.PhoneNumberID())
			continue
		}

		entry := dialplan.Assignment{
			Number:   number.Number(),
			Type:     a.Target().Kind(),
			TargetID: a.Target().EntityID(),
			TenantID: number.TenantID(),
			Context:  a.Target().Context(),
		}

		if a.Target().Kind() == did.TargetUser {
			u, ok := usersByID[a.Target().EntityID()]
			if !ok || !u.IsActive() {
				uc.logger.Warnw("assignment targets inactive user, skipping",
					"number", number.Number(), "user_id", a.Target().EntityID())
				continue
			}
			entry.Extension = u.Extension()
			entry.TenantID = u.TenantID()
		}

		snap.Assignments = append(snap.Assignments, entry)
	}

	return snap, nil
}
