package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// DeleteTenantCommand represents the input for deleting a tenant.
type DeleteTenantCommand struct {
	ID   uint
	Meta appaudit.Meta
}

// DeleteTenantUseCase handles tenant deletion with its cascade: users are
// removed and phone numbers return to the unassigned pool.
type DeleteTenantUseCase struct {
	tenantRepo     tenant.Repository
	userRepo       user.Repository
	phoneRepo      did.PhoneNumberRepository
	assignmentRepo did.AssignmentRepository
	txManager      TransactionManager
	recorder       *appaudit.Recorder
	logger         logger.Interface
}

// NewDeleteTenantUseCase creates a new DeleteTenantUseCase.
func NewDeleteTenantUseCase(
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	phoneRepo did.PhoneNumberRepository,
	assignmentRepo did.AssignmentRepository,
	txManager TransactionManager,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *DeleteTenantUseCase {
	return &DeleteTenantUseCase{
		tenantRepo:     tenantRepo,
		userRepo:       userRepo,
		phoneRepo:      phoneRepo,
		assignmentRepo: assignmentRepo,
		txManager:      txManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Execute deletes the tenant, its users, and releases its phone numbers in
// one transaction.
func (uc *DeleteTenantUseCase) Execute(ctx context.Context, cmd DeleteTenantCommand) error {
	entity, err := uc.tenantRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		uc.logger.Errorw("failed to get tenant", "id", cmd.ID, "error", err)
		return fmt.Errorf("failed to get tenant: %w", err)
	}
	if entity == nil {
		return errors.NewNotFoundError("tenant not found")
	}

	before := tenantSnapshot(entity)

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		users, err := uc.userRepo.ListByTenantID(txCtx, cmd.ID)
		if err != nil {
			return fmt.Errorf("failed to list tenant users: %w", err)
		}
		for _, u := range users {
			if err := uc.userRepo.Delete(txCtx, u.ID()); err != nil {
				return fmt.Errorf("failed to delete user %d: %w", u.ID(), err)
			}
		}

		numbers, err := uc.phoneRepo.ListByTenantID(txCtx, cmd.ID)
		if err != nil {
			return fmt.Errorf("failed to list tenant phone numbers: %w", err)
		}
		for _, n := range numbers {
			if n.Status() == did.StatusAssigned {
				if err := uc.assignmentRepo.DeleteByPhoneNumberID(txCtx, n.ID()); err != nil {
					return fmt.Errorf("failed to delete assignment of %s: %w", n.Number(), err)
				}
				if err := n.Unassign(); err != nil {
					return fmt.Errorf("failed to unassign %s: %w", n.Number(), err)
				}
			}
			if err := n.Deallocate(); err != nil {
				return fmt.Errorf("failed to deallocate %s: %w", n.Number(), err)
			}
			if err := uc.phoneRepo.Update(txCtx, n); err != nil {
				return fmt.Errorf("failed to release %s: %w", n.Number(), err)
			}
		}

		return uc.tenantRepo.Delete(txCtx, cmd.ID)
	})
	if err != nil {
		uc.logger.Errorw("failed to delete tenant", "id", cmd.ID, "error", err)
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionDelete, "tenant", cmd.ID, before, nil)

	uc.logger.Infow("tenant deleted successfully", "id", cmd.ID, "name", entity.Name())
	return nil
}
