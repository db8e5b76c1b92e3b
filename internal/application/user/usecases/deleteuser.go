package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// DeleteUserCommand represents the input for deleting a user.
type DeleteUserCommand struct {
	ID   uint
	Meta appaudit.Meta
}

// DeleteUserUseCase handles user deletion. Deletion is logical: the row
// stays so the extension is never reissued, and any DIDs routed at the user
// fall back to their tenant pool.
type DeleteUserUseCase struct {
	userRepo       user.Repository
	phoneRepo      did.PhoneNumberRepository
	assignmentRepo did.AssignmentRepository
	txManager      TransactionManager
	recorder       *appaudit.Recorder
	logger         logger.Interface
}

// NewDeleteUserUseCase creates a new DeleteUserUseCase.
func NewDeleteUserUseCase(
	userRepo user.Repository,
	phoneRepo did.PhoneNumberRepository,
	assignmentRepo did.AssignmentRepository,
	txManager TransactionManager,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:       userRepo,
		phoneRepo:      phoneRepo,
		assignmentRepo: assignmentRepo,
		txManager:      txManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Execute marks the user deleted and unassigns DIDs targeting them.
func (uc *DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	entity, err := uc.userRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "id", cmd.ID, "error", err)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if entity == nil || entity.Status() == user.StatusDeleted {
		return errors.NewNotFoundError("user not found")
	}

	before := userSnapshot(entity)

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		assignments, err := uc.assignmentRepo.ListAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		for _, a := range assignments {
			if a.Target().Kind() != did.TargetUser || a.Target().EntityID() != cmd.ID {
				continue
			}
			number, err := uc.phoneRepo.GetByID(txCtx, a.PhoneNumberID())
			if err != nil {
				return fmt.Errorf("failed to get phone number %d: %w", a.PhoneNumberID(), err)
			}
			if err := uc.assignmentRepo.DeleteByPhoneNumberID(txCtx, a.PhoneNumberID()); err != nil {
				return fmt.Errorf("failed to delete assignment: %w", err)
			}
			if number != nil {
				if err := number.Unassign(); err != nil {
					return fmt.Errorf("failed to unassign %s: %w", number.Number(), err)
				}
				if err := uc.phoneRepo.Update(txCtx, number); err != nil {
					return fmt.Errorf("failed to update %s: %w", number.Number(), err)
				}
			}
		}

		entity.MarkDeleted()
		return uc.userRepo.Update(txCtx, entity)
	})
	if err != nil {
		uc.logger.Errorw("failed to delete user", "id", cmd.ID, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionDelete, "user", cmd.ID, before, nil)

	uc.logger.Infow("user deleted successfully", "id", cmd.ID, "extension", entity.Extension())
	return nil
}
