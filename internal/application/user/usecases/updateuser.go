package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// UpdateUserCommand represents the input for updating a user. Nil pointers
// mean "leave unchanged". An empty CallForwardDestination clears forwarding.
type UpdateUserCommand struct {
	ID                     uint
	Name                   *string
	Email                  *string
	DNDEnabled             *bool
	CallForwardDestination *string
	VoicemailEnabled       *bool
	Status                 *string
	Meta                   appaudit.Meta
}

// UpdateUserUseCase handles user updates: profile fields and the
// self-service call handling flags.
type UpdateUserUseCase struct {
	repo     user.Repository
	recorder *appaudit.Recorder
	logger   logger.Interface
}

// NewUpdateUserUseCase creates a new UpdateUserUseCase.
func NewUpdateUserUseCase(repo user.Repository, recorder *appaudit.Recorder, logger logger.Interface) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute applies the requested changes.
func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (*UserResult, error) {
	entity, err := uc.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "id", cmd.ID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if entity == nil || entity.Status() == user.StatusDeleted {
		return nil, errors.NewNotFoundError("user not found")
	}

	before := userSnapshot(entity)

	if cmd.Name != nil {
		if err := entity.UpdateName(*cmd.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.Email != nil && *cmd.Email != entity.Email() {
		exists, err := uc.repo.ExistsByEmail(ctx, *cmd.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if exists {
			return nil, errors.NewConflictError("user email already exists", *cmd.Email)
		}
		if err := entity.UpdateEmail(*cmd.Email); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.DNDEnabled != nil {
		if *cmd.DNDEnabled {
			entity.EnableDND()
		} else {
			entity.DisableDND()
		}
	}

	if cmd.CallForwardDestination != nil {
		if *cmd.CallForwardDestination == "" {
			entity.ClearCallForward()
		} else if err := entity.SetCallForward(*cmd.CallForwardDestination); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.VoicemailEnabled != nil {
		if *cmd.VoicemailEnabled {
			entity.EnableVoicemail()
		} else {
			entity.DisableVoicemail()
		}
	}

	if cmd.Status != nil {
		var statusErr error
		switch user.Status(*cmd.Status) {
		case user.StatusActive:
			statusErr = entity.Activate()
		case user.StatusSuspended:
			statusErr = entity.Suspend()
		default:
			return nil, errors.NewValidationError(fmt.Sprintf("invalid user status: %s", *cmd.Status))
		}
		if statusErr != nil {
			return nil, errors.NewConflictError(statusErr.Error())
		}
	}

	if err := uc.repo.Update(ctx, entity); err != nil {
		uc.logger.Errorw("failed to update user", "id", cmd.ID, "error", err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionUpdate, "user", entity.ID(), before, userSnapshot(entity))

	uc.logger.Infow("user updated successfully", "id", entity.ID())
	return newUserResult(entity), nil
}
