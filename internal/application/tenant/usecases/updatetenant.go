package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// UpdateTenantCommand represents the input for updating a tenant. Nil
// pointers mean "leave unchanged".
type UpdateTenantCommand struct {
	ID                    uint
	Name                  *string
	Status                *string
	ExtMin                *int
	ExtMax                *int
	DefaultInboundContext *string
	Meta                  appaudit.Meta
}

// UpdateTenantUseCase handles tenant updates including extension pool
// resizing.
type UpdateTenantUseCase struct {
	repo     tenant.Repository
	recorder *appaudit.Recorder
	logger   logger.Interface
}

// NewUpdateTenantUseCase creates a new UpdateTenantUseCase.
func NewUpdateTenantUseCase(repo tenant.Repository, recorder *appaudit.Recorder, logger logger.Interface) *UpdateTenantUseCase {
	return &UpdateTenantUseCase{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute applies the requested changes. Pool resizing is rejected when it
// would orphan extensions already handed out.
func (uc *UpdateTenantUseCase) Execute(ctx context.Context, cmd UpdateTenantCommand) (*TenantResult, error) {
	entity, err := uc.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		uc.logger.Errorw("failed to get tenant", "id", cmd.ID, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if entity == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	before := tenantSnapshot(entity)

	if cmd.Name != nil && *cmd.Name != entity.Name() {
		exists, err := uc.repo.ExistsByName(ctx, *cmd.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing tenant: %w", err)
		}
		if exists {
			return nil, errors.NewConflictError("tenant name already exists", *cmd.Name)
		}
		if err := entity.UpdateName(*cmd.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.ExtMin != nil || cmd.ExtMax != nil {
		extMin := entity.ExtMin()
		extMax := entity.ExtMax()
		if cmd.ExtMin != nil {
			extMin = *cmd.ExtMin
		}
		if cmd.ExtMax != nil {
			extMax = *cmd.ExtMax
		}
		if err := entity.UpdateExtensionRange(extMin, extMax); err != nil {
			uc.logger.Warnw("rejected extension range update",
				"id", cmd.ID, "ext_min", extMin, "ext_max", extMax, "error", err)
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.DefaultInboundContext != nil {
		entity.UpdateDefaultInboundContext(*cmd.DefaultInboundContext)
	}

	if cmd.Status != nil {
		switch tenant.Status(*cmd.Status) {
		case tenant.StatusActive:
			entity.Activate()
		case tenant.StatusSuspended:
			entity.Suspend()
		default:
			return nil, errors.NewValidationError(fmt.Sprintf("invalid tenant status: %s", *cmd.Status))
		}
	}

	if err := uc.repo.Update(ctx, entity); err != nil {
		uc.logger.Errorw("failed to update tenant", "id", cmd.ID, "error", err)
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionUpdate, "tenant", entity.ID(), before, tenantSnapshot(entity))

	uc.logger.Infow("tenant updated successfully", "id", entity.ID())
	return newTenantResult(entity), nil
}
