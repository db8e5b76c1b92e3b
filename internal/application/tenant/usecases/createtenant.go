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

// CreateTenantCommand represents the input for creating a tenant.
type CreateTenantCommand struct {
	Name                  string
	ExtMin                int
	ExtMax                int
	DefaultInboundContext string
	Meta                  appaudit.Meta
}

// CreateTenantUseCase handles tenant creation.
type CreateTenantUseCase struct {
	repo     tenant.Repository
	recorder *appaudit.Recorder
	logger   logger.Interface
}

// NewCreateTenantUseCase creates a new CreateTenantUseCase.
func NewCreateTenantUseCase(repo tenant.Repository, recorder *appaudit.Recorder, logger logger.Interface) *CreateTenantUseCase {
	return &CreateTenantUseCase{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute creates a new tenant with a fresh extension pool.
func (uc *CreateTenantUseCase) Execute(ctx context.Context, cmd CreateTenantCommand) (*TenantResult, error) {
	uc.logger.Infow("executing create tenant use case", "name", cmd.Name)

	exists, err := uc.repo.ExistsByName(ctx, cmd.Name)
	if err != nil {
		uc.logger.Errorw("failed to check existing tenant", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to check existing tenant: %w", err)
	}
	if exists {
		uc.logger.Warnw("tenant name already exists", "name", cmd.Name)
		return nil, errors.NewConflictError("tenant name already exists", cmd.Name)
	}

	entity, err := tenant.NewTenant(cmd.Name, cmd.ExtMin, cmd.ExtMax)
	if err != nil {
		uc.logger.Errorw("failed to create tenant entity", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.DefaultInboundContext != "" {
		entity.UpdateDefaultInboundContext(cmd.DefaultInboundContext)
	}

	if err := uc.repo.Create(ctx, entity); err != nil {
		uc.logger.Errorw("failed to persist tenant", "error", err)
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionCreate, "tenant", entity.ID(), nil, tenantSnapshot(entity))

	uc.logger.Infow("tenant created successfully", "id", entity.ID(), "name", cmd.Name)
	return newTenantResult(entity), nil
}
