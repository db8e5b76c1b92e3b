package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// GetTenantUseCase handles tenant retrieval.
type GetTenantUseCase struct {
	repo   tenant.Repository
	logger logger.Interface
}

// NewGetTenantUseCase creates a new GetTenantUseCase.
func NewGetTenantUseCase(repo tenant.Repository, logger logger.Interface) *GetTenantUseCase {
	return &GetTenantUseCase{repo: repo, logger: logger}
}

// Execute retrieves a tenant by ID.
func (uc *GetTenantUseCase) Execute(ctx context.Context, id uint) (*TenantResult, error) {
	entity, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to get tenant", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if entity == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	return newTenantResult(entity), nil
}
