package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// GetUserUseCase handles user retrieval.
type GetUserUseCase struct {
	repo   user.Repository
	logger logger.Interface
}

// NewGetUserUseCase creates a new GetUserUseCase.
func NewGetUserUseCase(repo user.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{repo: repo, logger: logger}
}

// Execute retrieves a user by ID. Deleted users are not returned.
func (uc *GetUserUseCase) Execute(ctx context.Context, id uint) (*UserResult, error) {
	entity, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to get user", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if entity == nil || entity.Status() == user.StatusDeleted {
		return nil, errors.NewNotFoundError("user not found")
	}

	return newUserResult(entity), nil
}
