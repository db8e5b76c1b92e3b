package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// GetApplyJobCommand represents the input for retrieving one apply job
type GetApplyJobCommand struct {
	ID uint
}

// GetApplyJobUseCase handles apply job retrieval
type GetApplyJobUseCase struct {
	jobRepo apply.JobRepository
	logger  logger.Interface
}

// NewGetApplyJobUseCase creates a new GetApplyJobUseCase
func NewGetApplyJobUseCase(jobRepo apply.JobRepository, logger logger.Interface) *GetApplyJobUseCase {
	return &GetApplyJobUseCase{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Execute retrieves an apply job by ID
func (uc *GetApplyJobUseCase) Execute(ctx context.Context, cmd GetApplyJobCommand) (*JobResult, error) {
	job, err := uc.jobRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		uc.logger.Errorw("failed to get apply job", "id", cmd.ID, "error", err)
		return nil, fmt.Errorf("failed to get apply job: %w", err)
	}
	if job == nil {
		return nil, errors.NewNotFoundError("apply job not found")
	}

	return newJobResult(job), nil
}
