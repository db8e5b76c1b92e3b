package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ListApplyJobsCommand represents the input for listing apply jobs
type ListApplyJobsCommand struct {
	Page     int
	PageSize int
	TenantID uint
	Status   string
}

// ListApplyJobsResult represents one page of apply jobs, newest first
type ListApplyJobsResult struct {
	Jobs     []*JobResult `json:"jobs"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ListApplyJobsUseCase handles apply job listing
type ListApplyJobsUseCase struct {
	jobRepo apply.JobRepository
	logger  logger.Interface
}

// NewListApplyJobsUseCase creates a new ListApplyJobsUseCase
func NewListApplyJobsUseCase(jobRepo apply.JobRepository, logger logger.Interface) *ListApplyJobsUseCase {
	return &ListApplyJobsUseCase{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Execute lists apply jobs with pagination and optional filtering
func (uc *ListApplyJobsUseCase) Execute(ctx context.Context, cmd ListApplyJobsCommand) (*ListApplyJobsResult, error) {
	if cmd.Page < 1 {
		cmd.Page = 1
	}
	if cmd.PageSize < 1 || cmd.PageSize > 100 {
		cmd.PageSize = 20
	}
	if cmd.Status != "" && !apply.JobStatus(cmd.Status).IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid job status: %s", cmd.Status))
	}

	jobs, total, err := uc.jobRepo.List(ctx, apply.JobListFilter{
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
		TenantID: cmd.TenantID,
		Status:   cmd.Status,
	})
	if err != nil {
		uc.logger.Errorw("failed to list apply jobs", "error", err)
		return nil, fmt.Errorf("failed to list apply jobs: %w", err)
	}

	results := make([]*JobResult, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, newJobResult(job))
	}

	return &ListApplyJobsResult{
		Jobs:     results,
		Total:    total,
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
	}, nil
}
