package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ListUsersQuery represents the input for listing users.
type ListUsersQuery struct {
	Page     int
	PageSize int
	TenantID uint
	Search   string
	Status   string
}

// ListUsersResult represents one page of users.
type ListUsersResult struct {
	Users []*UserResult `json:"users"`
	Total int64         `json:"total"`
}

// ListUsersUseCase handles user listing.
type ListUsersUseCase struct {
	repo   user.Repository
	logger logger.Interface
}

// NewListUsersUseCase creates a new ListUsersUseCase.
func NewListUsersUseCase(repo user.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{repo: repo, logger: logger}
}

// Execute lists users with tenant/status filters and name/email search.
func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (*ListUsersResult, error) {
	entities, total, err := uc.repo.List(ctx, user.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		TenantID: query.TenantID,
		Search:   query.Search,
		Status:   query.Status,
	})
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	results := make([]*UserResult, 0, len(entities))
	for _, entity := range entities {
		results = append(results, newUserResult(entity))
	}

	return &ListUsersResult{Users: results, Total: total}, nil
}
