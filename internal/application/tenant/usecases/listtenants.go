package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ListTenantsQuery represents the input for listing tenants.
type ListTenantsQuery struct {
	Page     int
	PageSize int
	Name     string
	Status   string
}

// ListTenantsResult represents one page of tenants.
type ListTenantsResult struct {
	Tenants []*TenantResult `json:"tenants"`
	Total   int64           `json:"total"`
}

// ListTenantsUseCase handles tenant listing.
type ListTenantsUseCase struct {
	repo   tenant.Repository
	logger logger.Interface
}

// NewListTenantsUseCase creates a new ListTenantsUseCase.
func NewListTenantsUseCase(repo tenant.Repository, logger logger.Interface) *ListTenantsUseCase {
	return &ListTenantsUseCase{repo: repo, logger: logger}
}

// Execute lists tenants with optional name search and status filter.
func (uc *ListTenantsUseCase) Execute(ctx context.Context, query ListTenantsQuery) (*ListTenantsResult, error) {
	entities, total, err := uc.repo.List(ctx, tenant.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Name:     query.Name,
		Status:   query.Status,
	})
	if err != nil {
		uc.logger.Errorw("failed to list tenants", "error", err)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	results := make([]*TenantResult, 0, len(entities))
	for _, entity := range entities {
		results = append(results, newTenantResult(entity))
	}

	return &ListTenantsResult{Tenants: results, Total: total}, nil
}
