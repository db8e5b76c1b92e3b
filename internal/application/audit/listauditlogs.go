package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ListLogsQuery represents the input for listing audit entries.
type ListLogsQuery struct {
	Page       int
	PageSize   int
	Actor      string
	EntityType string
	EntityID   uint
	Action     string
}

// EntryResult is the read representation of one audit entry.
type EntryResult struct {
	ID         uint            `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uint            `json:"entity_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	SourceIP   string          `json:"source_ip,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

// ListLogsResult represents one page of audit entries, newest first.
type ListLogsResult struct {
	Entries []*EntryResult `json:"entries"`
	Total   int64          `json:"total"`
}

// ListLogsUseCase handles audit log listing.
type ListLogsUseCase struct {
	repo   audit.Repository
	logger logger.Interface
}

// NewListLogsUseCase creates a new ListLogsUseCase.
func NewListLogsUseCase(repo audit.Repository, logger logger.Interface) *ListLogsUseCase {
	return &ListLogsUseCase{repo: repo, logger: logger}
}

// Execute lists audit entries with optional actor/entity/action filters.
func (uc *ListLogsUseCase) Execute(ctx context.Context, query ListLogsQuery) (*ListLogsResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 50
	}

	entries, total, err := uc.repo.List(ctx, audit.ListFilter{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Actor:      query.Actor,
		EntityType: query.EntityType,
		EntityID:   query.EntityID,
		Action:     query.Action,
	})
	if err != nil {
		uc.logger.Errorw("failed to list audit entries", "error", err)
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	results := make([]*EntryResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, &EntryResult{
			ID:         entry.ID(),
			Actor:      entry.Actor(),
			Action:     string(entry.Action()),
			EntityType: entry.EntityType(),
			EntityID:   entry.EntityID(),
			Before:     entry.Before(),
			After:      entry.After(),
			SourceIP:   entry.SourceIP(),
			UserAgent:  entry.UserAgent(),
			CreatedAt:  entry.CreatedAt().Format(time.RFC3339),
		})
	}

	return &ListLogsResult{Entries: results, Total: total}, nil
}
