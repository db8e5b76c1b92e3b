package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ListNumbersQuery represents the input for listing phone numbers.
type ListNumbersQuery struct {
	Page     int
	PageSize int
	TenantID uint
	Status   string
	Search   string
}

// ListNumbersResult represents one page of phone numbers.
type ListNumbersResult struct {
	Numbers []*PhoneNumberResult `json:"numbers"`
	Total   int64                `json:"total"`
}

// ListNumbersUseCase handles phone number listing.
type ListNumbersUseCase struct {
	repo   did.PhoneNumberRepository
	logger logger.Interface
}

// NewListNumbersUseCase creates a new ListNumbersUseCase.
func NewListNumbersUseCase(repo did.PhoneNumberRepository, logger logger.Interface) *ListNumbersUseCase {
	return &ListNumbersUseCase{repo: repo, logger: logger}
}

// Execute lists phone numbers with status/tenant filters.
func (uc *ListNumbersUseCase) Execute(ctx context.Context, query ListNumbersQuery) (*ListNumbersResult, error) {
	entities, total, err := uc.repo.List(ctx, did.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		TenantID: query.TenantID,
		Status:   query.Status,
		Search:   query.Search,
	})
	if err != nil {
		uc.logger.Errorw("failed to list phone numbers", "error", err)
		return nil, fmt.Errorf("failed to list phone numbers: %w", err)
	}

	results := make([]*PhoneNumberResult, 0, len(entities))
	for _, entity := range entities {
		results = append(results, newPhoneNumberResult(entity))
	}

	return &ListNumbersResult{Numbers: results, Total: total}, nil
}

// GetNumberUseCase handles phone number retrieval, including the current
// assignment when one exists.
type GetNumberUseCase struct {
	phoneRepo      did.PhoneNumberRepository
	assignmentRepo did.AssignmentRepository
	logger         logger.Interface
}

// NewGetNumberUseCase creates a new GetNumberUseCase.
func NewGetNumberUseCase(phoneRepo did.PhoneNumberRepository, assignmentRepo did.AssignmentRepository, logger logger.Interface) *GetNumberUseCase {
	return &GetNumberUseCase{
		phoneRepo:      phoneRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// Execute retrieves a phone number by ID.
func (uc *GetNumberUseCase) Execute(ctx context.Context, id uint) (*PhoneNumberResult, error) {
	entity, err := uc.phoneRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to get phone number", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}
	if entity == nil {
		return nil, errors.NewNotFoundError("phone number not found")
	}

	result := newPhoneNumberResult(entity)

	if entity.Status() == did.StatusAssigned {
		assignment, err := uc.assignmentRepo.GetByPhoneNumberID(ctx, entity.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to get assignment: %w", err)
		}
		if assignment != nil {
			result.Assignment = newAssignmentResult(assignment)
		}
	}

	return result, nil
}
