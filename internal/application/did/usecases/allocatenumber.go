package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// AllocateNumberCommand represents the input for reserving a number for a
// tenant.
type AllocateNumberCommand struct {
	PhoneNumberID uint
	TenantID      uint
	Meta          appaudit.Meta
}

// AllocateNumberUseCase moves a number from the unassigned stock into a
// tenant's reserve.
type AllocateNumberUseCase struct {
	phoneRepo  did.PhoneNumberRepository
	tenantRepo tenant.Repository
	recorder   *appaudit.Recorder
	logger     logger.Interface
}

// NewAllocateNumberUseCase creates a new AllocateNumberUseCase.
func NewAllocateNumberUseCase(
	phoneRepo did.PhoneNumberRepository,
	tenantRepo tenant.Repository,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *AllocateNumberUseCase {
	return &AllocateNumberUseCase{
		phoneRepo:  phoneRepo,
		tenantRepo: tenantRepo,
		recorder:   recorder,
		logger:     logger,
	}
}

// Execute reserves the number for the tenant.
func (uc *AllocateNumberUseCase) Execute(ctx context.Context, cmd AllocateNumberCommand) (*PhoneNumberResult, error) {
	number, err := uc.phoneRepo.GetByID(ctx, cmd.PhoneNumberID)
	if err != nil {
		uc.logger.Errorw("failed to get phone number", "id", cmd.PhoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}
	if number == nil {
		return nil, errors.NewNotFoundError("phone number not found")
	}

	tn, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if tn == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	before := phoneNumberSnapshot(number)

	if err := number.AllocateToTenant(cmd.TenantID); err != nil {
		uc.logger.Warnw("allocation rejected", "number", number.Number(), "error", err)
		return nil, err
	}

	if err := uc.phoneRepo.Update(ctx, number); err != nil {
		uc.logger.Errorw("failed to update phone number", "id", cmd.PhoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to update phone number: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionUpdate, "phone_number", number.ID(), before, phoneNumberSnapshot(number))

	uc.logger.Infow("number allocated", "number", number.Number(), "tenant_id", cmd.TenantID)
	return newPhoneNumberResult(number), nil
}
