package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// DeallocateNumberCommand represents the input for returning a number to
// stock.
type DeallocateNumberCommand struct {
	PhoneNumberID uint
	Meta          appaudit.Meta
}

// DeallocateNumberUseCase returns a reserved number to the unassigned
// stock. Assigned numbers must be unassigned first.
type DeallocateNumberUseCase struct {
	phoneRepo did.PhoneNumberRepository
	recorder  *appaudit.Recorder
	logger    logger.Interface
}

// NewDeallocateNumberUseCase creates a new DeallocateNumberUseCase.
func NewDeallocateNumberUseCase(phoneRepo did.PhoneNumberRepository, recorder *appaudit.Recorder, logger logger.Interface) *DeallocateNumberUseCase {
	return &DeallocateNumberUseCase{
		phoneRepo: phoneRepo,
		recorder:  recorder,
		logger:    logger,
	}
}

// Execute releases the number from its tenant.
func (uc *DeallocateNumberUseCase) Execute(ctx context.Context, cmd DeallocateNumberCommand) (*PhoneNumberResult, error) {
	number, err := uc.phoneRepo.GetByID(ctx, cmd.PhoneNumberID)
	if err != nil {
		uc.logger.Errorw("failed to get phone number", "id", cmd.PhoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}
	if number == nil {
		return nil, errors.NewNotFoundError("phone number not found")
	}

	before := phoneNumberSnapshot(number)

	if err := number.Deallocate(); err != nil {
		uc.logger.Warnw("deallocation rejected", "number", number.Number(), "error", err)
		return nil, err
	}

	if err := uc.phoneRepo.Update(ctx, number); err != nil {
		uc.logger.Errorw("failed to update phone number", "id", cmd.PhoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to update phone number: %w", err)
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionUpdate, "phone_number", number.ID(), before, phoneNumberSnapshot(number))

	uc.logger.Infow("number deallocated", "number", number.Number())
	return newPhoneNumberResult(number), nil
}
