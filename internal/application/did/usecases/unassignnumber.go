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

// UnassignNumberCommand represents the input for dropping a number's route.
type UnassignNumberCommand struct {
	PhoneNumberID uint
	Meta          appaudit.Meta
}

// UnassignNumberUseCase drops a number's route, returning it to the
// tenant's reserve.
type UnassignNumberUseCase struct {
	phoneRepo      did.PhoneNumberRepository
	assignmentRepo did.AssignmentRepository
	txManager      TransactionManager
	recorder       *appaudit.Recorder
	logger         logger.Interface
}

// NewUnassignNumberUseCase creates a new UnassignNumberUseCase.
func NewUnassignNumberUseCase(
	phoneRepo did.PhoneNumberRepository,
	assignmentRepo did.AssignmentRepository,
	txManager TransactionManager,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *UnassignNumberUseCase {
	return &UnassignNumberUseCase{
		phoneRepo:      phoneRepo,
		assignmentRepo: assignmentRepo,
		txManager:      txManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Execute removes the assignment and flips the number back to ALLOCATED.
func (uc *UnassignNumberUseCase) Execute(ctx context.Context, cmd UnassignNumberCommand) (*PhoneNumberResult, error) {
	number, err := uc.phoneRepo.GetByID(ctx, cmd.PhoneNumberID)
	if err != nil {
		uc.logger.Errorw("failed to get phone number", "id", cmd.PhoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}
	if number == nil {
		return nil, errors.NewNotFoundError("phone number not found")
	}

	before := phoneNumberSnapshot(number)

	if err := number.Unassign(); err != nil {
		uc.logger.Warnw("unassign rejected", "number", number.Number(), "error", err)
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.assignmentRepo.DeleteByPhoneNumberID(txCtx, number.ID()); err != nil {
			return err
		}
		return uc.phoneRepo.Update(txCtx, number)
	})
	if err != nil {
		uc.logger.Errorw("failed to unassign number", "number", number.Number(), "error", err)
		return nil, err
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionUpdate, "phone_number", number.ID(), before, phoneNumberSnapshot(number))

	uc.logger.Infow("number unassigned", "number", number.Number())
	return newPhoneNumberResult(number), nil
}
