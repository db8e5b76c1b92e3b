package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// AssignNumberCommand represents the input for pointing a number at a
// destination. TargetID carries the entity for USER/IVR/QUEUE targets;
// TargetContext carries the literal context for EXTERNAL targets.
type AssignNumberCommand struct {
	PhoneNumberID uint
	TargetType    string
	TargetID      uint
	TargetContext string
	Meta          appaudit.Meta
}

// AssignNumberUseCase routes an allocated number to a destination. The
// status flip and the assignment row commit in one transaction so the
// 1:1 invariant holds even against concurrent assigns.
type AssignNumberUseCase struct {
	phoneRepo      did.PhoneNumberRepository
	assignmentRepo did.AssignmentRepository
	userRepo       user.Repository
	txManager      TransactionManager
	recorder       *appaudit.Recorder
	logger         logger.Interface
}

// NewAssignNumberUseCase creates a new AssignNumberUseCase.
func NewAssignNumberUseCase(
	phoneRepo did.PhoneNumberRepository,
	assignmentRepo did.AssignmentRepository,
	userRepo user.Repository,
	txManager TransactionManager,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *AssignNumberUseCase {
	return &AssignNumberUseCase{
		phoneRepo:      phoneRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Execute assigns the number. USER targets must belong to the number's
// tenant.
func (uc *AssignNumberUseCase) Execute(ctx context.Context, cmd AssignNumberCommand) (*PhoneNumberResult, error) {
	number, err := uc.phoneRepo.GetByID(ctx, cmd.PhoneNumberID)
	if err != nil {
		uc.logger.Errorw("failed to get phone number", "id", cmd.PhoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}
	if number == nil {
		return nil, errors.NewNotFoundError("phone number not found")
	}

	target, err := uc.buildTarget(ctx, number, cmd)
	if err != nil {
		return nil, err
	}

	before := phoneNumberSnapshot(number)

	if err := number.Assign(); err != nil {
		uc.logger.Warnw("assignment rejected", "number", number.Number(), "error", err)
		return nil, err
	}

	assignment, err := did.NewAssignment(number.ID(), target)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.assignmentRepo.Create(txCtx, assignment); err != nil {
			return err
		}
		return uc.phoneRepo.Update(txCtx, number)
	})
	if err != nil {
		uc.logger.Errorw("failed to assign number", "number", number.Number(), "error", err)
		return nil, err
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionUpdate, "phone_number", number.ID(), before, phoneNumberSnapshot(number))

	uc.logger.Infow("number assigned",
		"number", number.Number(), "target_type", cmd.TargetType, "target_id", cmd.TargetID)

	result := newPhoneNumberResult(number)
	result.Assignment = newAssignmentResult(assignment)
	return result, nil
}

func (uc *AssignNumberUseCase) buildTarget(ctx context.Context, number *did.PhoneNumber, cmd AssignNumberCommand) (did.Target, error) {
	kind := did.TargetType(cmd.TargetType)
	if !kind.IsValid() {
		return did.Target{}, errors.NewValidationError(fmt.Sprintf("invalid target type: %s", cmd.TargetType))
	}

	if kind == did.TargetExternal {
		target, err := did.NewExternalTarget(cmd.TargetContext)
		if err != nil {
			return did.Target{}, errors.NewValidationError(err.Error())
		}
		return target, nil
	}

	target, err := did.NewEntityTarget(kind, cmd.TargetID)
	if err != nil {
		return did.Target{}, errors.NewValidationError(err.Error())
	}

	if kind == did.TargetUser {
		u, err := uc.userRepo.GetByID(ctx, cmd.TargetID)
		if err != nil {
			return did.Target{}, fmt.Errorf("failed to get target user: %w", err)
		}
		if u == nil || u.Status() == user.StatusDeleted {
			return did.Target{}, errors.NewNotFoundError("target user not found")
		}
		if u.TenantID() != number.TenantID() {
			uc.logger.Warnw("cross-tenant assignment rejected",
				"number", number.Number(), "number_tenant", number.TenantID(), "user_tenant", u.TenantID())
			return did.Target{}, did.ErrCrossTenantAssignment
		}
	}

	return target, nil
}
