package usecases

import (
	"context"
	"fmt"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// CreateUserCommand represents the input for creating a user.
type CreateUserCommand struct {
	TenantID uint
	Name     string
	Email    string
	Meta     appaudit.Meta
}

// CreateUserResult is the creation response. It is the only place the SIP
// secret is returned in plain text.
type CreateUserResult struct {
	*UserResult
	SIPSecret string `json:"sip_secret"`
}

// CreateUserUseCase handles user creation. The extension comes from the
// tenant's pool cursor; the cursor advance and the user row commit in the
// same transaction, under a row lock on the tenant, so two concurrent
// creates can never share an extension.
type CreateUserUseCase struct {
	userRepo   user.Repository
	tenantRepo tenant.Repository
	txManager  TransactionManager
	recorder   *appaudit.Recorder
	logger     logger.Interface
}

// NewCreateUserUseCase creates a new CreateUserUseCase.
func NewCreateUserUseCase(
	userRepo user.Repository,
	tenantRepo tenant.Repository,
	txManager TransactionManager,
	recorder *appaudit.Recorder,
	logger logger.Interface,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		txManager:  txManager,
		recorder:   recorder,
		logger:     logger,
	}
}

// Execute creates the user with a freshly allocated extension.
func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*CreateUserResult, error) {
	uc.logger.Infow("executing create user use case", "tenant_id", cmd.TenantID, "email", cmd.Email)

	exists, err := uc.userRepo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to check existing user", "email", cmd.Email, "error", err)
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		uc.logger.Warnw("user email already exists", "email", cmd.Email)
		return nil, errors.NewConflictError("user email already exists", cmd.Email)
	}

	var entity *user.User
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		tn, err := uc.tenantRepo.GetByIDForUpdate(txCtx, cmd.TenantID)
		if err != nil {
			return fmt.Errorf("failed to lock tenant: %w", err)
		}
		if tn == nil {
			return errors.NewNotFoundError("tenant not found")
		}
		if !tn.IsActive() {
			return errors.NewConflictError("tenant is suspended")
		}

		extension, err := tn.AllocateExtension()
		if err != nil {
			return err
		}

		entity, err = user.NewUser(cmd.TenantID, cmd.Name, cmd.Email, extension)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}

		if err := uc.userRepo.Create(txCtx, entity); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return uc.tenantRepo.Update(txCtx, tn)
	})
	if err != nil {
		if tenant.IsPoolExhausted(err) {
			uc.logger.Warnw("extension pool exhausted", "tenant_id", cmd.TenantID)
			return nil, err
		}
		uc.logger.Errorw("failed to create user", "tenant_id", cmd.TenantID, "error", err)
		return nil, err
	}

	uc.recorder.Record(ctx, cmd.Meta, audit.ActionCreate, "user", entity.ID(), nil, userSnapshot(entity))

	uc.logger.Infow("user created successfully",
		"id", entity.ID(), "tenant_id", cmd.TenantID, "extension", entity.Extension())
	return &CreateUserResult{
		UserResult: newUserResult(entity),
		SIPSecret:  entity.SIPSecret(),
	}, nil
}
