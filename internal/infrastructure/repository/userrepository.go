package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/mappers"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/db"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// UserRepositoryImpl implements the user.Repository interface.
type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(gdb *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

// Create creates a new user in the database.
func (r *UserRepositoryImpl) Create(ctx context.Context, entity *user.User) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map user entity to model", "error", err)
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("user email or extension already exists")
		}
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set user ID", "error", err)
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	r.logger.Infow("user created successfully", "id", model.ID, "email", model.Email, "extension", model.Extension)
	return nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByEmail retrieves a user by email.
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update updates an existing user.
func (r *UserRepositoryImpl) Update(ctx context.Context, entity *user.User) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map user entity to model", "error", err)
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":                     model.Name,
			"email":                    model.Email,
			"sip_secret":               model.SIPSecret,
			"dnd_enabled":              model.DNDEnabled,
			"call_forward_destination": model.CallForwardDest,
			"voicemail_enabled":        model.VoicemailOn,
			"status":                   model.Status,
			"updated_at":               model.UpdatedAt,
		})

	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return errors.NewConflictError("user email already exists")
		}
		r.logger.Errorw("failed to update user", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}

	return nil
}

// Delete physically removes a user row.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.UserModel{}, id)

	if result.Error != nil {
		r.logger.Errorw("failed to delete user", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user", fmt.Sprintf("%d", id))
	}

	r.logger.Infow("user deleted successfully", "id", id)
	return nil
}

// List retrieves a paginated list of users with filtering.
func (r *UserRepositoryImpl) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})

	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count users", "error", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.Order("created_at desc").Offset(offset).Limit(filter.PageSize)

	var userModels []*models.UserModel
	if err := query.Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to list users", "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	entities, err := r.mapper.ToEntities(userModels)
	if err != nil {
		r.logger.Errorw("failed to map user models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map users: %w", err)
	}

	return entities, total, nil
}

// ListByTenantID returns all users of a tenant.
func (r *UserRepositoryImpl) ListByTenantID(ctx context.Context, tenantID uint) ([]*user.User, error) {
	var userModels []*models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).Where("tenant_id = ?", tenantID).Order("extension").Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to list users by tenant", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return r.mapper.ToEntities(userModels)
}

// ListAll returns every user.
func (r *UserRepositoryImpl) ListAll(ctx context.Context) ([]*user.User, error) {
	var userModels []*models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).Order("id").Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to list all users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return r.mapper.ToEntities(userModels)
}

// ExistsByEmail checks if a user with the given email exists.
func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(email)).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check user existence by email", "email", email, "error", err)
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// CountByTenantID returns the number of users of a tenant.
func (r *UserRepositoryImpl) CountByTenantID(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("tenant_id = ?", tenantID).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count users by tenant", "tenant_id", tenantID, "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
