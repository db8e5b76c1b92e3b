package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/mappers"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/db"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// TenantRepositoryImpl implements the tenant.Repository interface.
type TenantRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TenantMapper
	logger logger.Interface
}

// NewTenantRepository creates a new tenant repository instance.
func NewTenantRepository(gdb *gorm.DB, logger logger.Interface) tenant.Repository {
	return &TenantRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewTenantMapper(),
		logger: logger,
	}
}

// Create creates a new tenant in the database.
func (r *TenantRepositoryImpl) Create(ctx context.Context, entity *tenant.Tenant) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map tenant entity to model", "error", err)
		return fmt.Errorf("failed to map tenant entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("tenant name already exists")
		}
		r.logger.Errorw("failed to create tenant in database", "error", err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set tenant ID", "error", err)
		return fmt.Errorf("failed to set tenant ID: %w", err)
	}

	r.logger.Infow("tenant created successfully", "id", model.ID, "name", model.Name)
	return nil
}

// GetByID retrieves a tenant by its ID.
func (r *TenantRepositoryImpl) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	var model models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get tenant by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByIDForUpdate retrieves a tenant holding an exclusive row lock until the
// surrounding transaction commits. Callers must run inside a transaction; the
// lock serializes extension allocations for one tenant while allocations for
// different tenants proceed in parallel.
func (r *TenantRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*tenant.Tenant, error) {
	var model models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to lock tenant row", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock tenant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByName retrieves a tenant by its name.
func (r *TenantRepositoryImpl) GetByName(ctx context.Context, name string) (*tenant.Tenant, error) {
	var model models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get tenant by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update updates an existing tenant.
func (r *TenantRepositoryImpl) Update(ctx context.Context, entity *tenant.Tenant) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map tenant entity to model", "error", err)
		return fmt.Errorf("failed to map tenant entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.TenantModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":       model.Name,
			"status":     model.Status,
			"ext_min":    model.ExtMin,
			"ext_max":    model.ExtMax,
			"ext_next":   model.ExtNext,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return errors.NewConflictError("tenant name already exists")
		}
		r.logger.Errorw("failed to update tenant", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}

	return nil
}

// Delete removes a tenant. Users cascade, phone numbers are released back to
// stock by the use case before the row goes away.
func (r *TenantRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.TenantModel{}, id)

	if result.Error != nil {
		r.logger.Errorw("failed to delete tenant", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete tenant: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("tenant", fmt.Sprintf("%d", id))
	}

	r.logger.Infow("tenant deleted successfully", "id", id)
	return nil
}

// List retrieves a paginated list of tenants with filtering.
func (r *TenantRepositoryImpl) List(ctx context.Context, filter tenant.ListFilter) ([]*tenant.Tenant, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TenantModel{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count tenants", "error", err)
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.Order("created_at desc").Offset(offset).Limit(filter.PageSize)

	var tenantModels []*models.TenantModel
	if err := query.Find(&tenantModels).Error; err != nil {
		r.logger.Errorw("failed to list tenants", "error", err)
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	entities, err := r.mapper.ToEntities(tenantModels)
	if err != nil {
		r.logger.Errorw("failed to map tenant models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map tenants: %w", err)
	}

	return entities, total, nil
}

// ListAll returns every tenant.
func (r *TenantRepositoryImpl) ListAll(ctx context.Context) ([]*tenant.Tenant, error) {
	var tenantModels []*models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).Order("id").Find(&tenantModels).Error; err != nil {
		r.logger.Errorw("failed to list all tenants", "error", err)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return r.mapper.ToEntities(tenantModels)
}

// ExistsByName checks if a tenant with the given name exists.
func (r *TenantRepositoryImpl) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.TenantModel{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check tenant existence by name", "name", name, "error", err)
		return false, fmt.Errorf("failed to check tenant existence: %w", err)
	}
	return count > 0, nil
}
