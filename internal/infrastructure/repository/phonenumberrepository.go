package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/mappers"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/db"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// PhoneNumberRepositoryImpl implements the did.PhoneNumberRepository interface.
type PhoneNumberRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PhoneNumberMapper
	logger logger.Interface
}

// NewPhoneNumberRepository creates a new phone number repository instance.
func NewPhoneNumberRepository(gdb *gorm.DB, logger logger.Interface) did.PhoneNumberRepository {
	return &PhoneNumberRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewPhoneNumberMapper(),
		logger: logger,
	}
}

// Create creates a new phone number in the database.
func (r *PhoneNumberRepositoryImpl) Create(ctx context.Context, entity *did.PhoneNumber) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map phone number entity to model", "error", err)
		return fmt.Errorf("failed to map phone number entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("phone number already exists", entity.Number())
		}
		r.logger.Errorw("failed to create phone number in database", "error", err)
		return fmt.Errorf("failed to create phone number: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set phone number ID", "error", err)
		return fmt.Errorf("failed to set phone number ID: %w", err)
	}

	return nil
}

// CreateBatch creates a batch of phone numbers atomically. Any failure rolls
// the whole batch back so imports stay all-or-nothing.
func (r *PhoneNumberRepositoryImpl) CreateBatch(ctx context.Context, entities []*did.PhoneNumber) error {
	if len(entities) == 0 {
		return nil
	}

	batch := make([]*models.PhoneNumberModel, 0, len(entities))
	for _, entity := range entities {
		model, err := r.mapper.ToModel(entity)
		if err != nil {
			return fmt.Errorf("failed to map phone number entity: %w", err)
		}
		batch = append(batch, model)
	}

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&batch).Error
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("phone number already exists")
		}
		r.logger.Errorw("failed to create phone number batch", "count", len(batch), "error", err)
		return fmt.Errorf("failed to create phone numbers: %w", err)
	}

	for i, entity := range entities {
		if err := entity.SetID(batch[i].ID); err != nil {
			return fmt.Errorf("failed to set phone number ID: %w", err)
		}
	}

	r.logger.Infow("phone number batch imported", "count", len(batch))
	return nil
}

// GetByID retrieves a phone number by its ID.
func (r *PhoneNumberRepositoryImpl) GetByID(ctx context.Context, id uint) (*did.PhoneNumber, error) {
	var model models.PhoneNumberModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get phone number by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByNumber retrieves a phone number by its E.164 string.
func (r *PhoneNumberRepositoryImpl) GetByNumber(ctx context.Context, number string) (*did.PhoneNumber, error) {
	var model models.PhoneNumberModel

	if err := db.GetTxFromContext(ctx, r.db).Where("number = ?", number).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get phone number", "number", number, "error", err)
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update updates an existing phone number.
func (r *PhoneNumberRepositoryImpl) Update(ctx context.Context, entity *did.PhoneNumber) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map phone number entity to model", "error", err)
		return fmt.Errorf("failed to map phone number entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.PhoneNumberModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":     model.Status,
			"tenant_id":  model.TenantID,
			"provider":   model.Provider,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update phone number", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update phone number: %w", result.Error)
	}

	return nil
}

// List retrieves a paginated list of phone numbers with filtering.
func (r *PhoneNumberRepositoryImpl) List(ctx context.Context, filter did.ListFilter) ([]*did.PhoneNumber, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PhoneNumberModel{})

	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count phone numbers", "error", err)
		return nil, 0, fmt.Errorf("failed to count phone numbers: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.Order("number").Offset(offset).Limit(filter.PageSize)

	var numberModels []*models.PhoneNumberModel
	if err := query.Find(&numberModels).Error; err != nil {
		r.logger.Errorw("failed to list phone numbers", "error", err)
		return nil, 0, fmt.Errorf("failed to list phone numbers: %w", err)
	}

	entities, err := r.mapper.ToEntities(numberModels)
	if err != nil {
		r.logger.Errorw("failed to map phone number models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map phone numbers: %w", err)
	}

	return entities, total, nil
}

// ListByStatus returns all phone numbers in the given status.
func (r *PhoneNumberRepositoryImpl) ListByStatus(ctx context.Context, status did.Status) ([]*did.PhoneNumber, error) {
	var numberModels []*models.PhoneNumberModel

	if err := db.GetTxFromContext(ctx, r.db).Where("status = ?", string(status)).Order("number").Find(&numberModels).Error; err != nil {
		r.logger.Errorw("failed to list phone numbers by status", "status", status, "error", err)
		return nil, fmt.Errorf("failed to list phone numbers: %w", err)
	}

	return r.mapper.ToEntities(numberModels)
}

// ListByTenantID returns all phone numbers allocated or assigned to a tenant.
func (r *PhoneNumberRepositoryImpl) ListByTenantID(ctx context.Context, tenantID uint) ([]*did.PhoneNumber, error) {
	var numberModels []*models.PhoneNumberModel

	if err := db.GetTxFromContext(ctx, r.db).Where("tenant_id = ?", tenantID).Order("number").Find(&numberModels).Error; err != nil {
		r.logger.Errorw("failed to list phone numbers by tenant", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list phone numbers: %w", err)
	}

	return r.mapper.ToEntities(numberModels)
}

// ExistsByNumber checks if a phone number with the given string exists.
func (r *PhoneNumberRepositoryImpl) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.PhoneNumberModel{}).
		Where("number = ?", number).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check phone number existence", "number", number, "error", err)
		return false, fmt.Errorf("failed to check phone number existence: %w", err)
	}
	return count > 0, nil
}
