package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/mappers"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/db"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// ApplyJobRepositoryImpl implements the apply.JobRepository interface.
type ApplyJobRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ApplyJobMapper
	logger logger.Interface
}

// NewApplyJobRepository creates a new apply job repository instance.
func NewApplyJobRepository(gdb *gorm.DB, logger logger.Interface) apply.JobRepository {
	return &ApplyJobRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewApplyJobMapper(),
		logger: logger,
	}
}

// Create creates a new apply job in the database.
func (r *ApplyJobRepositoryImpl) Create(ctx context.Context, job *apply.Job) error {
	model, err := r.mapper.ToModel(job)
	if err != nil {
		r.logger.Errorw("failed to map apply job entity to model", "error", err)
		return fmt.Errorf("failed to map apply job entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create apply job in database", "error", err)
		return fmt.Errorf("failed to create apply job: %w", err)
	}

	if err := job.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set apply job ID", "error", err)
		return fmt.Errorf("failed to set apply job ID: %w", err)
	}

	return nil
}

// Update updates an existing apply job. Job state only moves forward, so the
// whole row is written from the entity.
func (r *ApplyJobRepositoryImpl) Update(ctx context.Context, job *apply.Job) error {
	model, err := r.mapper.ToModel(job)
	if err != nil {
		r.logger.Errorw("failed to map apply job entity to model", "error", err)
		return fmt.Errorf("failed to map apply job entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.ApplyJobModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":         model.Status,
			"summary":        model.Summary,
			"error_text":     model.ErrorText,
			"config_files":   model.ConfigFiles,
			"backup_path":    model.BackupPath,
			"backup_skipped": model.BackupSkipped,
			"started_at":     model.StartedAt,
			"finished_at":    model.FinishedAt,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update apply job", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update apply job: %w", result.Error)
	}

	return nil
}

// GetByID retrieves an apply job by its ID.
func (r *ApplyJobRepositoryImpl) GetByID(ctx context.Context, id uint) (*apply.Job, error) {
	var model models.ApplyJobModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get apply job by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get apply job: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// List retrieves a paginated list of apply jobs, newest first.
func (r *ApplyJobRepositoryImpl) List(ctx context.Context, filter apply.JobListFilter) ([]*apply.Job, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ApplyJobModel{})

	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count apply jobs", "error", err)
		return nil, 0, fmt.Errorf("failed to count apply jobs: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.Order("created_at desc").Offset(offset).Limit(filter.PageSize)

	var jobModels []*models.ApplyJobModel
	if err := query.Find(&jobModels).Error; err != nil {
		r.logger.Errorw("failed to list apply jobs", "error", err)
		return nil, 0, fmt.Errorf("failed to list apply jobs: %w", err)
	}

	entities, err := r.mapper.ToEntities(jobModels)
	if err != nil {
		r.logger.Errorw("failed to map apply job models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map apply jobs: %w", err)
	}

	return entities, total, nil
}
