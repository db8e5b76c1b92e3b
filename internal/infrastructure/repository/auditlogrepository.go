package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/mappers"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/db"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// AuditLogRepositoryImpl implements the audit.Repository interface.
type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AuditLogMapper
	logger logger.Interface
}

// NewAuditLogRepository creates a new audit log repository instance.
func NewAuditLogRepository(gdb *gorm.DB, logger logger.Interface) audit.Repository {
	return &AuditLogRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAuditLogMapper(),
		logger: logger,
	}
}

// Create appends an audit entry.
func (r *AuditLogRepositoryImpl) Create(ctx context.Context, entry *audit.Entry) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		r.logger.Errorw("failed to map audit entry to model", "error", err)
		return fmt.Errorf("failed to map audit entry: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create audit entry in database", "error", err)
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	if err := entry.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set audit entry ID", "error", err)
		return fmt.Errorf("failed to set audit entry ID: %w", err)
	}

	return nil
}

// List retrieves a paginated list of audit entries, newest first.
func (r *AuditLogRepositoryImpl) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AuditLogModel{})

	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count audit entries", "error", err)
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.Order("created_at desc").Offset(offset).Limit(filter.PageSize)

	var entryModels []*models.AuditLogModel
	if err := query.Find(&entryModels).Error; err != nil {
		r.logger.Errorw("failed to list audit entries", "error", err)
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entities, err := r.mapper.ToEntities(entryModels)
	if err != nil {
		r.logger.Errorw("failed to map audit entry models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map audit entries: %w", err)
	}

	return entities, total, nil
}
