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

// DIDAssignmentRepositoryImpl implements the did.AssignmentRepository interface.
type DIDAssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.DIDAssignmentMapper
	logger logger.Interface
}

// NewDIDAssignmentRepository creates a new DID assignment repository instance.
func NewDIDAssignmentRepository(gdb *gorm.DB, logger logger.Interface) did.AssignmentRepository {
	return &DIDAssignmentRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewDIDAssignmentMapper(),
		logger: logger,
	}
}

// Create creates a new assignment. The unique index on phone_number_id backs
// the 1:1 invariant; its violation comes back as did.ErrAlreadyAssigned so
// callers can surface a conflict instead of a generic database error.
func (r *DIDAssignmentRepositoryImpl) Create(ctx context.Context, entity *did.Assignment) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map assignment entity to model", "error", err)
		return fmt.Errorf("failed to map assignment entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return did.ErrAlreadyAssigned
		}
		r.logger.Errorw("failed to create assignment in database", "error", err)
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set assignment ID", "error", err)
		return fmt.Errorf("failed to set assignment ID: %w", err)
	}

	return nil
}

// GetByPhoneNumberID retrieves the assignment of a phone number.
func (r *DIDAssignmentRepositoryImpl) GetByPhoneNumberID(ctx context.Context, phoneNumberID uint) (*did.Assignment, error) {
	var model models.DIDAssignmentModel

	if err := db.GetTxFromContext(ctx, r.db).Where("phone_number_id = ?", phoneNumberID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get assignment", "phone_number_id", phoneNumberID, "error", err)
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// DeleteByPhoneNumberID removes the assignment of a phone number.
func (r *DIDAssignmentRepositoryImpl) DeleteByPhoneNumberID(ctx context.Context, phoneNumberID uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("phone_number_id = ?", phoneNumberID).
		Delete(&models.DIDAssignmentModel{})

	if result.Error != nil {
		r.logger.Errorw("failed to delete assignment", "phone_number_id", phoneNumberID, "error", result.Error)
		return fmt.Errorf("failed to delete assignment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return did.ErrAssignmentNotFound
	}

	return nil
}

// ListAll returns every assignment.
func (r *DIDAssignmentRepositoryImpl) ListAll(ctx context.Context) ([]*did.Assignment, error) {
	var assignmentModels []*models.DIDAssignmentModel

	if err := db.GetTxFromContext(ctx, r.db).Order("id").Find(&assignmentModels).Error; err != nil {
		r.logger.Errorw("failed to list assignments", "error", err)
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return r.mapper.ToEntities(assignmentModels)
}
