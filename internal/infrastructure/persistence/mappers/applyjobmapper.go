package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
)

// ApplyJobMapper handles the conversion between domain entities and persistence models.
type ApplyJobMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.ApplyJobModel) (*apply.Job, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *apply.Job) (*models.ApplyJobModel, error)

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.ApplyJobModel) ([]*apply.Job, error)
}

// ApplyJobMapperImpl is the concrete implementation of ApplyJobMapper.
type ApplyJobMapperImpl struct{}

// NewApplyJobMapper creates a new apply job mapper.
func NewApplyJobMapper() ApplyJobMapper {
	return &ApplyJobMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *ApplyJobMapperImpl) ToEntity(model *models.ApplyJobModel) (*apply.Job, error) {
	if model == nil {
		return nil, nil
	}

	var configFiles []string
	if model.ConfigFiles != nil {
		if err := json.Unmarshal(model.ConfigFiles, &configFiles); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config_files: %w", err)
		}
	}

	var tenantID uint
	if model.TenantID != nil {
		tenantID = *model.TenantID
	}

	entity, err := apply.ReconstructJob(
		model.ID,
		model.Actor,
		tenantID,
		apply.JobStatus(model.Status),
		model.Summary,
		model.ErrorText,
		configFiles,
		model.BackupPath,
		model.BackupSkipped,
		model.StartedAt,
		model.FinishedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct apply job entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *ApplyJobMapperImpl) ToModel(entity *apply.Job) (*models.ApplyJobModel, error) {
	if entity == nil {
		return nil, nil
	}

	var configFilesJSON datatypes.JSON
	if files := entity.ConfigFiles(); len(files) > 0 {
		filesBytes, err := json.Marshal(files)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config_files: %w", err)
		}
		configFilesJSON = filesBytes
	} else {
		configFilesJSON = []byte("[]")
	}

	var tenantID *uint
	if entity.TenantID() != 0 {
		id := entity.TenantID()
		tenantID = &id
	}

	return &models.ApplyJobModel{
		ID:            entity.ID(),
		Actor:         entity.Actor(),
		TenantID:      tenantID,
		Status:        string(entity.Status()),
		Summary:       entity.Summary(),
		ErrorText:     entity.ErrorText(),
		ConfigFiles:   configFilesJSON,
		BackupPath:    entity.BackupPath(),
		BackupSkipped: entity.BackupSkipped(),
		StartedAt:     entity.StartedAt(),
		FinishedAt:    entity.FinishedAt(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *ApplyJobMapperImpl) ToEntities(jobModels []*models.ApplyJobModel) ([]*apply.Job, error) {
	entities := make([]*apply.Job, 0, len(jobModels))

	for _, model := range jobModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model ID %d: %w", model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}

	return entities, nil
}
