package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
)

// AuditLogMapper handles the conversion between domain entities and persistence models.
type AuditLogMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.AuditLogModel) (*audit.Entry, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *audit.Entry) (*models.AuditLogModel, error)

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.AuditLogModel) ([]*audit.Entry, error)
}

// AuditLogMapperImpl is the concrete implementation of AuditLogMapper.
type AuditLogMapperImpl struct{}

// NewAuditLogMapper creates a new audit log mapper.
func NewAuditLogMapper() AuditLogMapper {
	return &AuditLogMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *AuditLogMapperImpl) ToEntity(model *models.AuditLogModel) (*audit.Entry, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := audit.ReconstructEntry(
		model.ID,
		model.Actor,
		audit.Action(model.Action),
		model.EntityType,
		model.EntityID,
		json.RawMessage(model.Before),
		json.RawMessage(model.After),
		model.SourceIP,
		model.UserAgent,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct audit entry: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *AuditLogMapperImpl) ToModel(entity *audit.Entry) (*models.AuditLogModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.AuditLogModel{
		ID:         entity.ID(),
		Actor:      entity.Actor(),
		Action:     string(entity.Action()),
		EntityType: entity.EntityType(),
		EntityID:   entity.EntityID(),
		Before:     datatypes.JSON(entity.Before()),
		After:      datatypes.JSON(entity.After()),
		SourceIP:   entity.SourceIP(),
		UserAgent:  entity.UserAgent(),
		CreatedAt:  entity.CreatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *AuditLogMapperImpl) ToEntities(entryModels []*models.AuditLogModel) ([]*audit.Entry, error) {
	entities := make([]*audit.Entry, 0, len(entryModels))

	for _, model := range entryModels {
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
