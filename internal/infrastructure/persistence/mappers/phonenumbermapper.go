package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
)

// PhoneNumberMapper handles the conversion between domain entities and persistence models.
type PhoneNumberMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.PhoneNumberModel) (*did.PhoneNumber, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *did.PhoneNumber) (*models.PhoneNumberModel, error)

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.PhoneNumberModel) ([]*did.PhoneNumber, error)
}

// PhoneNumberMapperImpl is the concrete implementation of PhoneNumberMapper.
type PhoneNumberMapperImpl struct{}

// NewPhoneNumberMapper creates a new phone number mapper.
func NewPhoneNumberMapper() PhoneNumberMapper {
	return &PhoneNumberMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *PhoneNumberMapperImpl) ToEntity(model *models.PhoneNumberModel) (*did.PhoneNumber, error) {
	if model == nil {
		return nil, nil
	}

	var tenantID uint
	if model.TenantID != nil {
		tenantID = *model.TenantID
	}

	var metadata map[string]string
	if len(model.ProviderMetadata) > 0 {
		if err := json.Unmarshal(model.ProviderMetadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode provider metadata for number %s: %w", model.Number, err)
		}
	}

	entity, err := did.ReconstructPhoneNumber(
		model.ID,
		model.Number,
		did.Status(model.Status),
		tenantID,
		model.Provider,
		metadata,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct phone number entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *PhoneNumberMapperImpl) ToModel(entity *did.PhoneNumber) (*models.PhoneNumberModel, error) {
	if entity == nil {
		return nil, nil
	}

	var tenantID *uint
	if entity.TenantID() != 0 {
		id := entity.TenantID()
		tenantID = &id
	}

	var metadata datatypes.JSON
	if entity.ProviderMetadata() != nil {
		raw, err := json.Marshal(entity.ProviderMetadata())
		if err != nil {
			return nil, fmt.Errorf("failed to encode provider metadata for number %s: %w", entity.Number(), err)
		}
		metadata = datatypes.JSON(raw)
	}

	return &models.PhoneNumberModel{
		ID:               entity.ID(),
		Number:           entity.Number(),
		Status:           string(entity.Status()),
		TenantID:         tenantID,
		Provider:         entity.Provider(),
		ProviderMetadata: metadata,
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *PhoneNumberMapperImpl) ToEntities(numberModels []*models.PhoneNumberModel) ([]*did.PhoneNumber, error) {
	entities := make([]*did.PhoneNumber, 0, len(numberModels))

	for _, model := range numberModels {
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
