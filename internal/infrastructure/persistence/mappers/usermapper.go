package mappers

import (
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between domain entities and persistence models.
type UserMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.UserModel) (*user.User, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *user.User) (*models.UserModel, error)

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

// UserMapperImpl is the concrete implementation of UserMapper.
type UserMapperImpl struct{}

// NewUserMapper creates a new user mapper.
func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := user.ReconstructUser(
		model.ID,
		model.TenantID,
		model.Name,
		model.Email,
		model.Extension,
		model.SIPSecret,
		model.DNDEnabled,
		model.CallForwardDest,
		model.VoicemailOn,
		user.Status(model.Status),
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *UserMapperImpl) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UserModel{
		ID:              entity.ID(),
		TenantID:        entity.TenantID(),
		Name:            entity.Name(),
		Email:           entity.Email(),
		Extension:       entity.Extension(),
		SIPSecret:       entity.SIPSecret(),
		DNDEnabled:      entity.DNDEnabled(),
		CallForwardDest: entity.CallForwardDestination(),
		VoicemailOn:     entity.VoicemailEnabled(),
		Status:          string(entity.Status()),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *UserMapperImpl) ToEntities(userModels []*models.UserModel) ([]*user.User, error) {
	entities := make([]*user.User, 0, len(userModels))

	for _, model := range userModels {
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
