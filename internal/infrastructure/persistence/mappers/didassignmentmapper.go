package mappers

import (
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
)

// DIDAssignmentMapper handles the conversion between domain entities and persistence models.
type DIDAssignmentMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.DIDAssignmentModel) (*did.Assignment, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *did.Assignment) (*models.DIDAssignmentModel, error)

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.DIDAssignmentModel) ([]*did.Assignment, error)
}

// DIDAssignmentMapperImpl is the concrete implementation of DIDAssignmentMapper.
type DIDAssignmentMapperImpl struct{}

// NewDIDAssignmentMapper creates a new DID assignment mapper.
func NewDIDAssignmentMapper() DIDAssignmentMapper {
	return &DIDAssignmentMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity. The variant
// invariant (entity targets carry an ID, external targets a context) is
// enforced by ReconstructAssignment.
func (m *DIDAssignmentMapperImpl) ToEntity(model *models.DIDAssignmentModel) (*did.Assignment, error) {
	if model == nil {
		return nil, nil
	}

	var targetID uint
	if model.TargetID != nil {
		targetID = *model.TargetID
	}

	entity, err := did.ReconstructAssignment(
		model.ID,
		model.PhoneNumberID,
		did.TargetType(model.TargetType),
		targetID,
		model.TargetContext,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *DIDAssignmentMapperImpl) ToModel(entity *did.Assignment) (*models.DIDAssignmentModel, error) {
	if entity == nil {
		return nil, nil
	}

	target := entity.Target()

	var targetID *uint
	if target.EntityID() != 0 {
		id := target.EntityID()
		targetID = &id
	}

	return &models.DIDAssignmentModel{
		ID:            entity.ID(),
		PhoneNumberID: entity.PhoneNumberID(),
		TargetType:    string(target.Kind()),
		TargetID:      targetID,
		TargetContext: target.Context(),
		CreatedAt:     entity.CreatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *DIDAssignmentMapperImpl) ToEntities(assignmentModels []*models.DIDAssignmentModel) ([]*did.Assignment, error) {
	entities := make([]*did.Assignment, 0, len(assignmentModels))

	for _, model := range assignmentModels {
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
