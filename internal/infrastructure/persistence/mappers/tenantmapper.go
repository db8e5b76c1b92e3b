package mappers

import (
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
)

// TenantMapper handles the conversion between domain entities and persistence models.
type TenantMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.TenantModel) (*tenant.Tenant, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *tenant.Tenant) (*models.TenantModel, error)

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.TenantModel) ([]*tenant.Tenant, error)
}

// TenantMapperImpl is the concrete implementation of TenantMapper.
type TenantMapperImpl struct{}

// NewTenantMapper creates a new tenant mapper.
func NewTenantMapper() TenantMapper {
	return &TenantMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *TenantMapperImpl) ToEntity(model *models.TenantModel) (*tenant.Tenant, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := tenant.ReconstructTenant(
		model.ID,
		model.Name,
		tenant.Status(model.Status),
		model.ExtMin,
		model.ExtMax,
		model.ExtNext,
		model.DefaultInboundContext,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct tenant entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *TenantMapperImpl) ToModel(entity *tenant.Tenant) (*models.TenantModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.TenantModel{
		ID:                    entity.ID(),
		Name:                  entity.Name(),
		Status:                string(entity.Status()),
		ExtMin:                entity.ExtMin(),
		ExtMax:                entity.ExtMax(),
		ExtNext:               entity.ExtNext(),
		DefaultInboundContext: entity.DefaultInboundContext(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *TenantMapperImpl) ToEntities(tenantModels []*models.TenantModel) ([]*tenant.Tenant, error) {
	entities := make([]*tenant.Tenant, 0, len(tenantModels))

	for _, model := range tenantModels {
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
