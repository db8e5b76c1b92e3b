package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// GormAutoMigrateStrategy implements migration using GORM AutoMigrate
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM AutoMigrate strategy
func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

// Migrate executes GORM AutoMigrate for the given models
func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	s.logger.Infow("starting GORM AutoMigrate", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("GORM AutoMigrate completed successfully")
	return nil
}

// GetName returns the strategy name
func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// AutoMigrateModels returns every persistence model registered for
// schema migration.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.TenantModel{},
		&models.UserModel{},
		&models.PhoneNumberModel{},
		&models.DIDAssignmentModel{},
		&models.ApplyJobModel{},
		&models.AuditLogModel{},
	}
}
