package models

import (
	"time"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// TenantModel represents the database persistence model for tenants.
type TenantModel struct {
	ID                    uint   `gorm:"primarykey"`
	Name                  string `gorm:"not null;size:100;uniqueIndex:idx_tenant_name"`
	Status                string `gorm:"not null;default:active;size:20;index:idx_tenant_status"`
	ExtMin                int    `gorm:"column:ext_min;not null"`
	ExtMax                int    `gorm:"column:ext_max;not null"`
	ExtNext               int    `gorm:"column:ext_next;not null"`
	DefaultInboundContext string `gorm:"column:default_inbound_context;size:80"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM.
func (TenantModel) TableName() string {
	return constants.TableTenants
}
