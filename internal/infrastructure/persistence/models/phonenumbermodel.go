package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// PhoneNumberModel represents the database persistence model for DIDs.
// TenantID is null exactly when the number is UNASSIGNED.
type PhoneNumberModel struct {
	ID               uint           `gorm:"primarykey"`
	Number           string         `gorm:"not null;size:20;uniqueIndex:idx_phone_number"`
	Status           string         `gorm:"not null;default:UNASSIGNED;size:20;index:idx_phone_number_status"`
	TenantID         *uint          `gorm:"column:tenant_id;index:idx_phone_number_tenant_id"`
	Provider         string         `gorm:"size:100"`
	ProviderMetadata datatypes.JSON `gorm:"column:provider_metadata"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM.
func (PhoneNumberModel) TableName() string {
	return constants.TablePhoneNumbers
}
