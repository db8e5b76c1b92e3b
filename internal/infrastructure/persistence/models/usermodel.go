package models

import (
	"time"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// UserModel represents the database persistence model for telephony users.
// Extension uniqueness is scoped to the tenant; deletion is logical via the
// status column so the extension stays reserved.
type UserModel struct {
	ID              uint   `gorm:"primarykey"`
	TenantID        uint   `gorm:"column:tenant_id;not null;index:idx_user_tenant_id;uniqueIndex:idx_user_tenant_extension"`
	Name            string `gorm:"not null;size:100"`
	Email           string `gorm:"not null;size:255;uniqueIndex:idx_user_email"`
	Extension       int    `gorm:"not null;uniqueIndex:idx_user_tenant_extension"`
	SIPSecret       string `gorm:"column:sip_secret;not null;size:64"`
	DNDEnabled      bool   `gorm:"column:dnd_enabled;not null;default:false"`
	CallForwardDest string `gorm:"column:call_forward_destination;size:50"`
	VoicemailOn     bool   `gorm:"column:voicemail_enabled;not null;default:true"`
	Status          string `gorm:"not null;default:active;size:20;index:idx_user_status"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM.
func (UserModel) TableName() string {
	return constants.TableUsers
}
