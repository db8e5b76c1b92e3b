package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// AuditLogModel represents the database persistence model for audit entries.
// Rows are append-only; nothing updates or deletes them in normal operation.
type AuditLogModel struct {
	ID         uint           `gorm:"primarykey"`
	Actor      string         `gorm:"not null;size:255;index:idx_audit_log_actor"`
	Action     string         `gorm:"not null;size:20"`
	EntityType string         `gorm:"column:entity_type;not null;size:50;index:idx_audit_log_entity"`
	EntityID   uint           `gorm:"column:entity_id;index:idx_audit_log_entity"`
	Before     datatypes.JSON `gorm:"column:before_snapshot"`
	After      datatypes.JSON `gorm:"column:after_snapshot"`
	SourceIP   string         `gorm:"column:source_ip;size:45"`
	UserAgent  string         `gorm:"column:user_agent;size:255"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_log_created_at"`
}

// TableName specifies the table name for GORM.
func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
