package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/centrex-inc/centrex/internal/shared/constants"
)

// ApplyJobModel represents the database persistence model for apply jobs.
// ConfigFiles holds the JSON list of files the apply touched, for rollback
// bookkeeping.
type ApplyJobModel struct {
	ID            uint   `gorm:"primarykey"`
	Actor         string `gorm:"not null;size:255"`
	TenantID      *uint  `gorm:"column:tenant_id;index:idx_apply_job_tenant_id"`
	Status        string `gorm:"not null;default:PENDING;size:20;index:idx_apply_job_status"`
	Summary       string `gorm:"size:500"`
	ErrorText     string `gorm:"column:error_text;type:text"`
	ConfigFiles   datatypes.JSON `gorm:"column:config_files"`
	BackupPath    string `gorm:"column:backup_path;size:255"`
	BackupSkipped bool   `gorm:"column:backup_skipped;not null;default:false"`
	StartedAt     *time.Time
	FinishedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM.
func (ApplyJobModel) TableName() string {
	return constants.TableApplyJobs
}
