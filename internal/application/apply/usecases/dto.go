package usecases

import (
	"time"

	"github.com/centrex-inc/centrex/internal/domain/apply"
)

// JobResult is the read representation of an apply job.
type JobResult struct {
	ID            uint     `json:"id"`
	Actor         string   `json:"actor"`
	TenantID      uint     `json:"tenant_id,omitempty"`
	Status        string   `json:"status"`
	Summary       string   `json:"summary,omitempty"`
	ErrorText     string   `json:"error_text,omitempty"`
	ConfigFiles   []string `json:"config_files,omitempty"`
	BackupPath    string   `json:"backup_path,omitempty"`
	BackupSkipped bool     `json:"backup_skipped"`
	StartedAt     string   `json:"started_at,omitempty"`
	FinishedAt    string   `json:"finished_at,omitempty"`
	DurationMS    int64    `json:"duration_ms,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func newJobResult(j *apply.Job) *JobResult {
	result := &JobResult{
		ID:            j.ID(),
		Actor:         j.Actor(),
		TenantID:      j.TenantID(),
		Status:        string(j.Status()),
		Summary:       j.Summary(),
		ErrorText:     j.ErrorText(),
		ConfigFiles:   j.ConfigFiles(),
		BackupPath:    j.BackupPath(),
		BackupSkipped: j.BackupSkipped(),
		CreatedAt:     j.CreatedAt().Format(time.RFC3339),
	}
	if j.StartedAt() != nil {
		result.StartedAt = j.StartedAt().Format(time.RFC3339)
	}
	if j.FinishedAt() != nil {
		result.FinishedAt = j.FinishedAt().Format(time.RFC3339)
		result.DurationMS = j.Duration().Milliseconds()
	}
	return result
}
