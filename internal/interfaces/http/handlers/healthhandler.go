package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// HealthHandler reports service health: database reachability and the
// outcome of the most recent apply run.
type HealthHandler struct {
	db      *gorm.DB
	jobRepo apply.JobRepository
	logger  logger.Interface
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, jobRepo apply.JobRepository, logger logger.Interface) *HealthHandler {
	return &HealthHandler{db: db, jobRepo: jobRepo, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok"}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.logger.Errorw("database health check failed", "error", err)
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	} else {
		body["database"] = "ok"
	}

	jobs, _, err := h.jobRepo.List(c.Request.Context(), apply.JobListFilter{Page: 1, PageSize: 1})
	if err == nil && len(jobs) > 0 {
		body["last_apply"] = gin.H{
			"id":     jobs[0].ID(),
			"status": string(jobs[0].Status()),
		}
	}

	c.JSON(status, body)
}
