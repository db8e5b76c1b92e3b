package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
	"github.com/centrex-inc/centrex/internal/shared/utils"
)

// AuditHandler exposes the read side of the audit log. There is no write
// side over HTTP; entries only come from mutations.
type AuditHandler struct {
	listUC *appaudit.ListLogsUseCase
	logger logger.Interface
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(listUC *appaudit.ListLogsUseCase, logger logger.Interface) *AuditHandler {
	return &AuditHandler{listUC: listUC, logger: logger}
}

// ListLogs handles GET /audit-logs
func (h *AuditHandler) ListLogs(c *gin.Context) {
	page, pageSize := utils.ParsePagination(c)

	var entityID uint
	if raw := c.Query("entity_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid entity_id parameter"))
			return
		}
		entityID = uint(parsed)
	}

	result, err := h.listUC.Execute(c.Request.Context(), appaudit.ListLogsQuery{
		Page:       page,
		PageSize:   pageSize,
		Actor:      c.Query("actor"),
		EntityType: c.Query("entity_type"),
		EntityID:   entityID,
		Action:     c.Query("action"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Entries, result.Total, page, pageSize)
}
