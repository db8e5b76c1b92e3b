package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centrex-inc/centrex/internal/application/apply/usecases"
	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/interfaces/http/middleware"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
	"github.com/centrex-inc/centrex/internal/shared/utils"
)

// ApplyHandler exposes the apply engine over HTTP: trigger a run, dry-run
// validation, and job history.
type ApplyHandler struct {
	applyUC    *usecases.ApplyConfigurationUseCase
	validateUC *usecases.ValidateConfigurationUseCase
	getUC      *usecases.GetApplyJobUseCase
	listUC     *usecases.ListApplyJobsUseCase
	logger     logger.Interface
}

// NewApplyHandler creates a new ApplyHandler.
func NewApplyHandler(
	applyUC *usecases.ApplyConfigurationUseCase,
	validateUC *usecases.ValidateConfigurationUseCase,
	getUC *usecases.GetApplyJobUseCase,
	listUC *usecases.ListApplyJobsUseCase,
	logger logger.Interface,
) *ApplyHandler {
	return &ApplyHandler{
		applyUC:    applyUC,
		validateUC: validateUC,
		getUC:      getUC,
		listUC:     listUC,
		logger:     logger,
	}
}

// ApplyRequest is the payload for POST /apply.
type ApplyRequest struct {
	TenantID uint `json:"tenant_id"`
	Force    bool `json:"force"`
}

// Apply handles POST /apply
func (h *ApplyHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
			return
		}
	}

	result, err := h.applyUC.Execute(c.Request.Context(), usecases.ApplyConfigurationCommand{
		TenantID: req.TenantID,
		Force:    req.Force,
		Meta:     middleware.GetMeta(c),
	})
	if err != nil {
		h.respondApplyError(c, result, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Configuration applied successfully", result)
}

// respondApplyError returns the job record alongside the failure so the
// client sees what state the run ended in.
func (h *ApplyHandler) respondApplyError(c *gin.Context, job *usecases.JobResult, err error) {
	var validationErr *apply.ValidationError
	switch {
	case stderrors.Is(err, apply.ErrApplyInProgress):
		c.JSON(http.StatusConflict, utils.APIResponse{
			Success: false,
			Data:    job,
			Error:   &utils.ErrorInfo{Type: "conflict", Message: err.Error()},
		})
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, utils.APIResponse{
			Success: false,
			Data:    gin.H{"job": job, "report": validationErr.Report},
			Error:   &utils.ErrorInfo{Type: "validation", Message: "configuration validation failed"},
		})
	case job != nil:
		c.JSON(http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Data:    job,
			Error:   &utils.ErrorInfo{Type: "internal", Message: err.Error()},
		})
	default:
		utils.ErrorResponseWithError(c, err)
	}
}

// Validate handles POST /apply/validate
func (h *ApplyHandler) Validate(c *gin.Context) {
	report, err := h.validateUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// GetJob handles GET /apply/jobs/:id
func (h *ApplyHandler) GetJob(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetApplyJobCommand{ID: id})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListJobs handles GET /apply/jobs
func (h *ApplyHandler) ListJobs(c *gin.Context) {
	page, pageSize := utils.ParsePagination(c)

	var tenantID uint
	if raw := c.Query("tenant_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid tenant_id parameter"))
			return
		}
		tenantID = uint(parsed)
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListApplyJobsCommand{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		Status:   c.Query("status"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Jobs, result.Total, page, pageSize)
}
