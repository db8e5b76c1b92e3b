package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centrex-inc/centrex/internal/application/did/usecases"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/interfaces/http/middleware"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
	"github.com/centrex-inc/centrex/internal/shared/utils"
)

// NumberHandler exposes the DID inventory over HTTP: bulk import plus the
// allocate/assign/unassign/deallocate lifecycle.
type NumberHandler struct {
	importUC     *usecases.ImportNumbersUseCase
	allocateUC   *usecases.AllocateNumberUseCase
	assignUC     *usecases.AssignNumberUseCase
	unassignUC   *usecases.UnassignNumberUseCase
	deallocateUC *usecases.DeallocateNumberUseCase
	listUC       *usecases.ListNumbersUseCase
	getUC        *usecases.GetNumberUseCase
	logger       logger.Interface
}

// NewNumberHandler creates a new NumberHandler.
func NewNumberHandler(
	importUC *usecases.ImportNumbersUseCase,
	allocateUC *usecases.AllocateNumberUseCase,
	assignUC *usecases.AssignNumberUseCase,
	unassignUC *usecases.UnassignNumberUseCase,
	deallocateUC *usecases.DeallocateNumberUseCase,
	listUC *usecases.ListNumbersUseCase,
	getUC *usecases.GetNumberUseCase,
	logger logger.Interface,
) *NumberHandler {
	return &NumberHandler{
		importUC:     importUC,
		allocateUC:   allocateUC,
		assignUC:     assignUC,
		unassignUC:   unassignUC,
		deallocateUC: deallocateUC,
		listUC:       listUC,
		getUC:        getUC,
		logger:       logger,
	}
}

// ImportNumbersRequest is the payload for POST /numbers/import.
type ImportNumbersRequest struct {
	Numbers          []string          `json:"numbers" binding:"required"`
	Provider         string            `json:"provider"`
	ProviderMetadata map[string]string `json:"provider_metadata"`
}

// AllocateNumberRequest is the payload for POST /numbers/:id/allocate.
type AllocateNumberRequest struct {
	TenantID uint `json:"tenant_id" binding:"required"`
}

// AssignNumberRequest is the payload for POST /numbers/:id/assign.
type AssignNumberRequest struct {
	TargetType    string `json:"target_type" binding:"required"`
	TargetID      uint   `json:"target_id"`
	TargetContext string `json:"target_context"`
}

// ImportNumbers handles POST /numbers/import
func (h *NumberHandler) ImportNumbers(c *gin.Context) {
	var req ImportNumbersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for import numbers", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.importUC.Execute(c.Request.Context(), usecases.ImportNumbersCommand{
		Numbers:          req.Numbers,
		Provider:         req.Provider,
		ProviderMetadata: req.ProviderMetadata,
		Meta:             middleware.GetMeta(c),
	})
	if err != nil {
		h.respondImportError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Numbers imported successfully")
}

// respondImportError keeps the per-number failure list in the response so
// the operator can fix the batch in one pass.
func (h *NumberHandler) respondImportError(c *gin.Context, err error) {
	var batchErr *did.BatchImportError
	if stderrors.As(err, &batchErr) {
		c.JSON(http.StatusUnprocessableEntity, utils.APIResponse{
			Success: false,
			Data:    gin.H{"errors": batchErr.Errors},
			Error: &utils.ErrorInfo{
				Type:    "validation",
				Message: batchErr.Error(),
			},
		})
		return
	}
	utils.ErrorResponseWithError(c, err)
}

// AllocateNumber handles POST /numbers/:id/allocate
func (h *NumberHandler) AllocateNumber(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AllocateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.allocateUC.Execute(c.Request.Context(), usecases.AllocateNumberCommand{
		PhoneNumberID: id,
		TenantID:      req.TenantID,
		Meta:          middleware.GetMeta(c),
	})
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Number allocated successfully", result)
}

// AssignNumber handles POST /numbers/:id/assign
func (h *NumberHandler) AssignNumber(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.assignUC.Execute(c.Request.Context(), usecases.AssignNumberCommand{
		PhoneNumberID: id,
		TargetType:    req.TargetType,
		TargetID:      req.TargetID,
		TargetContext: req.TargetContext,
		Meta:          middleware.GetMeta(c),
	})
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Number assigned successfully", result)
}

// UnassignNumber handles POST /numbers/:id/unassign
func (h *NumberHandler) UnassignNumber(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.unassignUC.Execute(c.Request.Context(), usecases.UnassignNumberCommand{
		PhoneNumberID: id,
		Meta:          middleware.GetMeta(c),
	})
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Number unassigned successfully", result)
}

// DeallocateNumber handles POST /numbers/:id/deallocate
func (h *NumberHandler) DeallocateNumber(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.deallocateUC.Execute(c.Request.Context(), usecases.DeallocateNumberCommand{
		PhoneNumberID: id,
		Meta:          middleware.GetMeta(c),
	})
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Number deallocated successfully", result)
}

// respondLifecycleError maps the domain's typed DID errors onto HTTP codes.
func (h *NumberHandler) respondLifecycleError(c *gin.Context, err error) {
	switch {
	case did.IsInvalidStateTransition(err):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case stderrors.Is(err, did.ErrAlreadyAssigned) || stderrors.Is(err, did.ErrCrossTenantAssignment):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		utils.ErrorResponseWithError(c, err)
	}
}

// ListNumbers handles GET /numbers
func (h *NumberHandler) ListNumbers(c *gin.Context) {
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

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListNumbersQuery{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Numbers, result.Total, page, pageSize)
}

// GetNumber handles GET /numbers/:id
func (h *NumberHandler) GetNumber(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
