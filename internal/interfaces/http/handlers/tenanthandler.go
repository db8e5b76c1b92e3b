package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centrex-inc/centrex/internal/application/tenant/usecases"
	"github.com/centrex-inc/centrex/internal/interfaces/http/middleware"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
	"github.com/centrex-inc/centrex/internal/shared/utils"
)

// TenantHandler exposes tenant CRUD over HTTP.
type TenantHandler struct {
	createUC *usecases.CreateTenantUseCase
	getUC    *usecases.GetTenantUseCase
	listUC   *usecases.ListTenantsUseCase
	updateUC *usecases.UpdateTenantUseCase
	deleteUC *usecases.DeleteTenantUseCase
	logger   logger.Interface
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(
	createUC *usecases.CreateTenantUseCase,
	getUC *usecases.GetTenantUseCase,
	listUC *usecases.ListTenantsUseCase,
	updateUC *usecases.UpdateTenantUseCase,
	deleteUC *usecases.DeleteTenantUseCase,
	logger logger.Interface,
) *TenantHandler {
	return &TenantHandler{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		logger:   logger,
	}
}

// CreateTenantRequest is the payload for POST /tenants.
type CreateTenantRequest struct {
	Name                  string `json:"name" binding:"required"`
	ExtMin                int    `json:"ext_min" binding:"required"`
	ExtMax                int    `json:"ext_max" binding:"required"`
	DefaultInboundContext string `json:"default_inbound_context"`
}

// UpdateTenantRequest is the payload for PUT /tenants/:id. Absent fields
// stay unchanged.
type UpdateTenantRequest struct {
	Name                  *string `json:"name"`
	Status                *string `json:"status"`
	ExtMin                *int    `json:"ext_min"`
	ExtMax                *int    `json:"ext_max"`
	DefaultInboundContext *string `json:"default_inbound_context"`
}

// CreateTenant handles POST /tenants
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create tenant", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateTenantCommand{
		Name:                  req.Name,
		ExtMin:                req.ExtMin,
		ExtMax:                req.ExtMax,
		DefaultInboundContext: req.DefaultInboundContext,
		Meta:                  middleware.GetMeta(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Tenant created successfully")
}

// GetTenant handles GET /tenants/:id
func (h *TenantHandler) GetTenant(c *gin.Context) {
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

// ListTenants handles GET /tenants
func (h *TenantHandler) ListTenants(c *gin.Context) {
	page, pageSize := utils.ParsePagination(c)

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListTenantsQuery{
		Page:     page,
		PageSize: pageSize,
		Name:     c.Query("name"),
		Status:   c.Query("status"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tenants, result.Total, page, pageSize)
}

// UpdateTenant handles PUT /tenants/:id
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update tenant", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateTenantCommand{
		ID:                    id,
		Name:                  req.Name,
		Status:                req.Status,
		ExtMin:                req.ExtMin,
		ExtMax:                req.ExtMax,
		DefaultInboundContext: req.DefaultInboundContext,
		Meta:                  middleware.GetMeta(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tenant updated successfully", result)
}

// DeleteTenant handles DELETE /tenants/:id
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteTenantCommand{
		ID:   id,
		Meta: middleware.GetMeta(c),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewBadRequestError("invalid id parameter")
	}
	return uint(id), nil
}
