package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centrex-inc/centrex/internal/application/user/usecases"
	"github.com/centrex-inc/centrex/internal/interfaces/http/middleware"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
	"github.com/centrex-inc/centrex/internal/shared/utils"
)

// UserHandler exposes user CRUD over HTTP. The SIP secret appears exactly
// once, in the creation response.
type UserHandler struct {
	createUC *usecases.CreateUserUseCase
	getUC    *usecases.GetUserUseCase
	listUC   *usecases.ListUsersUseCase
	updateUC *usecases.UpdateUserUseCase
	deleteUC *usecases.DeleteUserUseCase
	logger   logger.Interface
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	createUC *usecases.CreateUserUseCase,
	getUC *usecases.GetUserUseCase,
	listUC *usecases.ListUsersUseCase,
	updateUC *usecases.UpdateUserUseCase,
	deleteUC *usecases.DeleteUserUseCase,
	logger logger.Interface,
) *UserHandler {
	return &UserHandler{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		logger:   logger,
	}
}

// CreateUserRequest is the payload for POST /users.
type CreateUserRequest struct {
	TenantID uint   `json:"tenant_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is the payload for PUT /users/:id. Absent fields stay
// unchanged; an explicit empty call_forward_destination clears forwarding.
type UpdateUserRequest struct {
	Name                   *string `json:"name"`
	Email                  *string `json:"email"`
	DNDEnabled             *bool   `json:"dnd_enabled"`
	CallForwardDestination *string `json:"call_forward_destination"`
	VoicemailEnabled       *bool   `json:"voicemail_enabled"`
	Status                 *string `json:"status"`
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateUserCommand{
		TenantID: req.TenantID,
		Name:     req.Name,
		Email:    req.Email,
		Meta:     middleware.GetMeta(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "User created successfully")
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
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

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
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

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListUsersQuery{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Users, result.Total, page, pageSize)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update user", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", bindingErrorDetail(err)))
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateUserCommand{
		ID:                     id,
		Name:                   req.Name,
		Email:                  req.Email,
		DNDEnabled:             req.DNDEnabled,
		CallForwardDestination: req.CallForwardDestination,
		VoicemailEnabled:       req.VoicemailEnabled,
		Status:                 req.Status,
		Meta:                   middleware.GetMeta(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", result)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteUserCommand{
		ID:   id,
		Meta: middleware.GetMeta(c),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
