package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/loro/backend/internal/application/identity"
	"github.com/loro/backend/internal/domain/identity"
)

// UserService is the user management use case consumed by UserHandler
type UserService interface {
	Create(ctx context.Context, tenantID, creatorID uuid.UUID, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.UserResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req identityapp.ListUsersRequest) ([]identityapp.UserResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req identityapp.UpdateUserRequest) (*identityapp.UserResponse, error)
	ChangePassword(ctx context.Context, tenantID, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID, req identityapp.ChangePasswordRequest) error
	Delete(ctx context.Context, tenantID, actorID, id uuid.UUID) error
}

// UserHandler serves /users
type UserHandler struct {
	BaseHandler
	svc UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identityapp.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req identityapp.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.svc.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search query string false "Name or email"
// @Param        role query string false "Role"
// @Param        status query string false "Status"
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req identityapp.ListUsersRequest
	if !h.BindQuery(c, &req) {
		return
	}
	users, total, err := h.svc.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, users, total, page, size)
}

// GetByID returns one user
func (h *UserHandler) GetByID(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update applies a partial update
func (h *UserHandler) Update(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.svc.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword lets users change their own password and admins reset any
func (h *UserHandler) ChangePassword(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), p.TenantID, p.UserID, p.Role, id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete soft-deletes a user
func (h *UserHandler) Delete(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p.TenantID, p.UserID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
