package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/loro/backend/internal/application/identity"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/interfaces/http/middleware"
)

// AuthService is the authentication use case consumed by AuthHandler
type AuthService interface {
	SignIn(ctx context.Context, req identityapp.SignInRequest) (*identityapp.SignInResponse, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.TokenResponse, error)
	SignOut(ctx context.Context, access *auth.Claims, req identityapp.SignOutRequest) error
	Me(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.UserResponse, error)
}

// AuthHandler serves /auth
type AuthHandler struct {
	BaseHandler
	svc AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// SignIn godoc
// @Summary      Sign in
// @Description  Exchange email and password for an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.SignInRequest true "Credentials"
// @Success      200 {object} APIResponse[identityapp.SignInResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.svc.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Rotate a refresh token into a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.TokenResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revoke the current access token and optionally the refresh token
// @Tags         auth
// @Accept       json
// @Param        request body identityapp.SignOutRequest false "Refresh token to revoke"
// @Success      204
// @Security     BearerAuth
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req identityapp.SignOutRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	if err := h.svc.SignOut(c.Request.Context(), middleware.GetClaims(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	user, err := h.svc.Me(c.Request.Context(), p.TenantID, p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
