package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type jwtValidator struct {
	svc     *auth.JWTService
	revoked bool
}

func (v jwtValidator) ValidateAccessToken(_ context.Context, token string) (*auth.Claims, error) {
	if v.revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	return v.svc.ValidateAccessToken(token)
}

func newTestJWTService(ttl time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  ttl,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "loro-test",
	})
}

func issue(t *testing.T, svc *auth.JWTService, role identity.Role) (string, auth.Subject) {
	t.Helper()
	branch := uuid.New()
	sub := auth.Subject{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		BranchID: &branch,
		Email:    "field@example.com",
		Role:     string(role),
	}
	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	return pair.AccessToken, sub
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, sub := issue(t, svc, identity.RoleSupervisor)

	r := gin.New()
	r.Use(JWTAuth(jwtValidator{svc: svc}, nil))
	r.GET("/me", func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		require.True(t, ok)
		assert.Equal(t, sub.TenantID, p.TenantID)
		assert.Equal(t, sub.UserID, p.UserID)
		require.NotNil(t, p.BranchID)
		assert.Equal(t, *sub.BranchID, *p.BranchID)
		assert.Equal(t, identity.RoleSupervisor, p.Role)
		assert.NotNil(t, GetClaims(c))
		assert.Equal(t, sub.TenantID.String(), logger.TenantID(c.Request.Context()))
		assert.Equal(t, sub.UserID.String(), logger.UserID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, _ := issue(t, svc, identity.RoleUser)
	expired, _ := issue(t, newTestJWTService(-time.Minute), identity.RoleUser)

	tests := []struct {
		name      string
		header    string
		validator TokenValidator
		code      string
	}{
		{"missing header", "", jwtValidator{svc: svc}, dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", jwtValidator{svc: svc}, dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", jwtValidator{svc: svc}, dto.ErrCodeTokenInvalid},
		{"expired", "Bearer " + expired, jwtValidator{svc: svc}, dto.ErrCodeTokenExpired},
		{"revoked", "Bearer " + token, jwtValidator{svc: svc, revoked: true}, dto.ErrCodeTokenRevoked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(JWTAuth(tt.validator, nil))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	tests := []struct {
		role   identity.Role
		status int
	}{
		{identity.RoleAdmin, http.StatusOK},
		{identity.RoleManager, http.StatusOK},
		{identity.RoleSupervisor, http.StatusForbidden},
		{identity.RoleUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			token, _ := issue(t, svc, tt.role)
			r := gin.New()
			r.Use(JWTAuth(jwtValidator{svc: svc}, nil), RequireRole(identity.RoleManager))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireRoles_ExactMatch(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, _ := issue(t, svc, identity.RoleAdmin)

	r := gin.New()
	r.Use(JWTAuth(jwtValidator{svc: svc}, nil), RequireRoles(identity.RoleSupervisor, identity.RoleUser))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, w).Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.Use(RequireRole(identity.RoleUser))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
