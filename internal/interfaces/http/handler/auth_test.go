package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	identityapp "github.com/loro/backend/internal/application/identity"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) SignIn(ctx context.Context, req identityapp.SignInRequest) (*identityapp.SignInResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*identityapp.SignInResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.TokenResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*identityapp.TokenResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) SignOut(ctx context.Context, access *auth.Claims, req identityapp.SignOutRequest) error {
	return m.Called(ctx, access, req).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, tenantID, userID)
	res, _ := args.Get(0).(*identityapp.UserResponse)
	return res, args.Error(1)
}

func authEngine(svc *mockAuthService) http.Handler {
	h := NewAuthHandler(svc)
	pr := principal(identity.RoleUser)
	r := newEngine(&pr)
	r.POST("/auth/sign-in", h.SignIn)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/sign-out", h.SignOut)
	r.GET("/auth/me", h.Me)
	return r
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("returns the token pair", func(t *testing.T) {
		svc := new(mockAuthService)
		req := identityapp.SignInRequest{Email: "jane@acme.test", Password: "secret"}
		svc.On("SignIn", mock.Anything, req).Return(&identityapp.SignInResponse{
			TokenResponse: identityapp.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"},
		}, nil)

		w := do(authEngine(svc), http.MethodPost, "/auth/sign-in", req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"access_token":"a"`)
		svc.AssertExpectations(t)
	})

	t.Run("malformed email is a validation error", func(t *testing.T) {
		svc := new(mockAuthService)

		w := do(authEngine(svc), http.MethodPost, "/auth/sign-in", map[string]string{"email": "nope", "password": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
		svc.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	})

	t.Run("wrong credentials are unauthorized", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("SignIn", mock.Anything, mock.Anything).Return(nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password"))

		w := do(authEngine(svc), http.MethodPost, "/auth/sign-in", map[string]string{"email": "jane@acme.test", "password": "bad"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})
}

func TestAuthHandler_SignOutWithoutBody(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("SignOut", mock.Anything, (*auth.Claims)(nil), identityapp.SignOutRequest{}).Return(nil)

	w := do(authEngine(svc), http.MethodPost, "/auth/sign-out", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_MeUsesPrincipal(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Me", mock.Anything, testTenant, testUser).Return(&identityapp.UserResponse{ID: testUser}, nil)

	w := do(authEngine(svc), http.MethodGet, "/auth/me", nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}
