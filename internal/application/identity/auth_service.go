package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// AuthService handles sign-in, token refresh and sign-out
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     log.Named("auth_service"),
		now:        time.Now,
	}
}

// SignIn authenticates by email and password and issues a token pair
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	log := logger.Enrich(ctx, s.logger)

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			log.Warn("Sign-in for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.CanSignIn() {
		log.Warn("Sign-in for inactive account", zap.String("user_id", user.ID.String()), zap.String("status", string(user.Status)))
		return nil, shared.NewDomainError("FORBIDDEN", "Account is not active")
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		// The tokens are valid either way
		log.Error("Failed to record login", zap.Error(err))
	}

	log.Info("User signed in", zap.String("user_id", user.ID.String()))
	return &SignInResponse{TokenResponse: *pair, User: ToUserResponse(user)}, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	tenantID, err := claims.TenantUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}

	user, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "User no longer exists")
		}
		return nil, err
	}
	if !user.CanSignIn() {
		return nil, shared.NewDomainError("FORBIDDEN", "Account is not active")
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)

	logger.Enrich(ctx, s.logger).Info("Token refreshed", zap.String("user_id", userID.String()))
	return pair, nil
}

// SignOut revokes the access token and, when given, the refresh token
func (s *AuthService) SignOut(ctx context.Context, access *auth.Claims, req SignOutRequest) error {
	if access == nil {
		return shared.ErrUnauthorized
	}
	s.revoke(ctx, access)
	if req.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken); err == nil && claims.UserID == access.UserID {
			s.revoke(ctx, claims)
		}
	}
	logger.Enrich(ctx, s.logger).Info("User signed out", zap.String("user_id", access.UserID))
	return nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user.Deleted() {
		return nil, shared.ErrNotFound
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ValidateAccessToken checks signature, expiry and revocation of an access token
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) issue(user *identity.User) (*TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		TenantID: user.TenantID,
		UserID:   user.ID,
		BranchID: user.BranchID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return tokenError(auth.ErrTokenBlacklisted)
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil || claims.ID == "" {
		return
	}
	ttl := claims.RemainingTTL(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to revoke token", zap.Error(err))
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.WrapDomainError("UNAUTHORIZED", "Token has expired", err)
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.WrapDomainError("UNAUTHORIZED", "Token has been revoked", err)
	default:
		return shared.WrapDomainError("UNAUTHORIZED", "Invalid token", err)
	}
}
