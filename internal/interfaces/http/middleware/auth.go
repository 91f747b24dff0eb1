// Package middleware holds the gin middleware of the REST API.
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys
const (
	ClaimsKey    = "auth_claims"
	PrincipalKey = "auth_principal"
	RequestIDKey = "request_id"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// TokenValidator checks an access token, including revocation
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error)
}

// Principal is the authenticated caller of a request
type Principal struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	BranchID *uuid.UUID
	Role     identity.Role
}

// PrincipalFromClaims parses the ids carried by a token
func PrincipalFromClaims(claims *auth.Claims) (Principal, error) {
	tenantID, err := claims.TenantUUID()
	if err != nil {
		return Principal{}, auth.ErrInvalidClaims
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return Principal{}, auth.ErrInvalidClaims
	}
	return Principal{
		TenantID: tenantID,
		UserID:   userID,
		BranchID: claims.BranchUUID(),
		Role:     identity.Role(claims.Role),
	}, nil
}

// BearerToken returns the token of an "Authorization: Bearer" header
func BearerToken(c *gin.Context) string {
	h := c.GetHeader(authHeader)
	if !strings.HasPrefix(h, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
}

// JWTAuth rejects requests without a valid access token and stores the
// caller in the gin and request contexts.
func JWTAuth(validator TokenValidator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}
		claims, err := validator.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			log.Debug("Access token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortWithError(c, authErrorCode(err), authErrorMessage(err))
			return
		}
		p, err := PrincipalFromClaims(claims)
		if err != nil {
			abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token claims")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(PrincipalKey, p)
		ctx := logger.WithTenant(c.Request.Context(), p.TenantID.String())
		ctx = logger.WithUser(ctx, p.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole allows callers whose role is at least min
func RequireRole(min identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !p.Role.AtLeast(min) {
			abortWithError(c, dto.ErrCodeForbidden, "Requires role "+string(min)+" or above")
			return
		}
		c.Next()
	}
}

// RequireRoles allows callers holding exactly one of roles
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			abortWithError(c, dto.ErrCodeForbidden, "Insufficient role")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the caller set by JWTAuth
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// GetClaims returns the raw token claims set by JWTAuth
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func authErrorCode(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return dto.ErrCodeTokenRevoked
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenInvalid
	}
	return dto.ErrCodeUnauthorized
}

func authErrorMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "Invalid token"
}

// abortWithError writes the standard error envelope
func abortWithError(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}
