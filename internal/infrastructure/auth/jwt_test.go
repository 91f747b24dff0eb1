package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 testSecret,
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "loro-test",
	})
}

func newTestSubject() Subject {
	branch := uuid.New()
	return Subject{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		BranchID: &branch,
		Email:    "agent@example.com",
		Role:     "MANAGER",
	}
}

func TestNewJWTService_Defaults(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret})
	assert.Equal(t, 15*time.Minute, svc.AccessTokenExpiration())
	assert.Equal(t, 7*24*time.Hour, svc.refreshExpiration)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	tenantID, err := claims.TenantUUID()
	require.NoError(t, err)
	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.TenantID, tenantID)
	assert.Equal(t, sub.UserID, userID)
	assert.Equal(t, sub.BranchID, claims.BranchUUID())
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "loro-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role, "refresh tokens carry identity only")
	assert.Nil(t, refresh.BranchUUID())
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestGenerateTokenPair_WithoutBranch(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()
	sub.BranchID = nil

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, claims.BranchUUID())
}

func TestValidate_Failures(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	t.Run("wrong token type", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
		_, err = svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-that-is-32-chars-long"})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(time.Hour) }
		defer func() { svc.now = time.Now }()
		_, err := svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
		defer func() { svc.now = time.Now }()
		_, err := svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := svc.claims(newTestSubject(), TokenTypeAccess, time.Now(), time.Now().Add(time.Minute))
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant", func(t *testing.T) {
		claims := svc.claims(newTestSubject(), TokenTypeAccess, time.Now(), time.Now().Add(time.Minute))
		claims.TenantID = ""
		token, err := svc.sign(claims)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})
}

func TestClaims_RemainingTTL(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute))}}
	assert.InDelta(t, float64(10*time.Minute), float64(c.RemainingTTL(now)), float64(time.Second))
	assert.Zero(t, c.RemainingTTL(now.Add(time.Hour)))
	assert.Zero(t, (&Claims{}).RemainingTTL(now))
}
