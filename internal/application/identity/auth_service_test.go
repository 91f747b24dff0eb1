package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

const testPassword = "Password123"

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "loro-test",
	})
}

func newUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(uuid.New(), "agent@loro.test", testPassword, "Thandi", "Nkosi", role)
	require.NoError(t, err)
	branch := uuid.New()
	u.BranchID = &branch
	u.ClearDomainEvents()
	return u
}

func newAuthService(repo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist, *auth.JWTService) {
	jwt := newJWT()
	bl := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, jwt, bl, nil), bl, jwt
}

func TestAuthService_SignIn(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _, jwt := newAuthService(repo)
	user := newUser(t, identity.RoleSupervisor)
	repo.On("FindByEmail", mock.Anything, "agent@loro.test").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	resp, err := svc.SignIn(context.Background(), SignInRequest{Email: "agent@loro.test", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := jwt.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.TenantID.String(), claims.TenantID)
	assert.Equal(t, "SUPERVISOR", claims.Role)
	assert.Equal(t, user.BranchID, claims.BranchUUID())
}

func TestAuthService_SignIn_BadCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)
	user := newUser(t, identity.RoleUser)
	repo.On("FindByEmail", mock.Anything, "agent@loro.test").Return(user, nil)
	repo.On("FindByEmail", mock.Anything, "ghost@loro.test").Return(nil, shared.ErrNotFound)

	_, err := svc.SignIn(context.Background(), SignInRequest{Email: "agent@loro.test", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.SignIn(context.Background(), SignInRequest{Email: "ghost@loro.test", Password: testPassword})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_SignIn_InactiveAccount(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)
	user := newUser(t, identity.RoleUser)
	user.SetStatus(identity.UserStatusSuspended)
	repo.On("FindByEmail", mock.Anything, "agent@loro.test").Return(user, nil)

	_, err := svc.SignIn(context.Background(), SignInRequest{Email: "agent@loro.test", Password: testPassword})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _, jwt := newAuthService(repo)
	user := newUser(t, identity.RoleUser)
	repo.On("FindByID", mock.Anything, user.TenantID, user.ID).Return(user, nil)

	pair, err := jwt.GenerateTokenPair(auth.Subject{TenantID: user.TenantID, UserID: user.ID})
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	_, err = svc.Refresh(context.Background(), RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _, jwt := newAuthService(repo)
	pair, err := jwt.GenerateTokenPair(auth.Subject{TenantID: uuid.New(), UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshRequest{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignOutRevokesTokens(t *testing.T) {
	repo := new(MockUserRepository)
	svc, bl, jwt := newAuthService(repo)
	sub := auth.Subject{TenantID: uuid.New(), UserID: uuid.New()}
	pair, err := jwt.GenerateTokenPair(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), claims, SignOutRequest{RefreshToken: pair.RefreshToken}))

	_, err = svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	refreshClaims, err := jwt.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	revoked, err := bl.IsRevoked(context.Background(), refreshClaims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Me(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)
	user := newUser(t, identity.RoleUser)
	repo.On("FindByID", mock.Anything, user.TenantID, user.ID).Return(user, nil)

	me, err := svc.Me(context.Background(), user.TenantID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thandi Nkosi", me.FullName)

	require.NoError(t, user.Delete())
	_, err = svc.Me(context.Background(), user.TenantID, user.ID)
	assert.True(t, shared.IsNotFound(err))
}
