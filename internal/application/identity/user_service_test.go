package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubSeatGuard struct{ err error }

func (s stubSeatGuard) CheckUserSeat(context.Context, uuid.UUID) error { return s.err }

type eventSink struct{ types []string }

func (e *eventSink) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		e.types = append(e.types, ev.EventType())
	}
	return nil
}

func TestUserService_Create(t *testing.T) {
	repo := new(MockUserRepository)
	sink := &eventSink{}
	svc := NewUserService(repo, sink, nil)
	tenantID, branch := uuid.New(), uuid.New()
	repo.On("ExistsByEmail", mock.Anything, "new@loro.test").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, uuid.New(), CreateUserRequest{
		Email:    "new@loro.test",
		Password: testPassword,
		Name:     "Sipho",
		Phone:    "+27 82 000 0000",
		BranchID: &branch,
	})
	require.NoError(t, err)
	assert.Equal(t, "USER", resp.Role)
	assert.Equal(t, &branch, resp.BranchID)
	assert.Equal(t, "+27 82 000 0000", resp.Phone)
	assert.Contains(t, sink.types, identity.EventTypeUserCreated)
	assert.Contains(t, sink.types, identity.EventTypeUserBranchChanged)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil)
	repo.On("ExistsByEmail", mock.Anything, "dup@loro.test").Return(true, nil)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateUserRequest{
		Email: "dup@loro.test", Password: testPassword, Name: "Dup",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestUserService_Create_SeatLimit(t *testing.T) {
	repo := new(MockUserRepository)
	full := shared.NewDomainError("LICENSE_LIMIT_EXCEEDED", "User limit reached")
	svc := NewUserService(repo, nil, nil, WithSeatGuard(stubSeatGuard{err: full}))
	repo.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateUserRequest{
		Email: "x@loro.test", Password: testPassword, Name: "X",
	})
	assert.ErrorIs(t, err, full)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_ChangePassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil)
	user := newUser(t, identity.RoleUser)
	repo.On("FindByID", mock.Anything, user.TenantID, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	ctx := context.Background()
	err := svc.ChangePassword(ctx, user.TenantID, user.ID, identity.RoleUser, user.ID, ChangePasswordRequest{
		OldPassword: "wrong-pass1", NewPassword: "NewPassword1",
	})
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.TenantID, user.ID, identity.RoleUser, user.ID, ChangePasswordRequest{
		OldPassword: testPassword, NewPassword: "NewPassword1",
	}))
	assert.True(t, user.VerifyPassword("NewPassword1"))

	err = svc.ChangePassword(ctx, user.TenantID, uuid.New(), identity.RoleManager, user.ID, ChangePasswordRequest{NewPassword: "Another123"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	require.NoError(t, svc.ChangePassword(ctx, user.TenantID, uuid.New(), identity.RoleAdmin, user.ID, ChangePasswordRequest{NewPassword: "Another123"}))
	assert.True(t, user.VerifyPassword("Another123"))
}

func TestUserService_UpdateBranchAndRole(t *testing.T) {
	repo := new(MockUserRepository)
	sink := &eventSink{}
	svc := NewUserService(repo, sink, nil)
	user := newUser(t, identity.RoleUser)
	repo.On("FindByID", mock.Anything, user.TenantID, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	role := "MANAGER"
	same := *user.BranchID
	resp, err := svc.Update(context.Background(), user.TenantID, user.ID, UpdateUserRequest{Role: &role, BranchID: &same})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", resp.Role)
	assert.NotContains(t, sink.types, identity.EventTypeUserBranchChanged)

	resp, err = svc.AssignBranch(context.Background(), user.TenantID, user.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.BranchID)
	assert.Contains(t, sink.types, identity.EventTypeUserBranchChanged)
}

func TestUserService_Delete(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil)
	user := newUser(t, identity.RoleUser)
	admin := uuid.New()
	repo.On("FindByID", mock.Anything, user.TenantID, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), user.TenantID, user.ID, user.ID), shared.ErrInvalidState)
	require.NoError(t, svc.Delete(context.Background(), user.TenantID, admin, user.ID))

	got, err := svc.GetByID(context.Background(), user.TenantID, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	_, err = svc.Update(context.Background(), user.TenantID, user.ID, UpdateUserRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
