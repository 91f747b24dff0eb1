package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := NewUser(tenantID, " Jane@Example.com ", "secret123", "Jane", "Doe", RoleManager)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, "Jane Doe", u.FullName())
		assert.Equal(t, RoleManager, u.Role)
		assert.Equal(t, UserStatusActive, u.Status)
		assert.NotEqual(t, "secret123", u.PasswordHash)
		assert.True(t, u.VerifyPassword("secret123"))
		assert.True(t, u.CanSignIn())
		require.Len(t, u.GetDomainEvents(), 1)
	})

	t.Run("defaults role to user", func(t *testing.T) {
		u, err := NewUser(tenantID, "a@b.co", "secret123", "A", "", "")
		require.NoError(t, err)
		assert.Equal(t, RoleUser, u.Role)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.co", "password", "A", "", RoleUser)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "letter and one number")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(tenantID, "nope", "secret123", "A", "", RoleUser)
		require.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.co", "secret123", "A", "", Role("OWNER"))
		require.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser(uuid.New(), "a@b.co", "secret123", "A", "", RoleUser)
	require.NoError(t, err)

	err = u.ChangePassword("wrong123", "newsecret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect")

	require.NoError(t, u.ChangePassword("secret123", "newsecret1"))
	assert.True(t, u.VerifyPassword("newsecret1"))
	assert.False(t, u.VerifyPassword("secret123"))
}

func TestUser_AssignBranch(t *testing.T) {
	u, err := NewUser(uuid.New(), "a@b.co", "secret123", "A", "", RoleUser)
	require.NoError(t, err)
	u.ClearDomainEvents()

	branchID := uuid.New()
	u.AssignBranch(&branchID)
	assert.Equal(t, branchID, *u.BranchID)
	ev := u.GetDomainEvents()[0].(*UserBranchChangedEvent)
	assert.Equal(t, branchID.String(), ev.BranchID)
}

func TestUser_Delete(t *testing.T) {
	u, err := NewUser(uuid.New(), "a@b.co", "secret123", "A", "", RoleUser)
	require.NoError(t, err)

	require.NoError(t, u.Delete())
	assert.True(t, u.Deleted())
	assert.False(t, u.CanSignIn())
	assert.Error(t, u.Delete())
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleManager))
	assert.False(t, RoleUser.AtLeast(RoleSupervisor))
	assert.False(t, Role("X").IsValid())
}
