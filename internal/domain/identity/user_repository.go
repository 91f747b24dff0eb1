package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// FindByID finds a user by ID, including soft-deleted users
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByIDs loads several users of a tenant at once
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*User, error)

	// FindByEmail finds a user by email across tenants; emails are globally unique for sign-in
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns non-deleted users with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter UserFilter) ([]*User, int64, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountActive returns the number of non-deleted active users of a tenant
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	Keyword  string
	Role     *Role
	Status   *UserStatus
	BranchID *uuid.UUID

	Page     int
	PageSize int
}
