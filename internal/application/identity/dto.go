package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
)

// SignInRequest is the body of POST /auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignOutRequest is the optional body of POST /auth/sign-out
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// SignInResponse is the result of a successful sign-in
type SignInResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	Surname  string     `json:"surname" binding:"max=100"`
	Phone    string     `json:"phone" binding:"max=30"`
	Role     string     `json:"role" binding:"omitempty,oneof=ADMIN MANAGER SUPERVISOR USER"`
	BranchID *uuid.UUID `json:"branch_id"`
}

// UpdateUserRequest is the body of PUT /users/:id
type UpdateUserRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Surname  *string    `json:"surname" binding:"omitempty,max=100"`
	Phone    *string    `json:"phone" binding:"omitempty,max=30"`
	Role     *string    `json:"role" binding:"omitempty,oneof=ADMIN MANAGER SUPERVISOR USER"`
	Status   *string    `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	BranchID *uuid.UUID `json:"branch_id"`
	// ClearBranch detaches the user from any branch
	ClearBranch bool `json:"clear_branch"`
}

// ChangePasswordRequest is the body of PUT /users/:id/password. Admins may
// omit the old password when resetting someone else's.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ListUsersRequest holds the query of GET /users
type ListUsersRequest struct {
	Search   string     `form:"search" binding:"max=100"`
	Role     string     `form:"role" binding:"omitempty,oneof=ADMIN MANAGER SUPERVISOR USER"`
	Status   string     `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING DEACTIVATED"`
	BranchID *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserResponse is the API view of a user
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"organisation_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	Status      string     `json:"status"`
	IsDeleted   bool       `json:"is_deleted"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user; the password hash never leaves the service
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		Name:        u.Name,
		Surname:     u.Surname,
		FullName:    u.FullName(),
		Phone:       u.Phone,
		Role:        string(u.Role),
		BranchID:    u.BranchID,
		Status:      string(u.Status),
		IsDeleted:   u.Deleted(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
