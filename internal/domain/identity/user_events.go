package identity

import (
	"github.com/loro/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated       = "UserCreated"
	EventTypeUserBranchChanged = "UserBranchChanged"
)

// UserCreatedEvent is raised when a user is registered
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserBranchChangedEvent is raised when a user's home branch changes
type UserBranchChangedEvent struct {
	shared.BaseDomainEvent
	BranchID string `json:"branch_id"`
}

// NewUserBranchChangedEvent creates a new UserBranchChangedEvent
func NewUserBranchChangedEvent(u *User) *UserBranchChangedEvent {
	branchID := ""
	if u.BranchID != nil {
		branchID = u.BranchID.String()
	}
	return &UserBranchChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserBranchChanged, AggregateTypeUser, u.ID, u.TenantID),
		BranchID:        branchID,
	}
}
