package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SeatGuard rejects new users once the organisation's license is full
type SeatGuard interface {
	CheckUserSeat(ctx context.Context, tenantID uuid.UUID) error
}

// UserService manages the users of an organisation
type UserService struct {
	users     identity.UserRepository
	publisher shared.EventPublisher
	seats     SeatGuard
	logger    *zap.Logger
}

// UserServiceOption configures a UserService
type UserServiceOption func(*UserService)

// WithSeatGuard enforces license seat limits on Create
func WithSeatGuard(g SeatGuard) UserServiceOption {
	return func(s *UserService) { s.seats = g }
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, publisher shared.EventPublisher, log *zap.Logger, opts ...UserServiceOption) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &UserService{users: users, publisher: publisher, logger: log.Named("user_service")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a user. Emails are unique across organisations.
func (s *UserService) Create(ctx context.Context, tenantID, creatorID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}
	if s.seats != nil {
		if err := s.seats.CheckUserSeat(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	user, err := identity.NewUser(tenantID, req.Email, req.Password, req.Name, req.Surname, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.SetCreatedBy(creatorID)
	if req.Phone != "" {
		if err := user.UpdateProfile(user.Name, user.Surname, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.BranchID != nil {
		user.AssignBranch(req.BranchID)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)
	logger.Enrich(ctx, s.logger).Info("User created",
		zap.String("new_user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns a user, including soft-deleted ones
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns non-deleted users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, req ListUsersRequest) ([]UserResponse, int64, error) {
	filter := identity.UserFilter{
		Keyword:  req.Search,
		BranchID: req.BranchID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Role != "" {
		r := identity.Role(req.Role)
		filter.Role = &r
	}
	if req.Status != "" {
		st := identity.UserStatus(req.Status)
		filter.Status = &st
	}
	users, total, err := s.users.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out, total, nil
}

// Update applies a partial update
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Surname != nil || req.Phone != nil {
		name, surname, phone := user.Name, user.Surname, user.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.Surname != nil {
			surname = *req.Surname
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := user.UpdateProfile(name, surname, phone); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.ChangeRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		user.SetStatus(identity.UserStatus(*req.Status))
	}
	switch {
	case req.ClearBranch:
		if user.BranchID != nil {
			user.AssignBranch(nil)
		}
	case req.BranchID != nil && (user.BranchID == nil || *user.BranchID != *req.BranchID):
		user.AssignBranch(req.BranchID)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)
	resp := ToUserResponse(user)
	return &resp, nil
}

// AssignBranch moves a user to a home branch
func (s *UserService) AssignBranch(ctx context.Context, tenantID, id uuid.UUID, branchID *uuid.UUID) (*UserResponse, error) {
	if branchID == nil {
		return s.Update(ctx, tenantID, id, UpdateUserRequest{ClearBranch: true})
	}
	return s.Update(ctx, tenantID, id, UpdateUserRequest{BranchID: branchID})
}

// ChangePassword sets a new password. A user changing their own password must
// give the current one; an admin resetting another user's need not.
func (s *UserService) ChangePassword(ctx context.Context, tenantID, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	switch {
	case actorID == id:
		err = user.ChangePassword(req.OldPassword, req.NewPassword)
	case actorRole.AtLeast(identity.RoleAdmin):
		err = user.SetPassword(req.NewPassword)
	default:
		return shared.NewDomainError("FORBIDDEN", "Only admins can reset another user's password")
	}
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("Password changed", zap.String("target_user_id", id.String()))
	return nil
}

// Delete soft-deletes a user
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete your own account")
	}
	user, err := s.users.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.Delete(); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

func (s *UserService) load(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "User is deleted")
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishPending(ctx, s.publisher, user); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish user events", zap.Error(err))
	}
}
