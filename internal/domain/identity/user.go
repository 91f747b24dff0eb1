package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "ACTIVE"
	UserStatusInactive    UserStatus = "INACTIVE"
	UserStatusSuspended   UserStatus = "SUSPENDED"
	UserStatusPending     UserStatus = "PENDING"
	UserStatusDeactivated UserStatus = "DEACTIVATED"
)

// Role is the access level of a user within an organisation
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleUser       Role = "USER"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleSupervisor: 2,
	RoleManager:    3,
	RoleAdmin:      4,
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the access of other
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

const bcryptCost = bcrypt.DefaultCost

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// User is a member of an organisation. Field staff are users with a home branch.
type User struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Email        string
	Name         string
	Surname      string
	Phone        string
	PasswordHash string
	Role         Role
	BranchID     *uuid.UUID
	Status       UserStatus
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, email, password, name, surname string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if role == "" {
		role = RoleUser
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		Name:                strings.TrimSpace(name),
		Surname:             strings.TrimSpace(surname),
		PasswordHash:        hash,
		Role:                role,
		Status:              UserStatusActive,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// FullName returns "Name Surname"
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// UpdateProfile changes name, surname and phone
func (u *User) UpdateProfile(name, surname, phone string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	u.Name = strings.TrimSpace(name)
	u.Surname = strings.TrimSpace(surname)
	u.Phone = strings.TrimSpace(phone)
	u.IncrementVersion()
	return nil
}

// AssignBranch moves the user to a home branch. Route planning starts from it.
func (u *User) AssignBranch(branchID *uuid.UUID) {
	u.BranchID = branchID
	u.IncrementVersion()
	u.AddDomainEvent(NewUserBranchChangedEvent(u))
}

// ChangeRole changes the access level
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	u.Role = role
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the old password before setting the new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password hash
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// CanSignIn reports whether the account may authenticate
func (u *User) CanSignIn() bool {
	return !u.Deleted() && u.Status == UserStatusActive
}

// SetStatus changes the account status
func (u *User) SetStatus(status UserStatus) {
	u.Status = status
	u.IncrementVersion()
}

// Delete soft-deletes the user
func (u *User) Delete() error {
	if u.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "User is already deleted")
	}
	u.MarkDeleted()
	u.Status = UserStatusInactive
	u.IncrementVersion()
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
