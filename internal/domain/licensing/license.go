package licensing

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// Plan is a commercial tier with default seat limits
type Plan string

const (
	PlanStarter      Plan = "STARTER"
	PlanProfessional Plan = "PROFESSIONAL"
	PlanBusiness     Plan = "BUSINESS"
	PlanEnterprise   Plan = "ENTERPRISE"
)

// Limits are the default user and branch caps of a plan
type Limits struct {
	MaxUsers    int
	MaxBranches int
}

var planLimits = map[Plan]Limits{
	PlanStarter:      {MaxUsers: 5, MaxBranches: 1},
	PlanProfessional: {MaxUsers: 25, MaxBranches: 5},
	PlanBusiness:     {MaxUsers: 100, MaxBranches: 20},
	PlanEnterprise:   {MaxUsers: 1000, MaxBranches: 200},
}

// DefaultLimits returns the caps for a plan
func (p Plan) DefaultLimits() (Limits, bool) {
	l, ok := planLimits[p]
	return l, ok
}

// Status of a license
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusExpired   Status = "EXPIRED"
)

// License grants an organisation use of the platform
type License struct {
	shared.TenantAggregateRoot
	LicenseKey  string
	Plan        Plan
	MaxUsers    int
	MaxBranches int
	ValidFrom   time.Time
	ValidUntil  time.Time
	Status      Status
}

// NewLicense issues an active license for months starting at from.
// Zero limits take the plan defaults.
func NewLicense(organisationID uuid.UUID, plan Plan, limits Limits, from time.Time, months int) (*License, error) {
	defaults, ok := plan.DefaultLimits()
	if !ok {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown plan "+string(plan))
	}
	if months <= 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "License duration must be at least one month")
	}
	if limits.MaxUsers == 0 {
		limits.MaxUsers = defaults.MaxUsers
	}
	if limits.MaxBranches == 0 {
		limits.MaxBranches = defaults.MaxBranches
	}
	if limits.MaxUsers < 0 || limits.MaxBranches < 0 {
		return nil, shared.NewDomainError("INVALID_LIMITS", "Seat limits cannot be negative")
	}
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	l := &License{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organisationID),
		LicenseKey:          key,
		Plan:                plan,
		MaxUsers:            limits.MaxUsers,
		MaxBranches:         limits.MaxBranches,
		ValidFrom:           from,
		ValidUntil:          from.AddDate(0, months, 0),
		Status:              StatusActive,
	}
	l.AddDomainEvent(NewLicenseStatusChangedEvent(l, ""))
	return l, nil
}

// GenerateKey returns a key of the form XXXXX-XXXXX-XXXXX-XXXXX
func GenerateKey() (string, error) {
	buf := make([]byte, 15)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	parts := make([]string, 0, 4)
	for i := 0; i < 20; i += 5 {
		parts = append(parts, raw[i:i+5])
	}
	return strings.Join(parts, "-"), nil
}

// Usage is the current seat consumption of an organisation
type Usage struct {
	Users    int64
	Branches int64
}

// Validate checks status, then expiry, then seat usage
func (l *License) Validate(now time.Time, usage Usage) error {
	switch l.Status {
	case StatusSuspended:
		return shared.NewDomainError("LICENSE_SUSPENDED", "License is suspended")
	case StatusExpired:
		return shared.NewDomainError("LICENSE_EXPIRED", "License has expired")
	}
	if now.After(l.ValidUntil) {
		return shared.NewDomainError("LICENSE_EXPIRED", "License has expired")
	}
	if now.Before(l.ValidFrom) {
		return shared.NewDomainError("LICENSE_NOT_STARTED", "License is not valid yet")
	}
	if usage.Users > int64(l.MaxUsers) {
		return shared.NewDomainError("LICENSE_USER_LIMIT", "Active users exceed the license limit")
	}
	if usage.Branches > int64(l.MaxBranches) {
		return shared.NewDomainError("LICENSE_BRANCH_LIMIT", "Active branches exceed the license limit")
	}
	return nil
}

// Suspend blocks the license
func (l *License) Suspend() error {
	if l.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active licenses can be suspended")
	}
	l.setStatus(StatusSuspended)
	return nil
}

// Activate lifts a suspension
func (l *License) Activate(now time.Time) error {
	if l.Status != StatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended licenses can be activated")
	}
	if now.After(l.ValidUntil) {
		return shared.NewDomainError("LICENSE_EXPIRED", "License has expired; renew it instead")
	}
	l.setStatus(StatusActive)
	return nil
}

// Renew extends validity by months from the later of now and the current end
func (l *License) Renew(now time.Time, months int) error {
	if months <= 0 {
		return shared.NewDomainError("INVALID_DURATION", "Renewal must be at least one month")
	}
	if l.Status == StatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Suspended licenses cannot be renewed")
	}
	base := l.ValidUntil
	if now.After(base) {
		base = now
	}
	l.ValidUntil = base.AddDate(0, months, 0)
	if l.Status != StatusActive {
		l.setStatus(StatusActive)
		return nil
	}
	l.IncrementVersion()
	return nil
}

// Expire flips an active license past its end date. It reports whether anything changed.
func (l *License) Expire(now time.Time) bool {
	if l.Status != StatusActive || !now.After(l.ValidUntil) {
		return false
	}
	l.setStatus(StatusExpired)
	return true
}

func (l *License) setStatus(s Status) {
	from := l.Status
	l.Status = s
	l.IncrementVersion()
	l.AddDomainEvent(NewLicenseStatusChangedEvent(l, from))
}
