package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AttendanceRepository persists shifts
type AttendanceRepository interface {
	Save(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Attendance, error)

	// FindOpenByUser returns the user's open shift or shared.ErrNotFound
	FindOpenByUser(ctx context.Context, tenantID, userID uuid.UUID) (*Attendance, error)

	// FindByUser lists shifts whose check-in falls in [from, to]
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Attendance, error)

	// FindByBranch lists shifts of a branch whose check-in falls in [from, to]
	FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, from, to time.Time) ([]*Attendance, error)

	// Summarize aggregates present days and worked minutes per user
	Summarize(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) ([]UserSummary, error)
}

// SummaryFilter narrows attendance aggregation
type SummaryFilter struct {
	From     time.Time
	To       time.Time
	BranchID *uuid.UUID
	UserID   *uuid.UUID
}

// UserSummary is one row of the attendance report
type UserSummary struct {
	UserID       uuid.UUID
	PresentDays  int64
	TotalMinutes int64
}

// CheckInRepository persists client visits
type CheckInRepository interface {
	Save(ctx context.Context, c *CheckIn) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CheckIn, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter CheckInFilter) ([]*CheckIn, int64, error)
}

// CheckInFilter holds list criteria for visits
type CheckInFilter struct {
	UserID   *uuid.UUID
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
