package leave

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// Type of leave
type Type string

const (
	TypeAnnual        Type = "ANNUAL"
	TypeSick          Type = "SICK"
	TypeMaternity     Type = "MATERNITY"
	TypePaternity     Type = "PATERNITY"
	TypeUnpaid        Type = "UNPAID"
	TypeCompassionate Type = "COMPASSIONATE"
	TypeStudy         Type = "STUDY"
)

// IsValid reports whether t is a known leave type
func (t Type) IsValid() bool {
	switch t {
	case TypeAnnual, TypeSick, TypeMaternity, TypePaternity, TypeUnpaid, TypeCompassionate, TypeStudy:
		return true
	}
	return false
}

// Status of a leave request
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Blocking reports whether a leave in this status prevents overlapping requests
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

// Leave is a request for time off
type Leave struct {
	shared.TenantAggregateRoot
	UserID     uuid.UUID
	Type       Type
	StartDate  time.Time
	EndDate    time.Time
	HalfDay    bool
	Reason     string
	Status     Status
	ApproverID *uuid.UUID
	Comments   string
	Days       float64
}

// NewLeave creates a pending leave request. Dates are truncated to whole days.
func NewLeave(tenantID, userID uuid.UUID, leaveType Type, start, end time.Time, halfDay bool, reason string) (*Leave, error) {
	if !leaveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEAVE_TYPE", "Unknown leave type")
	}
	if start.IsZero() || end.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Start and end dates are required")
	}
	start, end = shared.StartOfDay(start), shared.StartOfDay(end)
	if _, err := shared.NewDateRange(start, end); err != nil {
		return nil, err
	}
	if halfDay && !start.Equal(end) {
		return nil, shared.NewDomainError("INVALID_HALF_DAY", "Half-day leave must start and end on the same day")
	}

	days := WorkingDays(start, end, halfDay)
	if days == 0 {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Leave must include at least one working day")
	}

	l := &Leave{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Type:                leaveType,
		StartDate:           start,
		EndDate:             end,
		HalfDay:             halfDay,
		Reason:              strings.TrimSpace(reason),
		Status:              StatusPending,
		Days:                days,
	}
	l.SetCreatedBy(userID)
	l.AddDomainEvent(NewLeaveStatusChangedEvent(l, ""))
	return l, nil
}

// Overlaps reports whether the two inclusive date ranges intersect
func (l *Leave) Overlaps(start, end time.Time) bool {
	return !start.After(l.EndDate) && !end.Before(l.StartDate)
}

// Approve accepts a pending request
func (l *Leave) Approve(approverID uuid.UUID, comments string) error {
	return l.decide(StatusApproved, approverID, comments)
}

// Reject declines a pending request
func (l *Leave) Reject(approverID uuid.UUID, comments string) error {
	return l.decide(StatusRejected, approverID, comments)
}

func (l *Leave) decide(next Status, approverID uuid.UUID, comments string) error {
	if l.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending leave can be "+strings.ToLower(string(next)))
	}
	from := l.Status
	l.Status = next
	l.ApproverID = &approverID
	l.Comments = strings.TrimSpace(comments)
	l.IncrementVersion()
	l.AddDomainEvent(NewLeaveStatusChangedEvent(l, from))
	return nil
}

// Cancel withdraws a pending request, or an approved one before it starts
func (l *Leave) Cancel(now time.Time) error {
	switch l.Status {
	case StatusPending:
	case StatusApproved:
		if !shared.StartOfDay(now).Before(l.StartDate) {
			return shared.NewDomainError("INVALID_STATE", "Approved leave can only be cancelled before it starts")
		}
	default:
		return shared.NewDomainError("INVALID_STATE", "Leave cannot be cancelled")
	}
	from := l.Status
	l.Status = StatusCancelled
	l.IncrementVersion()
	l.AddDomainEvent(NewLeaveStatusChangedEvent(l, from))
	return nil
}

// WorkingDays counts weekdays in [start, end]; a half day counts 0.5
func WorkingDays(start, end time.Time, halfDay bool) float64 {
	var days float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days++
	}
	if halfDay && days > 0 {
		return 0.5
	}
	return days
}
