package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

const (
	AggregateTypeAttendance = "Attendance"
	AggregateTypeCheckIn    = "CheckIn"

	EventTypeAttendanceRecorded = "AttendanceRecorded"
	EventTypeClientVisited      = "ClientVisited"
)

// Action distinguishes check-in from check-out in AttendanceRecorded
type Action string

const (
	ActionCheckIn  Action = "CHECK_IN"
	ActionCheckOut Action = "CHECK_OUT"
)

// AttendanceRecordedEvent is raised on every check-in and check-out
type AttendanceRecordedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID                `json:"user_id"`
	BranchID *uuid.UUID               `json:"branch_id,omitempty"`
	Action   Action                   `json:"action"`
	At       time.Time                `json:"at"`
	Location *valueobject.Coordinates `json:"location,omitempty"`
}

// NewAttendanceRecordedEvent creates a new AttendanceRecordedEvent
func NewAttendanceRecordedEvent(a *Attendance, action Action, at time.Time, loc *valueobject.Coordinates) *AttendanceRecordedEvent {
	return &AttendanceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttendanceRecorded, AggregateTypeAttendance, a.ID, a.TenantID),
		UserID:          a.UserID,
		BranchID:        a.BranchID,
		Action:          action,
		At:              at,
		Location:        loc,
	}
}

// ClientVisitedEvent is raised when a client visit starts
type ClientVisitedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewClientVisitedEvent creates a new ClientVisitedEvent
func NewClientVisitedEvent(c *CheckIn) *ClientVisitedEvent {
	return &ClientVisitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientVisited, AggregateTypeCheckIn, c.ID, c.TenantID),
		UserID:          c.UserID,
		ClientID:        c.ClientID,
	}
}
