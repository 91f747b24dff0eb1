package attendance

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// Status of an attendance record
type Status string

const (
	StatusPresent   Status = "PRESENT"
	StatusCompleted Status = "COMPLETED"
)

// Attendance is one shift: a check-in and, once closed, a check-out
type Attendance struct {
	shared.TenantAggregateRoot
	UserID           uuid.UUID
	BranchID         *uuid.UUID
	CheckIn          time.Time
	CheckInLocation  *valueobject.Coordinates
	CheckInNotes     string
	CheckOut         *time.Time
	CheckOutLocation *valueobject.Coordinates
	CheckOutNotes    string
	DurationMinutes  int
	Status           Status
}

// Open starts a shift. Callers must first ensure the user has no open shift.
func Open(tenantID, userID uuid.UUID, branchID *uuid.UUID, at time.Time, loc *valueobject.Coordinates, notes string) *Attendance {
	a := &Attendance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		BranchID:            branchID,
		CheckIn:             at,
		CheckInLocation:     loc,
		CheckInNotes:        notes,
		Status:              StatusPresent,
	}
	a.SetCreatedBy(userID)
	a.AddDomainEvent(NewAttendanceRecordedEvent(a, ActionCheckIn, at, loc))
	return a
}

// IsOpen reports whether the shift has not been checked out
func (a *Attendance) IsOpen() bool {
	return a.Status == StatusPresent && a.CheckOut == nil
}

// Close records the check-out and computes the duration in whole minutes
func (a *Attendance) Close(at time.Time, loc *valueobject.Coordinates, notes string) error {
	if !a.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Attendance is already checked out")
	}
	if at.Before(a.CheckIn) {
		return shared.NewDomainError("INVALID_CHECK_OUT", "Check-out cannot be before check-in")
	}
	a.CheckOut = &at
	a.CheckOutLocation = loc
	a.CheckOutNotes = notes
	a.DurationMinutes = int(math.Floor(at.Sub(a.CheckIn).Minutes()))
	a.Status = StatusCompleted
	a.IncrementVersion()
	a.AddDomainEvent(NewAttendanceRecordedEvent(a, ActionCheckOut, at, loc))
	return nil
}

// Hours returns the worked duration in hours
func (a *Attendance) Hours() float64 {
	return float64(a.DurationMinutes) / 60
}
