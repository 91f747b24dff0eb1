package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// CheckInRequest is the body of POST /attendance/check-in and /check-out
type CheckInRequest struct {
	Location *common.LocationRequest `json:"location"`
	Notes    string                  `json:"notes" binding:"max=1000"`
}

// DateRangeRequest holds an inclusive from/to query in YYYY-MM-DD
type DateRangeRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// AttendanceResponse is the API view of a shift
type AttendanceResponse struct {
	ID               uuid.UUID                `json:"id"`
	UserID           uuid.UUID                `json:"user_id"`
	BranchID         *uuid.UUID               `json:"branch_id,omitempty"`
	CheckIn          time.Time                `json:"check_in"`
	CheckInLocation  *valueobject.Coordinates `json:"check_in_location,omitempty"`
	CheckInNotes     string                   `json:"check_in_notes,omitempty"`
	CheckOut         *time.Time               `json:"check_out,omitempty"`
	CheckOutLocation *valueobject.Coordinates `json:"check_out_location,omitempty"`
	CheckOutNotes    string                   `json:"check_out_notes,omitempty"`
	DurationMinutes  int                      `json:"duration_minutes"`
	Status           string                   `json:"status"`
}

// StatusResponse answers GET /attendance/status
type StatusResponse struct {
	CheckedIn bool                `json:"checked_in"`
	Current   *AttendanceResponse `json:"current,omitempty"`
}

// ToAttendanceResponse converts a domain shift
func ToAttendanceResponse(a *attendance.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:               a.ID,
		UserID:           a.UserID,
		BranchID:         a.BranchID,
		CheckIn:          a.CheckIn,
		CheckInLocation:  a.CheckInLocation,
		CheckInNotes:     a.CheckInNotes,
		CheckOut:         a.CheckOut,
		CheckOutLocation: a.CheckOutLocation,
		CheckOutNotes:    a.CheckOutNotes,
		DurationMinutes:  a.DurationMinutes,
		Status:           string(a.Status),
	}
}

func toAttendanceResponses(list []*attendance.Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToAttendanceResponse(a))
	}
	return out
}

// StartVisitRequest is the body of POST /check-ins
type StartVisitRequest struct {
	ClientID uuid.UUID               `json:"client_id" binding:"required"`
	Location *common.LocationRequest `json:"location"`
	PhotoKey string                  `json:"photo_key" binding:"max=500"`
	Notes    string                  `json:"notes" binding:"max=1000"`
}

// EndVisitRequest is the body of POST /check-ins/:id/check-out
type EndVisitRequest struct {
	Location *common.LocationRequest `json:"location"`
	Notes    string                  `json:"notes" binding:"max=1000"`
}

// ListVisitsRequest holds the query of GET /check-ins
type ListVisitsRequest struct {
	UserID   *uuid.UUID `form:"user_id,parser=encoding.TextUnmarshaler"`
	ClientID *uuid.UUID `form:"client_id,parser=encoding.TextUnmarshaler"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// VisitResponse is the API view of a client visit
type VisitResponse struct {
	ID               uuid.UUID                `json:"id"`
	UserID           uuid.UUID                `json:"user_id"`
	ClientID         uuid.UUID                `json:"client_id"`
	BranchID         *uuid.UUID               `json:"branch_id,omitempty"`
	CheckInTime      time.Time                `json:"check_in_time"`
	CheckInLocation  *valueobject.Coordinates `json:"check_in_location,omitempty"`
	PhotoKey         string                   `json:"photo_key,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	CheckOutTime     *time.Time               `json:"check_out_time,omitempty"`
	CheckOutLocation *valueobject.Coordinates `json:"check_out_location,omitempty"`
	DurationMinutes  int                      `json:"duration_minutes"`
}

// ToVisitResponse converts a domain client visit
func ToVisitResponse(c *attendance.CheckIn) VisitResponse {
	return VisitResponse{
		ID:               c.ID,
		UserID:           c.UserID,
		ClientID:         c.ClientID,
		BranchID:         c.BranchID,
		CheckInTime:      c.CheckInTime,
		CheckInLocation:  c.CheckInLocation,
		PhotoKey:         c.PhotoKey,
		Notes:            c.Notes,
		CheckOutTime:     c.CheckOutTime,
		CheckOutLocation: c.CheckOutLocation,
		DurationMinutes:  c.DurationMinutes,
	}
}
