package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/leave"
	"github.com/loro/backend/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// CreateLeaveRequest is the body of POST /leave
type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required,oneof=ANNUAL SICK MATERNITY PATERNITY UNPAID COMPASSIONATE STUDY"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	HalfDay   bool   `json:"half_day"`
	Reason    string `json:"reason" binding:"max=1000"`
}

func (r CreateLeaveRequest) dates() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE", "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE", "end_date must be YYYY-MM-DD")
	}
	return start, end, nil
}

// DecisionRequest is the body of approve, reject and cancel
type DecisionRequest struct {
	Comments string `json:"comments" binding:"max=1000"`
}

// ListLeaveRequest holds the query of GET /leave
type ListLeaveRequest struct {
	UserID   *uuid.UUID `form:"user_id,parser=encoding.TextUnmarshaler"`
	Status   string     `form:"status"`
	Type     string     `form:"type"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LeaveResponse is the API view of a leave request
type LeaveResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Type       string     `json:"type"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	HalfDay    bool       `json:"half_day"`
	Days       float64    `json:"days"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	ApproverID *uuid.UUID `json:"approver_id,omitempty"`
	Comments   string     `json:"comments,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToLeaveResponse converts a domain leave request
func ToLeaveResponse(l *leave.Leave) LeaveResponse {
	return LeaveResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		Type:       string(l.Type),
		StartDate:  l.StartDate.Format(dateLayout),
		EndDate:    l.EndDate.Format(dateLayout),
		HalfDay:    l.HalfDay,
		Days:       l.Days,
		Reason:     l.Reason,
		Status:     string(l.Status),
		ApproverID: l.ApproverID,
		Comments:   l.Comments,
		CreatedAt:  l.CreatedAt,
	}
}
