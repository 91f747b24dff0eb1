package leave

import (
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

const (
	AggregateTypeLeave = "Leave"

	EventTypeLeaveStatusChanged = "LeaveStatusChanged"
)

// LeaveStatusChangedEvent is raised on request and on every decision.
// From is empty for a new request.
type LeaveStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	From   Status    `json:"from,omitempty"`
	To     Status    `json:"to"`
}

// NewLeaveStatusChangedEvent creates a new LeaveStatusChangedEvent
func NewLeaveStatusChangedEvent(l *Leave, from Status) *LeaveStatusChangedEvent {
	return &LeaveStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveStatusChanged, AggregateTypeLeave, l.ID, l.TenantID),
		UserID:          l.UserID,
		From:            from,
		To:              l.Status,
	}
}
