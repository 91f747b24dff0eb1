package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeaveRepository persists leave requests
type LeaveRepository interface {
	Save(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Leave, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]*Leave, int64, error)

	// FindOverlapping returns the user's pending or approved leave intersecting [start, end]
	FindOverlapping(ctx context.Context, tenantID, userID uuid.UUID, start, end time.Time) ([]*Leave, error)
}

// Filter holds list criteria for leave
type Filter struct {
	UserID   *uuid.UUID
	Status   *Status
	Type     *Type
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
