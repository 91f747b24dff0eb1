package route

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RouteRepository persists planned routes
type RouteRepository interface {
	// SaveAll inserts routes; used inside the replan transaction
	SaveAll(ctx context.Context, routes []*Route) error

	// FindByID finds a route of a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Route, error)

	// FindByTask lists all routes of a task
	FindByTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]*Route, error)

	// FindByTaskAndDate lists the routes of a task planned for the given day
	FindByTaskAndDate(ctx context.Context, tenantID, taskID uuid.UUID, date time.Time) ([]*Route, error)

	// FindAll lists routes with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]*Route, int64, error)

	// DeleteByTask removes every route of a task and returns how many were removed
	DeleteByTask(ctx context.Context, tenantID, taskID uuid.UUID) (int64, error)
}

// Filter holds list criteria for routes
type Filter struct {
	AssigneeID *uuid.UUID
	BranchID   *uuid.UUID
	TaskID     *uuid.UUID
	Date       *time.Time

	Page     int
	PageSize int
}
