package route

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

const AggregateTypeRoute = "Route"

const EventTypeRoutePlanned = "RoutePlanned"

// RoutePlannedEvent is raised when a route is computed for an assignee
type RoutePlannedEvent struct {
	shared.BaseDomainEvent
	TaskID               uuid.UUID `json:"task_id"`
	AssigneeID           uuid.UUID `json:"assignee_id"`
	PlannedDate          time.Time `json:"planned_date"`
	Stops                int       `json:"stops"`
	TotalDistanceMeters  int       `json:"total_distance_meters"`
	TotalDurationSeconds int       `json:"total_duration_seconds"`
}

// NewRoutePlannedEvent creates a new RoutePlannedEvent
func NewRoutePlannedEvent(r *Route) *RoutePlannedEvent {
	return &RoutePlannedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypeRoutePlanned, AggregateTypeRoute, r.ID, r.TenantID),
		TaskID:               r.TaskID,
		AssigneeID:           r.AssigneeID,
		PlannedDate:          r.PlannedDate,
		Stops:                len(r.Waypoints),
		TotalDistanceMeters:  r.TotalDistanceMeters,
		TotalDurationSeconds: r.TotalDurationSeconds,
	}
}
