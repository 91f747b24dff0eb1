package route

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/route"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

const dateLayout = "2006-01-02"

// WaypointResponse is one stop of a route
type WaypointResponse struct {
	ClientID uuid.UUID               `json:"client_id"`
	Address  string                  `json:"address"`
	Location valueobject.Coordinates `json:"location"`
}

// LegResponse is the travel between two consecutive stops
type LegResponse struct {
	DistanceMeters  int                     `json:"distance_meters"`
	DurationSeconds int                     `json:"duration_seconds"`
	Start           valueobject.Coordinates `json:"start"`
	End             valueobject.Coordinates `json:"end"`
}

// RouteResponse is the API and cache representation of a route
type RouteResponse struct {
	ID                   uuid.UUID               `json:"id"`
	TaskID               uuid.UUID               `json:"task_id"`
	AssigneeID           uuid.UUID               `json:"assignee_id"`
	BranchID             uuid.UUID               `json:"branch_id"`
	Origin               valueobject.Coordinates `json:"origin"`
	Waypoints            []WaypointResponse      `json:"waypoints"`
	VisitingOrder        []int                   `json:"visiting_order"`
	Stops                []WaypointResponse      `json:"stops"`
	Legs                 []LegResponse           `json:"legs"`
	TotalDistanceMeters  int                     `json:"total_distance_meters"`
	TotalDurationSeconds int                     `json:"total_duration_seconds"`
	PlannedDate          string                  `json:"planned_date"`
	Optimized            bool                    `json:"optimized"`
	CreatedAt            time.Time               `json:"created_at"`
}

// ListRoutesRequest holds the query of GET /routes
type ListRoutesRequest struct {
	AssigneeID *uuid.UUID `form:"assignee_id,parser=encoding.TextUnmarshaler"`
	BranchID   *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	TaskID     *uuid.UUID `form:"task_id,parser=encoding.TextUnmarshaler"`
	Date       string     `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SweepResult summarises one run of the daily route sweep
type SweepResult struct {
	Tasks     int `json:"tasks"`
	CacheHits int `json:"cache_hits"`
	Planned   int `json:"planned"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ToRouteResponse converts a domain route
func ToRouteResponse(r *route.Route) RouteResponse {
	toWaypoint := func(w route.Waypoint) WaypointResponse {
		return WaypointResponse{ClientID: w.ClientID, Address: w.Address, Location: w.Location}
	}
	waypoints := make([]WaypointResponse, len(r.Waypoints))
	for i, w := range r.Waypoints {
		waypoints[i] = toWaypoint(w)
	}
	ordered := r.OrderedWaypoints()
	stops := make([]WaypointResponse, len(ordered))
	for i, w := range ordered {
		stops[i] = toWaypoint(w)
	}
	legs := make([]LegResponse, len(r.Legs))
	for i, l := range r.Legs {
		legs[i] = LegResponse{
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
			Start:           l.Start,
			End:             l.End,
		}
	}

	return RouteResponse{
		ID:                   r.ID,
		TaskID:               r.TaskID,
		AssigneeID:           r.AssigneeID,
		BranchID:             r.BranchID,
		Origin:               r.Origin,
		Waypoints:            waypoints,
		VisitingOrder:        append([]int{}, r.VisitingOrder...),
		Stops:                stops,
		Legs:                 legs,
		TotalDistanceMeters:  r.TotalDistanceMeters,
		TotalDurationSeconds: r.TotalDurationSeconds,
		PlannedDate:          r.PlannedDate.Format(dateLayout),
		Optimized:            r.Optimized,
		CreatedAt:            r.CreatedAt,
	}
}

// ToRouteResponses converts a slice of domain routes
func ToRouteResponses(routes []*route.Route) []RouteResponse {
	out := make([]RouteResponse, len(routes))
	for i, r := range routes {
		out[i] = ToRouteResponse(r)
	}
	return out
}
