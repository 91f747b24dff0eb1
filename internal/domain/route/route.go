package route

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// Waypoint is one stop of a route: a client of the task and where it is
type Waypoint struct {
	TaskID   uuid.UUID               `json:"task_id"`
	ClientID uuid.UUID               `json:"client_id"`
	Address  string                  `json:"address"`
	Location valueobject.Coordinates `json:"location"`
}

// Leg is the travel between two consecutive points in visiting order
type Leg struct {
	DistanceMeters  int                     `json:"distance_meters"`
	DurationSeconds int                     `json:"duration_seconds"`
	Start           valueobject.Coordinates `json:"start"`
	End             valueobject.Coordinates `json:"end"`
}

// Waypoints is the typed payload of routes.waypoints
type Waypoints []Waypoint

// Legs is the typed payload of routes.legs
type Legs []Leg

// VisitingOrder holds waypoint indexes in the order they are visited
type VisitingOrder []int

func (w Waypoints) Value() (driver.Value, error)     { return jsonValue(w) }
func (w *Waypoints) Scan(value any) error            { return jsonScan(value, w) }
func (l Legs) Value() (driver.Value, error)          { return jsonValue(l) }
func (l *Legs) Scan(value any) error                 { return jsonScan(value, l) }
func (o VisitingOrder) Value() (driver.Value, error) { return jsonValue(o) }
func (o *VisitingOrder) Scan(value any) error        { return jsonScan(value, o) }

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(value any, dest any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
}

// Route is the planned day of one assignee for one task: from the assignee's
// branch through every client of the task.
type Route struct {
	shared.TenantAggregateRoot
	TaskID               uuid.UUID
	AssigneeID           uuid.UUID
	BranchID             uuid.UUID
	Origin               valueobject.Coordinates
	Waypoints            Waypoints
	VisitingOrder        VisitingOrder
	Legs                 Legs
	TotalDistanceMeters  int
	TotalDurationSeconds int
	PlannedDate          time.Time
	Optimized            bool
}

// NewRoute builds a route from an optimization result. The visiting order
// must be a permutation of the waypoint indexes.
func NewRoute(tenantID, taskID, assigneeID, branchID uuid.UUID, origin valueobject.Coordinates,
	waypoints []Waypoint, opt *Optimization, plannedDate time.Time) (*Route, error) {
	if len(waypoints) == 0 {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Route needs at least one waypoint")
	}
	if opt == nil {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Route needs an optimization result")
	}
	if err := validateOrder(opt.VisitingOrder, len(waypoints)); err != nil {
		return nil, err
	}
	if opt.TotalDistanceMeters < 0 || opt.TotalDurationSeconds < 0 {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Route totals cannot be negative")
	}

	r := &Route{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		TaskID:               taskID,
		AssigneeID:           assigneeID,
		BranchID:             branchID,
		Origin:               origin,
		Waypoints:            append(Waypoints(nil), waypoints...),
		VisitingOrder:        append(VisitingOrder(nil), opt.VisitingOrder...),
		Legs:                 append(Legs(nil), opt.Legs...),
		TotalDistanceMeters:  opt.TotalDistanceMeters,
		TotalDurationSeconds: opt.TotalDurationSeconds,
		PlannedDate:          shared.StartOfDay(plannedDate),
		Optimized:            true,
	}
	r.AddDomainEvent(NewRoutePlannedEvent(r))
	return r, nil
}

// OrderedWaypoints returns the waypoints in visiting order
func (r *Route) OrderedWaypoints() []Waypoint {
	out := make([]Waypoint, 0, len(r.VisitingOrder))
	for _, idx := range r.VisitingOrder {
		if idx >= 0 && idx < len(r.Waypoints) {
			out = append(out, r.Waypoints[idx])
		}
	}
	return out
}

// ClientIDs returns the client of each waypoint, in waypoint order
func (r *Route) ClientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Waypoints))
	for i, w := range r.Waypoints {
		ids[i] = w.ClientID
	}
	return ids
}

func validateOrder(order []int, n int) error {
	if len(order) != n {
		return shared.NewDomainError("INVALID_ROUTE", fmt.Sprintf("Visiting order has %d stops, expected %d", len(order), n))
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return shared.NewDomainError("INVALID_ROUTE", "Visiting order is not a permutation of the waypoints")
		}
		seen[idx] = true
	}
	return nil
}
