package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/route"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// RouteModel is the persistence model for planned routes
type RouteModel struct {
	TenantModel
	TaskID               uuid.UUID           `gorm:"type:uuid;not null;index:idx_routes_task_date;uniqueIndex:uq_routes_task_assignee_date"`
	AssigneeID           uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uq_routes_task_assignee_date"`
	BranchID             uuid.UUID           `gorm:"type:uuid;not null"`
	OriginLat            float64             `gorm:"not null"`
	OriginLng            float64             `gorm:"not null"`
	Waypoints            route.Waypoints     `gorm:"type:jsonb;not null"`
	VisitingOrder        route.VisitingOrder `gorm:"type:jsonb;not null"`
	Legs                 route.Legs          `gorm:"type:jsonb;not null"`
	TotalDistanceMeters  int                 `gorm:"not null"`
	TotalDurationSeconds int                 `gorm:"not null"`
	PlannedDate          time.Time           `gorm:"type:date;not null;index:idx_routes_task_date;uniqueIndex:uq_routes_task_assignee_date"`
	Optimized            bool                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RouteModel) TableName() string {
	return "routes"
}

// ToDomain converts the model to a domain Route
func (m *RouteModel) ToDomain() *route.Route {
	return &route.Route{
		TenantAggregateRoot:  m.ToDomainTenant(),
		TaskID:               m.TaskID,
		AssigneeID:           m.AssigneeID,
		BranchID:             m.BranchID,
		Origin:               valueobject.Coordinates{Lat: m.OriginLat, Lng: m.OriginLng},
		Waypoints:            m.Waypoints,
		VisitingOrder:        m.VisitingOrder,
		Legs:                 m.Legs,
		TotalDistanceMeters:  m.TotalDistanceMeters,
		TotalDurationSeconds: m.TotalDurationSeconds,
		PlannedDate:          m.PlannedDate,
		Optimized:            m.Optimized,
	}
}

// RouteModelFromDomain converts a domain Route to its model
func RouteModelFromDomain(r *route.Route) *RouteModel {
	m := &RouteModel{
		TaskID:               r.TaskID,
		AssigneeID:           r.AssigneeID,
		BranchID:             r.BranchID,
		OriginLat:            r.Origin.Lat,
		OriginLng:            r.Origin.Lng,
		Waypoints:            r.Waypoints,
		VisitingOrder:        r.VisitingOrder,
		Legs:                 r.Legs,
		TotalDistanceMeters:  r.TotalDistanceMeters,
		TotalDurationSeconds: r.TotalDurationSeconds,
		PlannedDate:          r.PlannedDate,
		Optimized:            r.Optimized,
	}
	m.FromDomainTenant(r.TenantAggregateRoot)
	return m
}
