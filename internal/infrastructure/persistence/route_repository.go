package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/route"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRouteRepository implements route.RouteRepository using GORM
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// SaveAll inserts routes
func (r *GormRouteRepository) SaveAll(ctx context.Context, routes []*route.Route) error {
	if len(routes) == 0 {
		return nil
	}
	rows := make([]*models.RouteModel, len(routes))
	for i, rt := range routes {
		rows[i] = models.RouteModelFromDomain(rt)
	}
	return translate(conn(ctx, r.db).Create(&rows).Error)
}

// FindByID finds a route of a tenant
func (r *GormRouteRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*route.Route, error) {
	var m models.RouteModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByTask lists all routes of a task
func (r *GormRouteRepository) FindByTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]*route.Route, error) {
	var rows []models.RouteModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("task_id = ?", taskID).
		Order("planned_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRoutes(rows), nil
}

// FindByTaskAndDate lists the routes of a task planned for the day of date
func (r *GormRouteRepository) FindByTaskAndDate(ctx context.Context, tenantID, taskID uuid.UUID, date time.Time) ([]*route.Route, error) {
	from := shared.StartOfDay(date)
	var rows []models.RouteModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("task_id = ? AND planned_date >= ? AND planned_date < ?", taskID, from, from.AddDate(0, 0, 1)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRoutes(rows), nil
}

// FindAll lists routes with pagination
func (r *GormRouteRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter route.Filter) ([]*route.Route, int64, error) {
	query := conn(ctx, r.db).Model(&models.RouteModel{}).Scopes(tenantScope(tenantID))
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.Date != nil {
		from := shared.StartOfDay(*filter.Date)
		query = query.Where("planned_date >= ? AND planned_date < ?", from, from.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.RouteModel
	if err := query.Order("planned_date DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainRoutes(rows), total, nil
}

// DeleteByTask removes every route of a task
func (r *GormRouteRepository) DeleteByTask(ctx context.Context, tenantID, taskID uuid.UUID) (int64, error) {
	res := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("task_id = ?", taskID).Delete(&models.RouteModel{})
	return res.RowsAffected, res.Error
}

func toDomainRoutes(rows []models.RouteModel) []*route.Route {
	out := make([]*route.Route, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ route.RouteRepository = (*GormRouteRepository)(nil)
