package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/leave"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeaveRepository implements leave.LeaveRepository using GORM
type GormLeaveRepository struct {
	db *gorm.DB
}

// NewGormLeaveRepository creates a new GormLeaveRepository
func NewGormLeaveRepository(db *gorm.DB) *GormLeaveRepository {
	return &GormLeaveRepository{db: db}
}

// Save creates or updates a leave request
func (r *GormLeaveRepository) Save(ctx context.Context, l *leave.Leave) error {
	return translate(conn(ctx, r.db).Save(models.LeaveModelFromDomain(l)).Error)
}

// FindByID finds a leave request of a tenant
func (r *GormLeaveRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leave.Leave, error) {
	var m models.LeaveModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists leave requests, latest start first
func (r *GormLeaveRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter leave.Filter) ([]*leave.Leave, int64, error) {
	query := conn(ctx, r.db).Model(&models.LeaveModel{}).Scopes(tenantScope(tenantID))
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		query = query.Where("leave_type = ?", string(*filter.Type))
	}
	if filter.From != nil {
		query = query.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.LeaveModel
	if err := query.Order("start_date DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainLeaves(rows), total, nil
}

// FindOverlapping returns the user's pending or approved leave intersecting [start, end]
func (r *GormLeaveRepository) FindOverlapping(ctx context.Context, tenantID, userID uuid.UUID, start, end time.Time) ([]*leave.Leave, error) {
	var rows []models.LeaveModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{string(leave.StatusPending), string(leave.StatusApproved)}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLeaves(rows), nil
}

func toDomainLeaves(rows []models.LeaveModel) []*leave.Leave {
	out := make([]*leave.Leave, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ leave.LeaveRepository = (*GormLeaveRepository)(nil)
