package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttendanceRepository implements attendance.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Save creates or updates a shift
func (r *GormAttendanceRepository) Save(ctx context.Context, a *attendance.Attendance) error {
	return translate(conn(ctx, r.db).Save(models.AttendanceModelFromDomain(a)).Error)
}

// FindByID finds a shift of a tenant
func (r *GormAttendanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*attendance.Attendance, error) {
	var m models.AttendanceModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindOpenByUser returns the user's latest shift without check-out
func (r *GormAttendanceRepository) FindOpenByUser(ctx context.Context, tenantID, userID uuid.UUID) (*attendance.Attendance, error) {
	var m models.AttendanceModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("user_id = ? AND check_out IS NULL", userID).
		Order("check_in DESC").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByUser lists shifts whose check-in falls in [from, to]
func (r *GormAttendanceRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*attendance.Attendance, error) {
	var rows []models.AttendanceModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("user_id = ? AND check_in BETWEEN ? AND ?", userID, from, to).
		Order("check_in DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainShifts(rows), nil
}

// FindByBranch lists shifts of a branch whose check-in falls in [from, to]
func (r *GormAttendanceRepository) FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, from, to time.Time) ([]*attendance.Attendance, error) {
	var rows []models.AttendanceModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("branch_id = ? AND check_in BETWEEN ? AND ?", branchID, from, to).
		Order("check_in DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainShifts(rows), nil
}

// Summarize aggregates present days and worked minutes per user
func (r *GormAttendanceRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter attendance.SummaryFilter) ([]attendance.UserSummary, error) {
	query := conn(ctx, r.db).Model(&models.AttendanceModel{}).
		Scopes(tenantScope(tenantID)).
		Where("check_in BETWEEN ? AND ?", filter.From, filter.To)
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var rows []struct {
		UserID       uuid.UUID
		PresentDays  int64
		TotalMinutes int64
	}
	err := query.
		Select("user_id, COUNT(DISTINCT DATE(check_in)) AS present_days, COALESCE(SUM(duration_minutes), 0) AS total_minutes").
		Group("user_id").
		Order("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]attendance.UserSummary, len(rows))
	for i, row := range rows {
		out[i] = attendance.UserSummary{UserID: row.UserID, PresentDays: row.PresentDays, TotalMinutes: row.TotalMinutes}
	}
	return out, nil
}

func toDomainShifts(rows []models.AttendanceModel) []*attendance.Attendance {
	out := make([]*attendance.Attendance, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormCheckInRepository implements attendance.CheckInRepository using GORM
type GormCheckInRepository struct {
	db *gorm.DB
}

// NewGormCheckInRepository creates a new GormCheckInRepository
func NewGormCheckInRepository(db *gorm.DB) *GormCheckInRepository {
	return &GormCheckInRepository{db: db}
}

// Save creates or updates a visit
func (r *GormCheckInRepository) Save(ctx context.Context, c *attendance.CheckIn) error {
	return translate(conn(ctx, r.db).Save(models.CheckInModelFromDomain(c)).Error)
}

// FindByID finds a visit of a tenant
func (r *GormCheckInRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*attendance.CheckIn, error) {
	var m models.CheckInModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists visits, newest first
func (r *GormCheckInRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter attendance.CheckInFilter) ([]*attendance.CheckIn, int64, error) {
	query := conn(ctx, r.db).Model(&models.CheckInModel{}).Scopes(tenantScope(tenantID))
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		query = query.Where("check_in_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("check_in_time <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.CheckInModel
	if err := query.Order("check_in_time DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*attendance.CheckIn, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var (
	_ attendance.AttendanceRepository = (*GormAttendanceRepository)(nil)
	_ attendance.CheckInRepository    = (*GormCheckInRepository)(nil)
)
