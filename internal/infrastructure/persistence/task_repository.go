package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/task"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository implements task.TaskRepository using GORM.
// Assignees and clients live in join tables so filtering by them works the
// same on Postgres and SQLite.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Save creates or updates a task and replaces its subtasks, assignees and clients
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		return saveTask(tx, t)
	})
}

// SaveAll saves several tasks in one transaction
func (r *GormTaskRepository) SaveAll(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		for _, t := range tasks {
			if err := saveTask(tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveTask(tx *gorm.DB, t *task.Task) error {
	m := models.TaskModelFromDomain(t)
	if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
		return translate(err)
	}

	if err := tx.Where("task_id = ?", t.ID).Delete(&models.SubTaskModel{}).Error; err != nil {
		return err
	}
	if len(m.SubTasks) > 0 {
		if err := tx.Create(&m.SubTasks).Error; err != nil {
			return translate(err)
		}
	}

	if err := tx.Where("task_id = ?", t.ID).Delete(&models.TaskAssigneeModel{}).Error; err != nil {
		return err
	}
	if len(m.Assignees) > 0 {
		if err := tx.Create(&m.Assignees).Error; err != nil {
			return translate(err)
		}
	}

	if err := tx.Where("task_id = ?", t.ID).Delete(&models.TaskClientModel{}).Error; err != nil {
		return err
	}
	if len(m.Clients) > 0 {
		if err := tx.Create(&m.Clients).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func withTaskChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Assignees").
		Preload("Clients")
}

// FindByID returns the task even when it is soft-deleted
func (r *GormTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*task.Task, error) {
	var m models.TaskModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID), withTaskChildren).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists non-deleted tasks
func (r *GormTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter task.Filter) ([]*task.Task, int64, error) {
	query := applyTaskFilter(conn(ctx, r.db).Model(&models.TaskModel{}).Scopes(tenantScope(tenantID), notDeleted), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TaskModel
	err := query.Scopes(withTaskChildren, paginate(filter.Page, filter.PageSize)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toDomainTasks(rows), total, nil
}

func applyTaskFilter(query *gorm.DB, filter task.Filter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("id IN (SELECT task_id FROM task_assignees WHERE user_id = ?)", *filter.AssigneeID)
	}
	if filter.ClientID != nil {
		query = query.Where("id IN (SELECT task_id FROM task_clients WHERE client_id = ?)", *filter.ClientID)
	}
	if filter.DeadlineFrom != nil {
		query = query.Where("deadline >= ?", *filter.DeadlineFrom)
	}
	if filter.DeadlineTo != nil {
		query = query.Where("deadline <= ?", *filter.DeadlineTo)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	return query
}

// FindDueBetween lists non-deleted tasks of all tenants whose deadline is in [from, to)
func (r *GormTaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	var rows []models.TaskModel
	err := conn(ctx, r.db).Scopes(notDeleted, withTaskChildren).
		Where("deadline >= ? AND deadline < ?", from, to).
		Order("deadline ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainTasks(rows), nil
}

// FindOverdueCandidates lists open non-deleted tasks whose deadline is before now
func (r *GormTaskRepository) FindOverdueCandidates(ctx context.Context, now time.Time) ([]*task.Task, error) {
	var rows []models.TaskModel
	err := conn(ctx, r.db).Scopes(notDeleted, withTaskChildren).
		Where("status IN ?", []string{string(task.StatusPending), string(task.StatusInProgress)}).
		Where("deadline < ?", now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainTasks(rows), nil
}

// CountByStatus aggregates task counts per status for reporting
func (r *GormTaskRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, filter task.Filter) (map[task.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	query := applyTaskFilter(conn(ctx, r.db).Model(&models.TaskModel{}).Scopes(tenantScope(tenantID), notDeleted), filter)
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[task.Status]int64, len(rows))
	for _, row := range rows {
		out[task.Status(row.Status)] = row.Count
	}
	return out, nil
}

func toDomainTasks(rows []models.TaskModel) []*task.Task {
	out := make([]*task.Task, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ task.TaskRepository = (*GormTaskRepository)(nil)
