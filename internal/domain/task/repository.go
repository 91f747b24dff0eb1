package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository persists tasks together with their subtasks, assignees and clients
type TaskRepository interface {
	// Save creates or updates a task and replaces its subtasks, assignees and clients
	Save(ctx context.Context, task *Task) error

	// SaveAll saves several tasks; callers wrap it in a transaction when atomicity matters
	SaveAll(ctx context.Context, tasks []*Task) error

	// FindByID returns the task even when it is soft-deleted
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)

	// FindAll lists non-deleted tasks
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]*Task, int64, error)

	// FindDueBetween lists non-deleted tasks of all tenants whose deadline is in [from, to)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*Task, error)

	// FindOverdueCandidates lists open non-deleted tasks whose deadline is before now
	FindOverdueCandidates(ctx context.Context, now time.Time) ([]*Task, error)

	// CountByStatus aggregates task counts per status for reporting
	CountByStatus(ctx context.Context, tenantID uuid.UUID, filter Filter) (map[Status]int64, error)
}

// Filter holds list criteria for tasks
type Filter struct {
	Status       *Status
	Priority     *Priority
	AssigneeID   *uuid.UUID
	ClientID     *uuid.UUID
	BranchID     *uuid.UUID
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	Search       string

	Page     int
	PageSize int
}
