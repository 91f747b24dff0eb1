package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/task"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TaskService handles task commands and queries
type TaskService struct {
	tasks     task.TaskRepository
	tx        shared.TxManager
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks task.TaskRepository, tx shared.TxManager, publisher shared.EventPublisher, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{
		tasks:     tasks,
		tx:        tx,
		publisher: publisher,
		logger:    log.Named("task_service"),
		now:       time.Now,
	}
}

// Create saves a task, its subtasks and any generated repetitions in one
// transaction, then publishes TaskCreated and TaskAssigned for each of them.
func (s *TaskService) Create(ctx context.Context, tenantID, creatorID uuid.UUID, req CreateTaskRequest) (*CreateTaskResponse, error) {
	t, err := task.NewTask(tenantID, creatorID, task.NewTaskInput{
		BranchID:          req.BranchID,
		Title:             req.Title,
		Description:       req.Description,
		Priority:          task.Priority(req.Priority),
		Type:              task.Type(req.TaskType),
		Deadline:          req.Deadline,
		RepetitionType:    task.RepetitionType(req.RepetitionType),
		RepetitionEndDate: req.RepetitionEndDate,
		Assignees:         req.Assignees,
		Clients:           req.Clients,
		SubTasks:          req.SubTasks,
		Metadata:          req.Metadata.toDomain(),
	})
	if err != nil {
		return nil, err
	}
	repetitions, err := t.SpawnRepetitions()
	if err != nil {
		return nil, err
	}

	all := append([]*task.Task{t}, repetitions...)
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.tasks.SaveAll(ctx, all)
	}); err != nil {
		return nil, err
	}

	aggs := make([]shared.AggregateRoot, 0, len(all))
	for _, a := range all {
		aggs = append(aggs, a)
	}
	s.publish(ctx, aggs...)

	logger.Enrich(ctx, s.logger).Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.Int("assignees", len(t.Assignees)),
		zap.Int("repetitions", len(repetitions)),
	)

	resp := &CreateTaskResponse{TaskResponse: ToTaskResponse(t)}
	for _, r := range repetitions {
		resp.Repetitions = append(resp.Repetitions, r.ID)
	}
	return resp, nil
}

// GetByID returns a task; soft-deleted tasks are included
func (s *TaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.tasks.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTaskResponse(t)
	return &resp, nil
}

// List returns non-deleted tasks matching the request
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, req ListTasksRequest) ([]TaskResponse, int64, error) {
	filter, err := req.toFilter()
	if err != nil {
		return nil, 0, err
	}
	tasks, total, err := s.tasks.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToTaskResponses(tasks), total, nil
}

// ListForUser returns the tasks assigned to userID
func (s *TaskService) ListForUser(ctx context.Context, tenantID, userID uuid.UUID, req ListTasksRequest) ([]TaskResponse, int64, error) {
	req.AssigneeID = &userID
	return s.List(ctx, tenantID, req)
}

// Update applies a partial update. The task publishes TaskUpdated plus the
// specific change events that route planning listens to.
func (s *TaskService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	return s.mutate(ctx, tenantID, id, func(t *task.Task) error {
		c := task.Changes{
			Title:       req.Title,
			Description: req.Description,
			Deadline:    req.Deadline,
			Assignees:   req.Assignees,
			Clients:     req.Clients,
		}
		if req.Priority != nil {
			p := task.Priority(*req.Priority)
			c.Priority = &p
		}
		if req.TaskType != nil {
			tt := task.Type(*req.TaskType)
			c.Type = &tt
		}
		if req.Metadata != nil {
			m := req.Metadata.toDomain()
			c.Metadata = &m
		}
		return t.ApplyChanges(c)
	})
}

// UpdateProgress sets the progress. Values outside [0, 100] fail with
// INVALID_PROGRESS and nothing is saved.
func (s *TaskService) UpdateProgress(ctx context.Context, tenantID, id uuid.UUID, progress int) (*TaskResponse, error) {
	if progress < task.MinProgress || progress > task.MaxProgress {
		return nil, shared.NewDomainError("INVALID_PROGRESS", "Progress must be between 0 and 100")
	}
	return s.mutate(ctx, tenantID, id, func(t *task.Task) error {
		return t.UpdateProgress(progress)
	})
}

// ChangeStatus moves the task through its workflow
func (s *TaskService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*TaskResponse, error) {
	return s.mutate(ctx, tenantID, id, func(t *task.Task) error {
		return t.ChangeStatus(task.Status(status))
	})
}

// CompleteSubTask ticks a checklist item and recomputes progress
func (s *TaskService) CompleteSubTask(ctx context.Context, tenantID, id, subTaskID uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, tenantID, id, func(t *task.Task) error {
		return t.CompleteSubTask(subTaskID)
	})
}

// Delete soft-deletes a task
func (s *TaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := s.mutate(ctx, tenantID, id, func(t *task.Task) error {
		return t.Delete()
	})
	return err
}

// Restore clears the deleted flag
func (s *TaskService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, tenantID, id, func(t *task.Task) error {
		return t.RestoreTask()
	})
}

// MarkOverdue flips open tasks past their deadline to OVERDUE. A task that
// fails to save is logged and skipped.
func (s *TaskService) MarkOverdue(ctx context.Context, now time.Time) (OverdueResult, error) {
	candidates, err := s.tasks.FindOverdueCandidates(ctx, now)
	if err != nil {
		return OverdueResult{}, err
	}
	log := logger.Enrich(ctx, s.logger)
	result := OverdueResult{Checked: len(candidates)}
	for _, t := range candidates {
		if !t.MarkOverdue(now) {
			continue
		}
		if err := s.tasks.Save(ctx, t); err != nil {
			log.Warn("Failed to mark task overdue", zap.String("task_id", t.ID.String()), zap.Error(err))
			continue
		}
		s.publish(ctx, t)
		result.Marked++
	}
	log.Info("Overdue sweep finished", zap.Int("checked", result.Checked), zap.Int("marked", result.Marked))
	return result, nil
}

func (s *TaskService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*task.Task) error) (*TaskResponse, error) {
	t, err := s.tasks.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, t)
	resp := ToTaskResponse(t)
	return &resp, nil
}

// publish never fails the command; the bus logs handler errors itself
func (s *TaskService) publish(ctx context.Context, aggs ...shared.AggregateRoot) {
	if err := shared.PublishPending(ctx, s.publisher, aggs...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish task events", zap.Error(err))
	}
}

func (r ListTasksRequest) toFilter() (task.Filter, error) {
	f := task.Filter{
		AssigneeID:   r.AssigneeID,
		ClientID:     r.ClientID,
		BranchID:     r.BranchID,
		DeadlineFrom: r.DeadlineFrom,
		DeadlineTo:   r.DeadlineTo,
		Search:       r.Search,
		Page:         r.Page,
		PageSize:     r.PageSize,
	}
	if r.DeadlineFrom != nil && r.DeadlineTo != nil {
		if _, err := shared.NewDateRange(*r.DeadlineFrom, *r.DeadlineTo); err != nil {
			return task.Filter{}, err
		}
	}
	if r.Status != "" {
		st := task.Status(r.Status)
		f.Status = &st
	}
	if r.Priority != "" {
		p := task.Priority(r.Priority)
		f.Priority = &p
	}
	return f, nil
}
