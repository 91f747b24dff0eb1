package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

const AggregateTypeTask = "Task"

// Task domain event types
const (
	EventTypeTaskCreated          = "TaskCreated"
	EventTypeTaskUpdated          = "TaskUpdated"
	EventTypeTaskAssigneesChanged = "TaskAssigneesChanged"
	EventTypeTaskClientsChanged   = "TaskClientsChanged"
	EventTypeTaskDeadlineChanged  = "TaskDeadlineChanged"
	EventTypeTaskStatusChanged    = "TaskStatusChanged"
	EventTypeTaskCompleted        = "TaskCompleted"
	EventTypeTaskAssigned         = "TaskAssigned"
	EventTypeTaskDeleted          = "TaskDeleted"
)

// RoutingEventTypes are the events after which routes are (re)planned
var RoutingEventTypes = []string{
	EventTypeTaskCreated,
	EventTypeTaskUpdated,
	EventTypeTaskAssigneesChanged,
	EventTypeTaskClientsChanged,
	EventTypeTaskDeadlineChanged,
}

// TaskCreatedEvent is raised when a task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title     string      `json:"title"`
	Assignees []uuid.UUID `json:"assignees"`
	Clients   []uuid.UUID `json:"clients"`
	Deadline  *time.Time  `json:"deadline,omitempty"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, t.ID, t.TenantID),
		Title:           t.Title,
		Assignees:       t.Assignees,
		Clients:         t.Clients,
		Deadline:        t.Deadline,
	}
}

// TaskUpdatedEvent is raised on any task update
type TaskUpdatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskUpdatedEvent creates a new TaskUpdatedEvent
func NewTaskUpdatedEvent(t *Task) *TaskUpdatedEvent {
	return &TaskUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskUpdated, AggregateTypeTask, t.ID, t.TenantID),
		Title:           t.Title,
	}
}

// TaskAssigneesChangedEvent is raised when the assignee set changes
type TaskAssigneesChangedEvent struct {
	shared.BaseDomainEvent
	Added   []uuid.UUID `json:"added"`
	Removed []uuid.UUID `json:"removed"`
}

// NewTaskAssigneesChangedEvent creates a new TaskAssigneesChangedEvent
func NewTaskAssigneesChangedEvent(t *Task, added, removed []uuid.UUID) *TaskAssigneesChangedEvent {
	return &TaskAssigneesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskAssigneesChanged, AggregateTypeTask, t.ID, t.TenantID),
		Added:           added,
		Removed:         removed,
	}
}

// TaskClientsChangedEvent is raised when the client set changes
type TaskClientsChangedEvent struct {
	shared.BaseDomainEvent
	Added   []uuid.UUID `json:"added"`
	Removed []uuid.UUID `json:"removed"`
}

// NewTaskClientsChangedEvent creates a new TaskClientsChangedEvent
func NewTaskClientsChangedEvent(t *Task, added, removed []uuid.UUID) *TaskClientsChangedEvent {
	return &TaskClientsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskClientsChanged, AggregateTypeTask, t.ID, t.TenantID),
		Added:           added,
		Removed:         removed,
	}
}

// TaskDeadlineChangedEvent is raised when the deadline moves
type TaskDeadlineChangedEvent struct {
	shared.BaseDomainEvent
	PreviousDeadline *time.Time `json:"previous_deadline,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

// NewTaskDeadlineChangedEvent creates a new TaskDeadlineChangedEvent
func NewTaskDeadlineChangedEvent(t *Task, previous *time.Time) *TaskDeadlineChangedEvent {
	return &TaskDeadlineChangedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTaskDeadlineChanged, AggregateTypeTask, t.ID, t.TenantID),
		PreviousDeadline: previous,
		Deadline:         t.Deadline,
	}
}

// TaskStatusChangedEvent is raised on every status transition
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	Title     string      `json:"title"`
	From      Status      `json:"from"`
	To        Status      `json:"to"`
	Assignees []uuid.UUID `json:"assignees"`
}

// NewTaskStatusChangedEvent creates a new TaskStatusChangedEvent
func NewTaskStatusChangedEvent(t *Task, from, to Status) *TaskStatusChangedEvent {
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskStatusChanged, AggregateTypeTask, t.ID, t.TenantID),
		Title:           t.Title,
		From:            from,
		To:              to,
		Assignees:       t.Assignees,
	}
}

// TaskCompletedEvent is raised when a task reaches COMPLETED
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Assignees []uuid.UUID `json:"assignees"`
	Priority  Priority    `json:"priority"`
	OnTime    bool        `json:"on_time"`
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent
func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	onTime := t.Deadline == nil || t.CompletedAt == nil || !t.CompletedAt.After(*t.Deadline)
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, AggregateTypeTask, t.ID, t.TenantID),
		Assignees:       t.Assignees,
		Priority:        t.Priority,
		OnTime:          onTime,
	}
}

// TaskAssignedEvent is raised once per newly added assignee
type TaskAssignedEvent struct {
	shared.BaseDomainEvent
	AssigneeID uuid.UUID  `json:"assignee_id"`
	Title      string     `json:"title"`
	Priority   Priority   `json:"priority"`
	Deadline   *time.Time `json:"deadline,omitempty"`
}

// NewTaskAssignedEvent creates a new TaskAssignedEvent
func NewTaskAssignedEvent(t *Task, assignee uuid.UUID) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskAssigned, AggregateTypeTask, t.ID, t.TenantID),
		AssigneeID:      assignee,
		Title:           t.Title,
		Priority:        t.Priority,
		Deadline:        t.Deadline,
	}
}

// TaskDeletedEvent is raised when a task is soft-deleted
type TaskDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewTaskDeletedEvent creates a new TaskDeletedEvent
func NewTaskDeletedEvent(t *Task) *TaskDeletedEvent {
	return &TaskDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskDeleted, AggregateTypeTask, t.ID, t.TenantID),
	}
}
