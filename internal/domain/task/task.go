package task

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// Status of a task
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusOverdue    Status = "OVERDUE"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

// IsTerminal reports whether no further work happens on the task
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Type classifies the work to be done
type Type string

const (
	TypeInPersonMeeting Type = "IN_PERSON_MEETING"
	TypeVirtualMeeting  Type = "VIRTUAL_MEETING"
	TypeCall            Type = "CALL"
	TypeVisit           Type = "VISIT"
	TypeDelivery        Type = "DELIVERY"
	TypeOther           Type = "OTHER"
)

// IsValid reports whether t is a known task type
func (t Type) IsValid() bool {
	switch t {
	case TypeInPersonMeeting, TypeVirtualMeeting, TypeCall, TypeVisit, TypeDelivery, TypeOther:
		return true
	}
	return false
}

// Metadata is the typed payload of the tasks.metadata JSON column
type Metadata struct {
	Source      string   `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ExternalRef string   `json:"external_ref,omitempty"`
}

// Value implements driver.Valuer
func (m Metadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *Metadata) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into task.Metadata", value)
	}
}

const (
	MinProgress = 0
	MaxProgress = 100
)

// Task is a unit of field work assigned to one or more users, optionally at
// one or more clients. Tasks with a deadline, assignees and clients get a
// planned route per assignee.
type Task struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	BranchID          *uuid.UUID
	Title             string
	Description       string
	Status            Status
	Priority          Priority
	Type              Type
	Progress          int
	Deadline          *time.Time
	RepetitionType    RepetitionType
	RepetitionEndDate *time.Time
	ParentTaskID      *uuid.UUID
	Assignees         []uuid.UUID
	Clients           []uuid.UUID
	SubTasks          []SubTask
	Metadata          Metadata
	CompletedAt       *time.Time
}

// NewTaskInput carries the fields accepted at creation
type NewTaskInput struct {
	BranchID          *uuid.UUID
	Title             string
	Description       string
	Priority          Priority
	Type              Type
	Deadline          *time.Time
	RepetitionType    RepetitionType
	RepetitionEndDate *time.Time
	Assignees         []uuid.UUID
	Clients           []uuid.UUID
	SubTasks          []string
	Metadata          Metadata
}

// NewTask creates a pending task and raises TaskCreated plus one TaskAssigned per assignee
func NewTask(tenantID, creatorID uuid.UUID, in NewTaskInput) (*Task, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}
	if in.Type == "" {
		in.Type = TypeOther
	}
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TASK_TYPE", "Unknown task type")
	}
	if in.RepetitionType == "" {
		in.RepetitionType = RepetitionNone
	}
	if err := validateRepetition(in.Deadline, in.RepetitionType, in.RepetitionEndDate); err != nil {
		return nil, err
	}

	t := &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            in.BranchID,
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		Status:              StatusPending,
		Priority:            in.Priority,
		Type:                in.Type,
		Deadline:            in.Deadline,
		RepetitionType:      in.RepetitionType,
		RepetitionEndDate:   in.RepetitionEndDate,
		Assignees:           uniqueIDs(in.Assignees),
		Clients:             uniqueIDs(in.Clients),
		Metadata:            in.Metadata,
	}
	t.SetCreatedBy(creatorID)

	for i, title := range in.SubTasks {
		st, err := NewSubTask(title, i)
		if err != nil {
			return nil, err
		}
		t.SubTasks = append(t.SubTasks, *st)
	}

	t.AddDomainEvent(NewTaskCreatedEvent(t))
	for _, assignee := range t.Assignees {
		t.AddDomainEvent(NewTaskAssignedEvent(t, assignee))
	}
	return t, nil
}

// Changes describes a partial update. Nil fields are left untouched.
type Changes struct {
	Title       *string
	Description *string
	Priority    *Priority
	Type        *Type
	Deadline    *time.Time
	Assignees   *[]uuid.UUID
	Clients     *[]uuid.UUID
	Metadata    *Metadata
}

// ApplyChanges updates the task and raises TaskUpdated plus the specific
// change events that route planning reacts to.
func (t *Task) ApplyChanges(c Changes) error {
	if t.Deleted() {
		return shared.NewDomainError("TASK_DELETED", "Cannot update a deleted task")
	}
	if c.Title != nil {
		if err := validateTitle(*c.Title); err != nil {
			return err
		}
	}
	if c.Priority != nil && !c.Priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}
	if c.Type != nil && !c.Type.IsValid() {
		return shared.NewDomainError("INVALID_TASK_TYPE", "Unknown task type")
	}

	if c.Title != nil {
		t.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		t.Description = strings.TrimSpace(*c.Description)
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.Type != nil {
		t.Type = *c.Type
	}
	if c.Metadata != nil {
		t.Metadata = *c.Metadata
	}

	var deadlineEvent, assigneesEvent, clientsEvent shared.DomainEvent
	if c.Deadline != nil && !sameInstant(t.Deadline, c.Deadline) {
		previous := t.Deadline
		d := *c.Deadline
		t.Deadline = &d
		deadlineEvent = NewTaskDeadlineChangedEvent(t, previous)
	}
	var added []uuid.UUID
	if c.Assignees != nil {
		next := uniqueIDs(*c.Assignees)
		var removed []uuid.UUID
		added, removed = diffIDs(t.Assignees, next)
		if len(added) > 0 || len(removed) > 0 {
			t.Assignees = next
			assigneesEvent = NewTaskAssigneesChangedEvent(t, added, removed)
		}
	}
	if c.Clients != nil {
		next := uniqueIDs(*c.Clients)
		add, rem := diffIDs(t.Clients, next)
		if len(add) > 0 || len(rem) > 0 {
			t.Clients = next
			clientsEvent = NewTaskClientsChangedEvent(t, add, rem)
		}
	}

	t.IncrementVersion()
	t.AddDomainEvent(NewTaskUpdatedEvent(t))
	for _, ev := range []shared.DomainEvent{assigneesEvent, clientsEvent, deadlineEvent} {
		if ev != nil {
			t.AddDomainEvent(ev)
		}
	}
	for _, a := range added {
		t.AddDomainEvent(NewTaskAssignedEvent(t, a))
	}
	return nil
}

// UpdateProgress sets progress in [0, 100]. Out of range values are rejected
// and leave the stored progress unchanged. Reaching 100 completes the task.
func (t *Task) UpdateProgress(progress int) error {
	if progress < MinProgress || progress > MaxProgress {
		return shared.NewDomainError("INVALID_PROGRESS", fmt.Sprintf("Progress must be between %d and %d", MinProgress, MaxProgress))
	}
	if t.Deleted() {
		return shared.NewDomainError("TASK_DELETED", "Cannot update a deleted task")
	}
	if t.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot update progress of a cancelled task")
	}

	t.Progress = progress
	switch {
	case progress == MaxProgress && t.Status != StatusCompleted:
		t.complete()
	case progress < MaxProgress && t.Status == StatusCompleted:
		t.CompletedAt = nil
		t.transition(StatusInProgress)
	case progress > 0 && t.Status == StatusPending:
		t.transition(StatusInProgress)
	}
	t.IncrementVersion()
	return nil
}

var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled, StatusOverdue},
	StatusInProgress: {StatusPending, StatusCompleted, StatusCancelled, StatusOverdue},
	StatusOverdue:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusInProgress},
	StatusCancelled:  {StatusPending},
}

// ChangeStatus moves the task to status if the transition is allowed
func (t *Task) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status")
	}
	if t.Deleted() {
		return shared.NewDomainError("TASK_DELETED", "Cannot change status of a deleted task")
	}
	if status == t.Status {
		return nil
	}
	if !slices.Contains(allowedTransitions[t.Status], status) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move task from %s to %s", t.Status, status))
	}

	if status == StatusCompleted {
		t.complete()
	} else {
		if t.Status == StatusCompleted {
			t.CompletedAt = nil
			if t.Progress == MaxProgress {
				t.Progress = MaxProgress - 1
			}
		}
		t.transition(status)
	}
	t.IncrementVersion()
	return nil
}

// MarkOverdue flips an open task past its deadline to OVERDUE.
// It returns false when nothing changed.
func (t *Task) MarkOverdue(now time.Time) bool {
	if t.Deleted() || t.Deadline == nil || !t.Deadline.Before(now) {
		return false
	}
	if t.Status != StatusPending && t.Status != StatusInProgress {
		return false
	}
	t.transition(StatusOverdue)
	t.IncrementVersion()
	return true
}

// CompleteSubTask marks a subtask done and recalculates progress from subtasks
func (t *Task) CompleteSubTask(subTaskID uuid.UUID) error {
	idx := slices.IndexFunc(t.SubTasks, func(s SubTask) bool { return s.ID == subTaskID })
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", "Subtask not found")
	}
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Task is already closed")
	}
	t.SubTasks[idx].Complete()

	done := 0
	for _, s := range t.SubTasks {
		if s.Status == SubTaskStatusCompleted {
			done++
		}
	}
	return t.UpdateProgress(done * MaxProgress / len(t.SubTasks))
}

// Delete soft-deletes the task
func (t *Task) Delete() error {
	if t.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Task is already deleted")
	}
	t.MarkDeleted()
	t.IncrementVersion()
	t.AddDomainEvent(NewTaskDeletedEvent(t))
	return nil
}

// RestoreTask clears the deleted flag
func (t *Task) RestoreTask() error {
	if !t.Deleted() {
		return shared.NewDomainError("INVALID_STATE", "Task is not deleted")
	}
	t.Restore()
	t.IncrementVersion()
	t.AddDomainEvent(NewTaskUpdatedEvent(t))
	return nil
}

// IsRoutable reports whether route planning has enough to work with
func (t *Task) IsRoutable() bool {
	return !t.Deleted() && t.Deadline != nil && len(t.Assignees) > 0 && len(t.Clients) > 0
}

// IsAssignedTo reports whether userID is one of the assignees
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return slices.Contains(t.Assignees, userID)
}

// PlannedDate is the deadline truncated to midnight
func (t *Task) PlannedDate() time.Time {
	if t.Deadline == nil {
		return time.Time{}
	}
	return shared.StartOfDay(*t.Deadline)
}

func (t *Task) complete() {
	now := time.Now()
	t.Progress = MaxProgress
	t.CompletedAt = &now
	t.transition(StatusCompleted)
	t.AddDomainEvent(NewTaskCompletedEvent(t))
}

func (t *Task) transition(to Status) {
	from := t.Status
	t.Status = to
	t.AddDomainEvent(NewTaskStatusChangedEvent(t, from, to))
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 255 characters")
	}
	return nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func diffIDs(before, after []uuid.UUID) (added, removed []uuid.UUID) {
	for _, id := range after {
		if !slices.Contains(before, id) {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if !slices.Contains(after, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}
