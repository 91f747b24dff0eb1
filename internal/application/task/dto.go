package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/task"
)

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	BranchID          *uuid.UUID  `json:"branch_id"`
	Title             string      `json:"title" binding:"required,min=1,max=200"`
	Description       string      `json:"description" binding:"max=2000"`
	Priority          string      `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	TaskType          string      `json:"task_type" binding:"omitempty,oneof=IN_PERSON_MEETING VIRTUAL_MEETING CALL VISIT DELIVERY OTHER"`
	Deadline          *time.Time  `json:"deadline"`
	RepetitionType    string      `json:"repetition_type" binding:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY YEARLY"`
	RepetitionEndDate *time.Time  `json:"repetition_end_date"`
	Assignees         []uuid.UUID `json:"assignees"`
	Clients           []uuid.UUID `json:"clients"`
	SubTasks          []string    `json:"subtasks" binding:"dive,min=1,max=255"`
	Metadata          *Metadata   `json:"metadata"`
}

// Metadata is the free-form part of a task
type Metadata struct {
	Source      string   `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ExternalRef string   `json:"external_ref,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Omitted fields are unchanged.
type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string      `json:"description" binding:"omitempty,max=2000"`
	Priority    *string      `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	TaskType    *string      `json:"task_type" binding:"omitempty,oneof=IN_PERSON_MEETING VIRTUAL_MEETING CALL VISIT DELIVERY OTHER"`
	Deadline    *time.Time   `json:"deadline"`
	Assignees   *[]uuid.UUID `json:"assignees"`
	Clients     *[]uuid.UUID `json:"clients"`
	Metadata    *Metadata    `json:"metadata"`
}

// UpdateProgressRequest is the body of PATCH /tasks/:id/progress. Range
// checking is left to the domain so the error code is INVALID_PROGRESS.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// ChangeStatusRequest is the body of PATCH /tasks/:id/status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED OVERDUE"`
}

// ListTasksRequest holds the query of GET /tasks
type ListTasksRequest struct {
	Status       string     `form:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED OVERDUE"`
	Priority     string     `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID   *uuid.UUID `form:"assignee_id,parser=encoding.TextUnmarshaler"`
	ClientID     *uuid.UUID `form:"client_id,parser=encoding.TextUnmarshaler"`
	BranchID     *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	DeadlineFrom *time.Time `form:"deadline_from" time_format:"2006-01-02"`
	DeadlineTo   *time.Time `form:"deadline_to" time_format:"2006-01-02"`
	Search       string     `form:"search" binding:"max=100"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SubTaskResponse is a checklist item
type SubTaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	SortOrder   int        `json:"sort_order"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskResponse is the API representation of a task
type TaskResponse struct {
	ID                uuid.UUID         `json:"id"`
	TenantID          uuid.UUID         `json:"tenant_id"`
	BranchID          *uuid.UUID        `json:"branch_id,omitempty"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Status            string            `json:"status"`
	Priority          string            `json:"priority"`
	TaskType          string            `json:"task_type"`
	Progress          int               `json:"progress"`
	Deadline          *time.Time        `json:"deadline,omitempty"`
	RepetitionType    string            `json:"repetition_type"`
	RepetitionEndDate *time.Time        `json:"repetition_end_date,omitempty"`
	ParentTaskID      *uuid.UUID        `json:"parent_task_id,omitempty"`
	Assignees         []uuid.UUID       `json:"assignees"`
	Clients           []uuid.UUID       `json:"clients"`
	SubTasks          []SubTaskResponse `json:"subtasks"`
	Metadata          Metadata          `json:"metadata"`
	IsDeleted         bool              `json:"is_deleted"`
	CreatedBy         *uuid.UUID        `json:"created_by,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// CreateTaskResponse carries the created task and the ids of its repetitions
type CreateTaskResponse struct {
	TaskResponse
	Repetitions []uuid.UUID `json:"repetitions,omitempty"`
}

// OverdueResult summarises one run of the overdue sweep
type OverdueResult struct {
	Checked int `json:"checked"`
	Marked  int `json:"marked"`
}

// ToTaskResponse converts a domain task
func ToTaskResponse(t *task.Task) TaskResponse {
	subtasks := make([]SubTaskResponse, 0, len(t.SubTasks))
	for _, s := range t.SubTasks {
		subtasks = append(subtasks, SubTaskResponse{
			ID:          s.ID,
			Title:       s.Title,
			Status:      string(s.Status),
			SortOrder:   s.SortOrder,
			CompletedAt: s.CompletedAt,
		})
	}
	assignees := t.Assignees
	if assignees == nil {
		assignees = []uuid.UUID{}
	}
	clients := t.Clients
	if clients == nil {
		clients = []uuid.UUID{}
	}
	return TaskResponse{
		ID:                t.ID,
		TenantID:          t.TenantID,
		BranchID:          t.BranchID,
		Title:             t.Title,
		Description:       t.Description,
		Status:            string(t.Status),
		Priority:          string(t.Priority),
		TaskType:          string(t.Type),
		Progress:          t.Progress,
		Deadline:          t.Deadline,
		RepetitionType:    string(t.RepetitionType),
		RepetitionEndDate: t.RepetitionEndDate,
		ParentTaskID:      t.ParentTaskID,
		Assignees:         assignees,
		Clients:           clients,
		SubTasks:          subtasks,
		Metadata: Metadata{
			Source:      t.Metadata.Source,
			Tags:        t.Metadata.Tags,
			ExternalRef: t.Metadata.ExternalRef,
		},
		IsDeleted:   t.Deleted(),
		CreatedBy:   t.CreatedBy,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTaskResponses converts a list
func ToTaskResponses(tasks []*task.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

func (m *Metadata) toDomain() task.Metadata {
	if m == nil {
		return task.Metadata{}
	}
	return task.Metadata{Source: m.Source, Tags: m.Tags, ExternalRef: m.ExternalRef}
}
