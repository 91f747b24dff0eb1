package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/task"
)

// TaskModel is the persistence model for tasks
type TaskModel struct {
	TenantModel
	SoftDeleteColumns
	BranchID          *uuid.UUID `gorm:"type:uuid;index"`
	Title             string     `gorm:"size:255;not null"`
	Description       string     `gorm:"type:text"`
	Status            string     `gorm:"size:20;not null;index"`
	Priority          string     `gorm:"size:20;not null"`
	TaskType          string     `gorm:"size:30;not null"`
	Progress          int        `gorm:"not null;default:0"`
	Deadline          *time.Time `gorm:"index"`
	RepetitionType    string     `gorm:"size:20;not null"`
	RepetitionEndDate *time.Time
	ParentTaskID      *uuid.UUID    `gorm:"type:uuid;index"`
	Metadata          task.Metadata `gorm:"type:jsonb"`
	CompletedAt       *time.Time

	SubTasks  []SubTaskModel      `gorm:"foreignKey:TaskID"`
	Assignees []TaskAssigneeModel `gorm:"foreignKey:TaskID"`
	Clients   []TaskClientModel   `gorm:"foreignKey:TaskID"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// SubTaskModel is a checklist row owned by a task
type SubTaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"size:255;not null"`
	Status      string    `gorm:"size:20;not null"`
	SortOrder   int       `gorm:"not null"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (SubTaskModel) TableName() string {
	return "sub_tasks"
}

// TaskAssigneeModel links a task to an assigned user
type TaskAssigneeModel struct {
	TaskID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaskAssigneeModel) TableName() string {
	return "task_assignees"
}

// TaskClientModel links a task to a client to visit
type TaskClientModel struct {
	TaskID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaskClientModel) TableName() string {
	return "task_clients"
}

// ToDomain converts the model and its loaded children to a domain Task
func (m *TaskModel) ToDomain() *task.Task {
	t := &task.Task{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		BranchID:            m.BranchID,
		Title:               m.Title,
		Description:         m.Description,
		Status:              task.Status(m.Status),
		Priority:            task.Priority(m.Priority),
		Type:                task.Type(m.TaskType),
		Progress:            m.Progress,
		Deadline:            m.Deadline,
		RepetitionType:      task.RepetitionType(m.RepetitionType),
		RepetitionEndDate:   m.RepetitionEndDate,
		ParentTaskID:        m.ParentTaskID,
		Metadata:            m.Metadata,
		CompletedAt:         m.CompletedAt,
		Assignees:           make([]uuid.UUID, len(m.Assignees)),
		Clients:             make([]uuid.UUID, len(m.Clients)),
		SubTasks:            make([]task.SubTask, len(m.SubTasks)),
	}
	for _, a := range m.Assignees {
		if a.Position >= 0 && a.Position < len(t.Assignees) {
			t.Assignees[a.Position] = a.UserID
		}
	}
	for _, c := range m.Clients {
		if c.Position >= 0 && c.Position < len(t.Clients) {
			t.Clients[c.Position] = c.ClientID
		}
	}
	for i, s := range m.SubTasks {
		t.SubTasks[i] = task.SubTask{
			ID:          s.ID,
			Title:       s.Title,
			Status:      task.SubTaskStatus(s.Status),
			SortOrder:   s.SortOrder,
			CompletedAt: s.CompletedAt,
		}
	}
	return t
}

// TaskModelFromDomain converts a domain Task and its children to models
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{
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
		Metadata:          t.Metadata,
		CompletedAt:       t.CompletedAt,
	}
	m.FromDomainTenant(t.TenantAggregateRoot)
	m.FromDomainSoftDelete(t.SoftDelete)
	for i, id := range t.Assignees {
		m.Assignees = append(m.Assignees, TaskAssigneeModel{TaskID: t.ID, UserID: id, Position: i})
	}
	for i, id := range t.Clients {
		m.Clients = append(m.Clients, TaskClientModel{TaskID: t.ID, ClientID: id, Position: i})
	}
	for _, s := range t.SubTasks {
		m.SubTasks = append(m.SubTasks, SubTaskModel{
			ID:          s.ID,
			TaskID:      t.ID,
			Title:       s.Title,
			Status:      string(s.Status),
			SortOrder:   s.SortOrder,
			CompletedAt: s.CompletedAt,
		})
	}
	return m
}
