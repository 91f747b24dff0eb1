package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// SubTaskStatus of a checklist item
type SubTaskStatus string

const (
	SubTaskStatusPending   SubTaskStatus = "PENDING"
	SubTaskStatusCompleted SubTaskStatus = "COMPLETED"
)

// SubTask is a checklist item owned by a Task. It is saved in the same
// transaction as its task.
type SubTask struct {
	ID          uuid.UUID
	Title       string
	Status      SubTaskStatus
	SortOrder   int
	CompletedAt *time.Time
}

// NewSubTask creates a pending subtask
func NewSubTask(title string, order int) (*SubTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_SUBTASK", "Subtask title cannot be empty")
	}
	if len(title) > 255 {
		return nil, shared.NewDomainError("INVALID_SUBTASK", "Subtask title cannot exceed 255 characters")
	}
	return &SubTask{
		ID:        uuid.New(),
		Title:     title,
		Status:    SubTaskStatusPending,
		SortOrder: order,
	}, nil
}

// Complete marks the subtask done
func (s *SubTask) Complete() {
	if s.Status == SubTaskStatusCompleted {
		return
	}
	now := time.Now()
	s.Status = SubTaskStatusCompleted
	s.CompletedAt = &now
}
