package task

import (
	"time"

	"github.com/loro/backend/internal/domain/shared"
)

// RepetitionType controls how a task repeats after its deadline
type RepetitionType string

const (
	RepetitionNone    RepetitionType = "NONE"
	RepetitionDaily   RepetitionType = "DAILY"
	RepetitionWeekly  RepetitionType = "WEEKLY"
	RepetitionMonthly RepetitionType = "MONTHLY"
	RepetitionYearly  RepetitionType = "YEARLY"
)

// MaxRepetitions bounds the number of generated copies of a single task
const MaxRepetitions = 365

// IsValid reports whether r is a known repetition type
func (r RepetitionType) IsValid() bool {
	switch r {
	case RepetitionNone, RepetitionDaily, RepetitionWeekly, RepetitionMonthly, RepetitionYearly:
		return true
	}
	return false
}

func (r RepetitionType) next(t time.Time) time.Time {
	switch r {
	case RepetitionDaily:
		return t.AddDate(0, 0, 1)
	case RepetitionWeekly:
		return t.AddDate(0, 0, 7)
	case RepetitionMonthly:
		return t.AddDate(0, 1, 0)
	case RepetitionYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// RepetitionDates returns the deadlines of the repeated copies of a task: each
// step after deadline up to and including end. The deadline itself is not
// part of the result.
//
// WEEKLY from 2024-01-01 to 2024-01-22 yields 01-08, 01-15, 01-22.
func RepetitionDates(deadline time.Time, repetition RepetitionType, end time.Time) []time.Time {
	if repetition == RepetitionNone || !repetition.IsValid() || end.Before(deadline) {
		return nil
	}
	var dates []time.Time
	for next := repetition.next(deadline); !next.After(end); next = repetition.next(next) {
		dates = append(dates, next)
		if len(dates) == MaxRepetitions {
			break
		}
	}
	return dates
}

// SpawnRepetitions builds the repeated copies of a repeating task. Each copy is
// a fresh pending task with the parent's assignees, clients and subtask titles,
// linked back through ParentTaskID and not repeating itself.
func (t *Task) SpawnRepetitions() ([]*Task, error) {
	if t.Deadline == nil || t.RepetitionEndDate == nil {
		return nil, nil
	}
	creator := t.ID
	if t.CreatedBy != nil {
		creator = *t.CreatedBy
	}

	subtasks := make([]string, 0, len(t.SubTasks))
	for _, s := range t.SubTasks {
		subtasks = append(subtasks, s.Title)
	}

	dates := RepetitionDates(*t.Deadline, t.RepetitionType, *t.RepetitionEndDate)
	copies := make([]*Task, 0, len(dates))
	for _, d := range dates {
		deadline := d
		c, err := NewTask(t.TenantID, creator, NewTaskInput{
			BranchID:    t.BranchID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			Type:        t.Type,
			Deadline:    &deadline,
			Assignees:   t.Assignees,
			Clients:     t.Clients,
			SubTasks:    subtasks,
			Metadata:    t.Metadata,
		})
		if err != nil {
			return nil, err
		}
		parent := t.ID
		c.ParentTaskID = &parent
		copies = append(copies, c)
	}
	return copies, nil
}

func validateRepetition(deadline *time.Time, repetition RepetitionType, end *time.Time) error {
	if !repetition.IsValid() {
		return shared.NewDomainError("INVALID_REPETITION", "Unknown repetition type")
	}
	if repetition == RepetitionNone {
		return nil
	}
	if deadline == nil {
		return shared.NewDomainError("INVALID_REPETITION", "A repeating task needs a deadline")
	}
	if end == nil {
		return shared.NewDomainError("INVALID_REPETITION", "A repeating task needs a repetition end date")
	}
	if end.Before(*deadline) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Repetition end date must not be before the deadline")
	}
	return nil
}
