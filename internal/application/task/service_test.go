package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) SaveAll(ctx context.Context, tasks []*task.Task) error {
	return m.Called(ctx, tasks).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter task.Filter) ([]*task.Task, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOverdueCandidates(ctx context.Context, now time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, filter task.Filter) (map[task.Status]int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(map[task.Status]int64), args.Error(1)
}

type passthroughTx struct{ calls int }

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (c *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	c.events = append(c.events, events...)
	return nil
}

func (c *capturePublisher) types() []string {
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType())
	}
	return out
}

func setup(t *testing.T) (*TaskService, *MockTaskRepository, *passthroughTx, *capturePublisher) {
	t.Helper()
	repo := new(MockTaskRepository)
	tx := &passthroughTx{}
	pub := &capturePublisher{}
	return NewTaskService(repo, tx, pub, nil), repo, tx, pub
}

func existingTask(t *testing.T, tenantID uuid.UUID) *task.Task {
	t.Helper()
	deadline := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	tk, err := task.NewTask(tenantID, uuid.New(), task.NewTaskInput{
		Title:     "Visit clients",
		Deadline:  &deadline,
		Assignees: []uuid.UUID{uuid.New()},
		Clients:   []uuid.UUID{uuid.New()},
		SubTasks:  []string{"Collect signature", "Take photo"},
	})
	require.NoError(t, err)
	tk.ClearDomainEvents()
	return tk
}

func TestTaskService_Create_WeeklyRepetitionsInOneTransaction(t *testing.T) {
	svc, repo, tx, pub := setup(t)
	tenantID, creator := uuid.New(), uuid.New()
	deadline := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 22, 23, 59, 0, 0, time.UTC)

	var saved []*task.Task
	repo.On("SaveAll", mock.Anything, mock.AnythingOfType("[]*task.Task")).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]*task.Task) }).
		Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, creator, CreateTaskRequest{
		Title:             "Weekly check",
		Deadline:          &deadline,
		RepetitionType:    "WEEKLY",
		RepetitionEndDate: &end,
		Assignees:         []uuid.UUID{uuid.New()},
		SubTasks:          []string{"Inspect"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	require.Len(t, saved, 4)
	assert.Len(t, resp.Repetitions, 3)
	want := []string{"2024-01-08", "2024-01-15", "2024-01-22"}
	for i, rep := range saved[1:] {
		assert.Equal(t, want[i], rep.Deadline.Format("2006-01-02"))
		assert.Equal(t, resp.ID, *rep.ParentTaskID)
		assert.Len(t, rep.SubTasks, 1)
	}
	assert.Equal(t, 4, countType(pub.types(), task.EventTypeTaskCreated))
	assert.Equal(t, 4, countType(pub.types(), task.EventTypeTaskAssigned))
}

func TestTaskService_Create_SaveFailurePublishesNothing(t *testing.T) {
	svc, repo, _, pub := setup(t)
	repo.On("SaveAll", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateTaskRequest{Title: "x"})
	require.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestTaskService_Create_InvalidRepetition(t *testing.T) {
	svc, repo, _, _ := setup(t)
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateTaskRequest{
		Title:          "no deadline",
		RepetitionType: "WEEKLY",
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateProgress_OutOfRangeLeavesTaskUntouched(t *testing.T) {
	svc, repo, _, _ := setup(t)
	tenantID := uuid.New()
	tk := existingTask(t, tenantID)
	tk.Progress = 40

	for _, p := range []int{-1, 101, 250} {
		_, err := svc.UpdateProgress(context.Background(), tenantID, tk.ID, p)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PROGRESS", de.Code)
	}
	assert.Equal(t, 40, tk.Progress)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_UpdateProgress_HundredCompletes(t *testing.T) {
	svc, repo, _, pub := setup(t)
	tenantID := uuid.New()
	tk := existingTask(t, tenantID)
	repo.On("FindByID", mock.Anything, tenantID, tk.ID).Return(tk, nil)
	repo.On("Save", mock.Anything, tk).Return(nil)

	resp, err := svc.UpdateProgress(context.Background(), tenantID, tk.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.NotNil(t, resp.CompletedAt)
	assert.Contains(t, pub.types(), task.EventTypeTaskCompleted)
}

func TestTaskService_Update_EmitsRoutingEvents(t *testing.T) {
	svc, repo, _, pub := setup(t)
	tenantID := uuid.New()
	tk := existingTask(t, tenantID)
	repo.On("FindByID", mock.Anything, tenantID, tk.ID).Return(tk, nil)
	repo.On("Save", mock.Anything, tk).Return(nil)

	newAssignee := uuid.New()
	assignees := append([]uuid.UUID{newAssignee}, tk.Assignees...)
	deadline := tk.Deadline.Add(48 * time.Hour)
	_, err := svc.Update(context.Background(), tenantID, tk.ID, UpdateTaskRequest{
		Assignees: &assignees,
		Deadline:  &deadline,
	})
	require.NoError(t, err)

	types := pub.types()
	assert.Contains(t, types, task.EventTypeTaskUpdated)
	assert.Contains(t, types, task.EventTypeTaskAssigneesChanged)
	assert.Contains(t, types, task.EventTypeTaskDeadlineChanged)
	assert.NotContains(t, types, task.EventTypeTaskClientsChanged)
	assert.Equal(t, 1, countType(types, task.EventTypeTaskAssigned))
}

func TestTaskService_DeleteAndRestore(t *testing.T) {
	svc, repo, _, pub := setup(t)
	tenantID := uuid.New()
	tk := existingTask(t, tenantID)
	repo.On("FindByID", mock.Anything, tenantID, tk.ID).Return(tk, nil)
	repo.On("Save", mock.Anything, tk).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), tenantID, tk.ID))
	assert.True(t, tk.Deleted())
	assert.Contains(t, pub.types(), task.EventTypeTaskDeleted)

	got, err := svc.GetByID(context.Background(), tenantID, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	err = svc.Delete(context.Background(), tenantID, tk.ID)
	require.Error(t, err)

	restored, err := svc.Restore(context.Background(), tenantID, tk.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestTaskService_CompleteSubTask(t *testing.T) {
	svc, repo, _, _ := setup(t)
	tenantID := uuid.New()
	tk := existingTask(t, tenantID)
	repo.On("FindByID", mock.Anything, tenantID, tk.ID).Return(tk, nil)
	repo.On("Save", mock.Anything, tk).Return(nil)

	resp, err := svc.CompleteSubTask(context.Background(), tenantID, tk.ID, tk.SubTasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Progress)
	assert.Equal(t, "IN_PROGRESS", resp.Status)

	_, err = svc.CompleteSubTask(context.Background(), tenantID, tk.ID, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestTaskService_ChangeStatus_InvalidTransition(t *testing.T) {
	svc, repo, _, _ := setup(t)
	tenantID := uuid.New()
	tk := existingTask(t, tenantID)
	require.NoError(t, tk.ChangeStatus(task.StatusCancelled))
	repo.On("FindByID", mock.Anything, tenantID, tk.ID).Return(tk, nil)

	_, err := svc.ChangeStatus(context.Background(), tenantID, tk.ID, "COMPLETED")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_List_FiltersAndDateRange(t *testing.T) {
	svc, repo, _, _ := setup(t)
	tenantID, user := uuid.New(), uuid.New()
	repo.On("FindAll", mock.Anything, tenantID, mock.MatchedBy(func(f task.Filter) bool {
		return f.AssigneeID != nil && *f.AssigneeID == user && f.Status != nil && *f.Status == task.StatusPending
	})).Return([]*task.Task{existingTask(t, tenantID)}, int64(1), nil)

	items, total, err := svc.ListForUser(context.Background(), tenantID, user, ListTasksRequest{Status: "PENDING"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, _, err = svc.List(context.Background(), tenantID, ListTasksRequest{DeadlineFrom: &from, DeadlineTo: &to})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_DATE_RANGE", de.Code)
}

func TestTaskService_MarkOverdue(t *testing.T) {
	svc, repo, _, pub := setup(t)
	tenantID := uuid.New()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	late := existingTask(t, tenantID)
	done := existingTask(t, tenantID)
	require.NoError(t, done.UpdateProgress(100))
	done.ClearDomainEvents()
	failing := existingTask(t, tenantID)

	repo.On("FindOverdueCandidates", mock.Anything, now).Return([]*task.Task{late, done, failing}, nil)
	repo.On("Save", mock.Anything, late).Return(nil)
	repo.On("Save", mock.Anything, failing).Return(errors.New("locked"))

	res, err := svc.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, OverdueResult{Checked: 3, Marked: 1}, res)
	assert.Equal(t, task.StatusOverdue, late.Status)
	assert.Equal(t, task.StatusCompleted, done.Status)
	assert.Contains(t, pub.types(), task.EventTypeTaskStatusChanged)
}

func countType(types []string, want string) int {
	n := 0
	for _, t := range types {
		if t == want {
			n++
		}
	}
	return n
}
