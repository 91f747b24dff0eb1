package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	routeapp "github.com/loro/backend/internal/application/route"
	taskapp "github.com/loro/backend/internal/application/task"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTaskService struct{ mock.Mock }

func (m *mockTaskService) Create(ctx context.Context, tenantID, creatorID uuid.UUID, req taskapp.CreateTaskRequest) (*taskapp.CreateTaskResponse, error) {
	args := m.Called(ctx, tenantID, creatorID, req)
	res, _ := args.Get(0).(*taskapp.CreateTaskResponse)
	return res, args.Error(1)
}

func (m *mockTaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*taskapp.TaskResponse, error) {
	args := m.Called(ctx, tenantID, id)
	res, _ := args.Get(0).(*taskapp.TaskResponse)
	return res, args.Error(1)
}

func (m *mockTaskService) List(ctx context.Context, tenantID uuid.UUID, req taskapp.ListTasksRequest) ([]taskapp.TaskResponse, int64, error) {
	args := m.Called(ctx, tenantID, req)
	res, _ := args.Get(0).([]taskapp.TaskResponse)
	return res, args.Get(1).(int64), args.Error(2)
}

func (m *mockTaskService) ListForUser(ctx context.Context, tenantID, userID uuid.UUID, req taskapp.ListTasksRequest) ([]taskapp.TaskResponse, int64, error) {
	args := m.Called(ctx, tenantID, userID, req)
	res, _ := args.Get(0).([]taskapp.TaskResponse)
	return res, args.Get(1).(int64), args.Error(2)
}

func (m *mockTaskService) Update(ctx context.Context, tenantID, id uuid.UUID, req taskapp.UpdateTaskRequest) (*taskapp.TaskResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	res, _ := args.Get(0).(*taskapp.TaskResponse)
	return res, args.Error(1)
}

func (m *mockTaskService) UpdateProgress(ctx context.Context, tenantID, id uuid.UUID, progress int) (*taskapp.TaskResponse, error) {
	args := m.Called(ctx, tenantID, id, progress)
	res, _ := args.Get(0).(*taskapp.TaskResponse)
	return res, args.Error(1)
}

func (m *mockTaskService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*taskapp.TaskResponse, error) {
	args := m.Called(ctx, tenantID, id, status)
	res, _ := args.Get(0).(*taskapp.TaskResponse)
	return res, args.Error(1)
}

func (m *mockTaskService) CompleteSubTask(ctx context.Context, tenantID, id, subTaskID uuid.UUID) (*taskapp.TaskResponse, error) {
	args := m.Called(ctx, tenantID, id, subTaskID)
	res, _ := args.Get(0).(*taskapp.TaskResponse)
	return res, args.Error(1)
}

func (m *mockTaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockTaskService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*taskapp.TaskResponse, error) {
	args := m.Called(ctx, tenantID, id)
	res, _ := args.Get(0).(*taskapp.TaskResponse)
	return res, args.Error(1)
}

type mockRouteService struct{ mock.Mock }

func (m *mockRouteService) GetRoutesForTaskOnDate(ctx context.Context, tenantID, taskID uuid.UUID, date time.Time) ([]routeapp.RouteResponse, error) {
	args := m.Called(ctx, tenantID, taskID, date)
	res, _ := args.Get(0).([]routeapp.RouteResponse)
	return res, args.Error(1)
}

func (m *mockRouteService) ReplanRoutesForTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]routeapp.RouteResponse, error) {
	args := m.Called(ctx, tenantID, taskID)
	res, _ := args.Get(0).([]routeapp.RouteResponse)
	return res, args.Error(1)
}

func (m *mockRouteService) ListRoutes(ctx context.Context, tenantID uuid.UUID, req routeapp.ListRoutesRequest) ([]routeapp.RouteResponse, int64, error) {
	args := m.Called(ctx, tenantID, req)
	res, _ := args.Get(0).([]routeapp.RouteResponse)
	return res, args.Get(1).(int64), args.Error(2)
}

func (m *mockRouteService) GetRoute(ctx context.Context, tenantID, id uuid.UUID) (*routeapp.RouteResponse, error) {
	args := m.Called(ctx, tenantID, id)
	res, _ := args.Get(0).(*routeapp.RouteResponse)
	return res, args.Error(1)
}

func setupTaskRoutes(tasks *mockTaskService, routes *mockRouteService, role identity.Role) (*TaskHandler, http.Handler) {
	h := NewTaskHandler(tasks, routes)
	p := principal(role)
	r := newEngine(&p)
	r.POST("/tasks", h.Create)
	r.GET("/tasks/me", h.ListMine)
	r.PATCH("/tasks/:id/progress", h.UpdateProgress)
	r.GET("/tasks/:id/routes", h.TaskRoutes)
	return h, r
}

func TestTaskHandler_CreateDefaultsBranch(t *testing.T) {
	tasks := new(mockTaskService)
	_, r := setupTaskRoutes(tasks, new(mockRouteService), identity.RoleManager)

	tasks.On("Create", mock.Anything, testTenant, testUser, mock.MatchedBy(func(req taskapp.CreateTaskRequest) bool {
		return req.BranchID != nil && *req.BranchID == testBranch && req.Title == "Visit"
	})).Return(&taskapp.CreateTaskResponse{TaskResponse: taskapp.TaskResponse{ID: uuid.New()}}, nil)

	w := do(r, http.MethodPost, "/tasks", map[string]any{"title": "Visit"})

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tasks.AssertExpectations(t)
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	tasks := new(mockTaskService)
	_, r := setupTaskRoutes(tasks, new(mockRouteService), identity.RoleManager)

	w := do(r, http.MethodPost, "/tasks", map[string]any{"title": "", "priority": "CRITICAL"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_ListMine(t *testing.T) {
	tasks := new(mockTaskService)
	_, r := setupTaskRoutes(tasks, new(mockRouteService), identity.RoleUser)
	tasks.On("ListForUser", mock.Anything, testTenant, testUser, mock.Anything).
		Return([]taskapp.TaskResponse{{ID: uuid.New()}}, int64(41), nil)

	w := do(r, http.MethodGet, "/tasks/me?page=2&page_size=20", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestTaskHandler_UpdateProgressRequiresValue(t *testing.T) {
	tasks := new(mockTaskService)
	_, r := setupTaskRoutes(tasks, new(mockRouteService), identity.RoleUser)
	id := uuid.New()
	tasks.On("UpdateProgress", mock.Anything, testTenant, id, 0).Return(&taskapp.TaskResponse{ID: id}, nil)

	w := do(r, http.MethodPatch, "/tasks/"+id.String()+"/progress", map[string]any{"progress": 0})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPatch, "/tasks/"+id.String()+"/progress", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	tasks.AssertNumberOfCalls(t, "UpdateProgress", 1)
}

func TestTaskHandler_TaskRoutesDate(t *testing.T) {
	routes := new(mockRouteService)
	h, r := setupTaskRoutes(new(mockTaskService), routes, identity.RoleUser)
	h.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) }
	id := uuid.New()

	routes.On("GetRoutesForTaskOnDate", mock.Anything, testTenant, id, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).
		Return([]routeapp.RouteResponse{}, nil).Once()
	w := do(r, http.MethodGet, "/tasks/"+id.String()+"/routes?date=2024-03-01", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	routes.On("GetRoutesForTaskOnDate", mock.Anything, testTenant, id, mock.MatchedBy(func(d time.Time) bool {
		return d.Year() == 2024 && d.Month() == time.March && d.Day() == 15
	})).Return([]routeapp.RouteResponse{}, nil).Once()
	w = do(r, http.MethodGet, "/tasks/"+id.String()+"/routes", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/tasks/"+id.String()+"/routes?date=15/03/2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", errorCode(t, w))
	routes.AssertExpectations(t)
}
