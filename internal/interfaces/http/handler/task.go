package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	routeapp "github.com/loro/backend/internal/application/route"
	taskapp "github.com/loro/backend/internal/application/task"
	"github.com/loro/backend/internal/interfaces/http/dto"
)

// TaskService is the task management use case consumed by TaskHandler
type TaskService interface {
	Create(ctx context.Context, tenantID, creatorID uuid.UUID, req taskapp.CreateTaskRequest) (*taskapp.CreateTaskResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*taskapp.TaskResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req taskapp.ListTasksRequest) ([]taskapp.TaskResponse, int64, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID, req taskapp.ListTasksRequest) ([]taskapp.TaskResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req taskapp.UpdateTaskRequest) (*taskapp.TaskResponse, error)
	UpdateProgress(ctx context.Context, tenantID, id uuid.UUID, progress int) (*taskapp.TaskResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*taskapp.TaskResponse, error)
	CompleteSubTask(ctx context.Context, tenantID, id, subTaskID uuid.UUID) (*taskapp.TaskResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Restore(ctx context.Context, tenantID, id uuid.UUID) (*taskapp.TaskResponse, error)
}

// RouteService is the route planning use case consumed by TaskHandler
type RouteService interface {
	GetRoutesForTaskOnDate(ctx context.Context, tenantID, taskID uuid.UUID, date time.Time) ([]routeapp.RouteResponse, error)
	ReplanRoutesForTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]routeapp.RouteResponse, error)
	ListRoutes(ctx context.Context, tenantID uuid.UUID, req routeapp.ListRoutesRequest) ([]routeapp.RouteResponse, int64, error)
	GetRoute(ctx context.Context, tenantID, id uuid.UUID) (*routeapp.RouteResponse, error)
}

// TaskHandler serves /tasks and /routes
type TaskHandler struct {
	BaseHandler
	tasks  TaskService
	routes RouteService
	now    func() time.Time
}

// NewTaskHandler creates a TaskHandler
func NewTaskHandler(tasks TaskService, routes RouteService) *TaskHandler {
	return &TaskHandler{tasks: tasks, routes: routes, now: time.Now}
}

// Create godoc
// @Summary      Create task
// @Description  Creates a task with its subtasks and, for repeating tasks, all repeated copies up to the repetition end date
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body taskapp.CreateTaskRequest true "Task"
// @Success      201 {object} APIResponse[taskapp.CreateTaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req taskapp.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.BranchID == nil {
		req.BranchID = p.BranchID
	}
	t, err := h.tasks.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// List godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        status query string false "Status"
// @Param        priority query string false "Priority"
// @Param        assignee_id query string false "Assignee" format(uuid)
// @Param        client_id query string false "Client" format(uuid)
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        deadline_from query string false "Deadline from (YYYY-MM-DD)"
// @Param        deadline_to query string false "Deadline to (YYYY-MM-DD)"
// @Param        search query string false "Title search"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]taskapp.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req taskapp.ListTasksRequest
	if !h.BindQuery(c, &req) {
		return
	}
	tasks, total, err := h.tasks.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, tasks, total, page, size)
}

// ListMine lists the tasks assigned to the caller
func (h *TaskHandler) ListMine(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req taskapp.ListTasksRequest
	if !h.BindQuery(c, &req) {
		return
	}
	tasks, total, err := h.tasks.ListForUser(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, tasks, total, page, size)
}

// GetByID returns one task
func (h *TaskHandler) GetByID(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	t, err := h.tasks.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Update applies a partial update
func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req taskapp.UpdateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.tasks.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// UpdateProgress godoc
// @Summary      Update task progress
// @Description  Progress must be within 0..100; 100 completes the task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body taskapp.UpdateProgressRequest true "Progress"
// @Success      200 {object} APIResponse[taskapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/progress [patch]
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req taskapp.UpdateProgressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.tasks.UpdateProgress(c.Request.Context(), p.TenantID, id, *req.Progress)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// ChangeStatus moves a task to another status
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req taskapp.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.tasks.ChangeStatus(c.Request.Context(), p.TenantID, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// CompleteSubTask ticks off one subtask
func (h *TaskHandler) CompleteSubTask(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	subID, ok := h.UUIDParam(c, "subtaskId")
	if !ok {
		return
	}
	t, err := h.tasks.CompleteSubTask(c.Request.Context(), p.TenantID, id, subID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete soft-deletes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore undoes a soft delete
func (h *TaskHandler) Restore(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	t, err := h.tasks.Restore(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// TaskRoutes godoc
// @Summary      Routes of a task for a day
// @Description  Served from cache, then storage, then planned on demand when the day is the task's planned date
// @Tags         routes
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[[]routeapp.RouteResponse]
// @Failure      502 {object} ErrorResponse "Maps provider unavailable"
// @Security     BearerAuth
// @Router       /tasks/{id}/routes [get]
func (h *TaskHandler) TaskRoutes(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	day := h.now()
	if s := c.Query("date"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = d
	}
	routes, err := h.routes.GetRoutesForTaskOnDate(c.Request.Context(), p.TenantID, id, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, routes)
}

// ReplanRoutes recomputes the routes of a task
func (h *TaskHandler) ReplanRoutes(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	routes, err := h.routes.ReplanRoutesForTask(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, routes)
}

// ListRoutes lists stored routes
func (h *TaskHandler) ListRoutes(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req routeapp.ListRoutesRequest
	if !h.BindQuery(c, &req) {
		return
	}
	routes, total, err := h.routes.ListRoutes(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, routes, total, page, size)
}

// GetRoute returns one route
func (h *TaskHandler) GetRoute(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.routes.GetRoute(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}
