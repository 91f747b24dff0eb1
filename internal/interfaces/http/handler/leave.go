package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leaveapp "github.com/loro/backend/internal/application/leave"
	"github.com/loro/backend/internal/domain/identity"
)

// LeaveService is the leave request use case
type LeaveService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req leaveapp.CreateLeaveRequest) (*leaveapp.LeaveResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*leaveapp.LeaveResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req leaveapp.ListLeaveRequest) ([]leaveapp.LeaveResponse, int64, error)
	Approve(ctx context.Context, tenantID, approverID, id uuid.UUID, req leaveapp.DecisionRequest) (*leaveapp.LeaveResponse, error)
	Reject(ctx context.Context, tenantID, approverID, id uuid.UUID, req leaveapp.DecisionRequest) (*leaveapp.LeaveResponse, error)
	Cancel(ctx context.Context, tenantID, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID) (*leaveapp.LeaveResponse, error)
}

// LeaveHandler serves /leave
type LeaveHandler struct {
	BaseHandler
	svc LeaveService
}

// NewLeaveHandler creates a LeaveHandler
func NewLeaveHandler(svc LeaveService) *LeaveHandler {
	return &LeaveHandler{svc: svc}
}

// Create godoc
// @Summary      Request leave
// @Description  Rejected with ERR_CONFLICT when it overlaps a pending or approved leave of the caller
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        request body leaveapp.CreateLeaveRequest true "Leave"
// @Success      201 {object} APIResponse[leaveapp.LeaveResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leave [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req leaveapp.CreateLeaveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	l, err := h.svc.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, l)
}

// List lists leave requests. Field users only see their own.
func (h *LeaveHandler) List(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req leaveapp.ListLeaveRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.UserID = scopeToSelf(p.Role, p.UserID, req.UserID)
	rows, total, err := h.svc.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, rows, total, page, size)
}

// GetByID returns one leave request
func (h *LeaveHandler) GetByID(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	l, err := h.svc.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Approve approves a pending request
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

// Reject rejects a pending request
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

func (h *LeaveHandler) decide(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, leaveapp.DecisionRequest) (*leaveapp.LeaveResponse, error)) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req leaveapp.DecisionRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	l, err := fn(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Cancel withdraws a pending request or an approved one that has not started
func (h *LeaveHandler) Cancel(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	l, err := h.svc.Cancel(c.Request.Context(), p.TenantID, p.UserID, p.Role, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}
