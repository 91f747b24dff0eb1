package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	attendanceapp "github.com/loro/backend/internal/application/attendance"
	"github.com/loro/backend/internal/domain/identity"
)

// AttendanceService is the shift clock-in use case
type AttendanceService interface {
	CheckIn(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req attendanceapp.CheckInRequest) (*attendanceapp.AttendanceResponse, error)
	CheckOut(ctx context.Context, tenantID, userID uuid.UUID, req attendanceapp.CheckInRequest) (*attendanceapp.AttendanceResponse, error)
	GetStatus(ctx context.Context, tenantID, userID uuid.UUID) (*attendanceapp.StatusResponse, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, req attendanceapp.DateRangeRequest) ([]attendanceapp.AttendanceResponse, error)
	ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, req attendanceapp.DateRangeRequest) ([]attendanceapp.AttendanceResponse, error)
}

// VisitService is the client visit use case
type VisitService interface {
	Start(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req attendanceapp.StartVisitRequest) (*attendanceapp.VisitResponse, error)
	End(ctx context.Context, tenantID, userID, id uuid.UUID, req attendanceapp.EndVisitRequest) (*attendanceapp.VisitResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req attendanceapp.ListVisitsRequest) ([]attendanceapp.VisitResponse, int64, error)
}

// AttendanceHandler serves /attendance and /check-ins
type AttendanceHandler struct {
	BaseHandler
	attendance AttendanceService
	visits     VisitService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendance AttendanceService, visits VisitService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, visits: visits}
}

// CheckIn godoc
// @Summary      Start a shift
// @Description  Fails with ERR_INVALID_STATE when the caller already has an open shift
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body attendanceapp.CheckInRequest true "Location"
// @Success      201 {object} APIResponse[attendanceapp.AttendanceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req attendanceapp.CheckInRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.attendance.CheckIn(c.Request.Context(), p.TenantID, p.UserID, p.BranchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// CheckOut godoc
// @Summary      End the open shift
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body attendanceapp.CheckInRequest true "Location"
// @Success      200 {object} APIResponse[attendanceapp.AttendanceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req attendanceapp.CheckInRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.attendance.CheckOut(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Status reports whether the caller is checked in
func (h *AttendanceHandler) Status(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	s, err := h.attendance.GetStatus(c.Request.Context(), p.TenantID, p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

// Mine lists the caller's shifts in a date range
func (h *AttendanceHandler) Mine(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req attendanceapp.DateRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	rows, err := h.attendance.ListByUser(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ByBranch lists the shifts of a branch
func (h *AttendanceHandler) ByBranch(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	branchID, ok := h.UUIDParam(c, "branchId")
	if !ok {
		return
	}
	var req attendanceapp.DateRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	rows, err := h.attendance.ListByBranch(c.Request.Context(), p.TenantID, branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// StartVisit checks the caller in at a client
func (h *AttendanceHandler) StartVisit(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req attendanceapp.StartVisitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.visits.Start(c.Request.Context(), p.TenantID, p.UserID, p.BranchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, v)
}

// EndVisit checks the caller out of a client visit
func (h *AttendanceHandler) EndVisit(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req attendanceapp.EndVisitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.visits.End(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// ListVisits lists client visits. Field users only see their own.
func (h *AttendanceHandler) ListVisits(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req attendanceapp.ListVisitsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.UserID = scopeToSelf(p.Role, p.UserID, req.UserID)
	visits, total, err := h.visits.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, visits, total, page, size)
}

// scopeToSelf restricts list queries of USER callers to their own records
func scopeToSelf(role identity.Role, self uuid.UUID, requested *uuid.UUID) *uuid.UUID {
	if role.AtLeast(identity.RoleSupervisor) {
		return requested
	}
	return &self
}
