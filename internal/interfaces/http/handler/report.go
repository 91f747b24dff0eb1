package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/loro/backend/internal/application/report"
	"github.com/loro/backend/internal/domain/report"
)

// ReportService is the reporting use case
type ReportService interface {
	ParseParams(req reportapp.ReportRequest) (report.Params, error)
	AttendanceSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.AttendanceSummary, error)
	TaskSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.TaskSummary, error)
	ClaimsSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.ClaimsSummary, error)
	LeadsSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.LeadsSummary, error)
	Export(ctx context.Context, tenantID uuid.UUID, t report.Type, p report.Params) (*reportapp.ExportResult, error)
}

// ReportHandler serves /reports
type ReportHandler struct {
	BaseHandler
	svc ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Summary godoc
// @Summary      Report summary
// @Tags         reports
// @Produce      json
// @Param        type      path  string true  "Report type" Enums(attendance, tasks, claims, leads)
// @Param        from      query string false "Start date (YYYY-MM-DD)"
// @Param        to        query string false "End date (YYYY-MM-DD)"
// @Param        branch_id query string false "Branch filter" format(uuid)
// @Param        user_id   query string false "User filter" format(uuid)
// @Success      200 {object} APIResponse[any]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{type} [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	typ, params, ok := h.parse(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var (
		data any
		err  error
	)
	switch typ {
	case report.TypeAttendance:
		data, err = h.svc.AttendanceSummary(ctx, p.TenantID, params)
	case report.TypeTasks:
		data, err = h.svc.TaskSummary(ctx, p.TenantID, params)
	case report.TypeClaims:
		data, err = h.svc.ClaimsSummary(ctx, p.TenantID, params)
	case report.TypeLeads:
		data, err = h.svc.LeadsSummary(ctx, p.TenantID, params)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}

// Export godoc
// @Summary      Export report as xlsx
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        type path string true "Report type" Enums(attendance, tasks, claims, leads)
// @Success      200 {file} binary
// @Security     BearerAuth
// @Router       /reports/{type}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	typ, params, ok := h.parse(c)
	if !ok {
		return
	}
	res, err := h.svc.Export(c.Request.Context(), p.TenantID, typ, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.FileName))
	c.Data(http.StatusOK, res.ContentType, res.Content)
}

func (h *ReportHandler) parse(c *gin.Context) (report.Type, report.Params, bool) {
	typ, err := report.ParseType(c.Param("type"))
	if err != nil {
		h.HandleError(c, err)
		return "", report.Params{}, false
	}
	var req reportapp.ReportRequest
	if !h.BindQuery(c, &req) {
		return "", report.Params{}, false
	}
	params, err := h.svc.ParseParams(req)
	if err != nil {
		h.HandleError(c, err)
		return "", report.Params{}, false
	}
	return typ, params, true
}
