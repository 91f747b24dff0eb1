package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	reportapp "github.com/loro/backend/internal/application/report"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockReportService struct{ mock.Mock }

func (m *mockReportService) ParseParams(req reportapp.ReportRequest) (report.Params, error) {
	args := m.Called(req)
	return args.Get(0).(report.Params), args.Error(1)
}

func (m *mockReportService) AttendanceSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.AttendanceSummary, error) {
	args := m.Called(ctx, tenantID, p)
	res, _ := args.Get(0).(*report.AttendanceSummary)
	return res, args.Error(1)
}

func (m *mockReportService) TaskSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.TaskSummary, error) {
	args := m.Called(ctx, tenantID, p)
	res, _ := args.Get(0).(*report.TaskSummary)
	return res, args.Error(1)
}

func (m *mockReportService) ClaimsSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.ClaimsSummary, error) {
	args := m.Called(ctx, tenantID, p)
	res, _ := args.Get(0).(*report.ClaimsSummary)
	return res, args.Error(1)
}

func (m *mockReportService) LeadsSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.LeadsSummary, error) {
	args := m.Called(ctx, tenantID, p)
	res, _ := args.Get(0).(*report.LeadsSummary)
	return res, args.Error(1)
}

func (m *mockReportService) Export(ctx context.Context, tenantID uuid.UUID, t report.Type, p report.Params) (*reportapp.ExportResult, error) {
	args := m.Called(ctx, tenantID, t, p)
	res, _ := args.Get(0).(*reportapp.ExportResult)
	return res, args.Error(1)
}

func reportEngine(svc *mockReportService) http.Handler {
	h := NewReportHandler(svc)
	p := principal(identity.RoleManager)
	r := newEngine(&p)
	r.GET("/reports/:type", h.Summary)
	r.GET("/reports/:type/export", h.Export)
	return r
}

func TestReportHandler_SummaryDispatchesByType(t *testing.T) {
	svc := new(mockReportService)
	svc.On("ParseParams", mock.Anything).Return(report.Params{}, nil)
	svc.On("TaskSummary", mock.Anything, testTenant, report.Params{}).
		Return(&report.TaskSummary{Total: 4, Completed: 3, CompletionRate: 75}, nil)

	w := do(reportEngine(svc), http.MethodGet, "/reports/tasks", nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w).Data.(map[string]any)
	assert.EqualValues(t, 75, data["completion_rate"])
	svc.AssertNotCalled(t, "AttendanceSummary", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportHandler_UnknownType(t *testing.T) {
	svc := new(mockReportService)

	w := do(reportEngine(svc), http.MethodGet, "/reports/inventory", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", errorCode(t, w))
	svc.AssertNotCalled(t, "ParseParams", mock.Anything)
}

func TestReportHandler_Export(t *testing.T) {
	svc := new(mockReportService)
	svc.On("ParseParams", mock.Anything).Return(report.Params{}, nil)
	svc.On("Export", mock.Anything, testTenant, report.TypeClaims, report.Params{}).Return(&reportapp.ExportResult{
		FileName:    "claims-2024-03-01.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("PK"),
	}, nil)

	w := do(reportEngine(svc), http.MethodGet, "/reports/claims/export", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="claims-2024-03-01.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, "PK", w.Body.String())
}
