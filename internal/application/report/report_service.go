package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/report"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/domain/task"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Exporter renders a tabular report into a downloadable file
type Exporter interface {
	Export(t report.Tabular) ([]byte, error)
	ContentType() string
	Extension() string
}

// ReportService aggregates repository data into reports
type ReportService struct {
	attendance attendance.AttendanceRepository
	tasks      task.TaskRepository
	claims     claim.ClaimRepository
	leads      crm.LeadRepository
	users      identity.UserRepository
	exporter   Exporter
	currency   valueobject.Currency
	logger     *zap.Logger
	now        func() time.Time
}

// Repositories groups the data sources of ReportService
type Repositories struct {
	Attendance attendance.AttendanceRepository
	Tasks      task.TaskRepository
	Claims     claim.ClaimRepository
	Leads      crm.LeadRepository
	Users      identity.UserRepository
}

// NewReportService creates a new ReportService
func NewReportService(repos Repositories, exporter Exporter, currency valueobject.Currency, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &ReportService{
		attendance: repos.Attendance,
		tasks:      repos.Tasks,
		claims:     repos.Claims,
		leads:      repos.Leads,
		users:      repos.Users,
		exporter:   exporter,
		currency:   currency,
		logger:     log.Named("report_service"),
		now:        time.Now,
	}
}

// ParseParams validates the query of GET /reports/:type
func (s *ReportService) ParseParams(req ReportRequest) (report.Params, error) {
	var from, to time.Time
	if req.From != nil {
		from = *req.From
	}
	if req.To != nil {
		to = req.To.Add(24*time.Hour - time.Nanosecond)
	}
	return report.NewParams(from, to, req.BranchID, req.UserID, s.now())
}

// Generate runs the generator for t
func (s *ReportService) Generate(ctx context.Context, tenantID uuid.UUID, t report.Type, p report.Params) (report.Tabular, error) {
	switch t {
	case report.TypeAttendance:
		return s.AttendanceSummary(ctx, tenantID, p)
	case report.TypeTasks:
		return s.TaskSummary(ctx, tenantID, p)
	case report.TypeClaims:
		return s.ClaimsSummary(ctx, tenantID, p)
	case report.TypeLeads:
		return s.LeadsSummary(ctx, tenantID, p)
	}
	return nil, fmt.Errorf("unknown report type %q", t)
}

// AttendanceSummary reports present days and hours worked per user
func (s *ReportService) AttendanceSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.AttendanceSummary, error) {
	rows, err := s.attendance.Summarize(ctx, tenantID, attendance.SummaryFilter{
		From: p.From, To: p.To, BranchID: p.BranchID, UserID: p.UserID,
	})
	if err != nil {
		return nil, err
	}
	names, err := s.userNames(ctx, tenantID, rows)
	if err != nil {
		return nil, err
	}

	out := &report.AttendanceSummary{PeriodStart: p.From, PeriodEnd: p.To, Users: make([]report.AttendanceRow, 0, len(rows))}
	var totalMinutes int64
	for _, r := range rows {
		out.Users = append(out.Users, report.AttendanceRow{
			UserID:      r.UserID,
			UserName:    names[r.UserID],
			PresentDays: r.PresentDays,
			TotalHours:  minutesToHours(r.TotalMinutes),
		})
		totalMinutes += r.TotalMinutes
	}
	out.TotalHours = minutesToHours(totalMinutes)
	return out, nil
}

// TaskSummary reports task counts by status for tasks due in the window
func (s *ReportService) TaskSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.TaskSummary, error) {
	from, to := p.From, p.To
	counts, err := s.tasks.CountByStatus(ctx, tenantID, task.Filter{
		BranchID:     p.BranchID,
		AssigneeID:   p.UserID,
		DeadlineFrom: &from,
		DeadlineTo:   &to,
	})
	if err != nil {
		return nil, err
	}
	out := &report.TaskSummary{PeriodStart: p.From, PeriodEnd: p.To, ByStatus: make(map[string]int64, len(counts))}
	for st, n := range counts {
		out.ByStatus[string(st)] = n
	}
	out.ComputeRates(string(task.StatusCompleted), string(task.StatusOverdue))
	return out, nil
}

// ClaimsSummary sums claims by category and status
func (s *ReportService) ClaimsSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.ClaimsSummary, error) {
	from, to := p.From, p.To
	rows, err := s.claims.Summarize(ctx, tenantID, claim.Filter{
		UserID: p.UserID, BranchID: p.BranchID, From: &from, To: &to,
	})
	if err != nil {
		return nil, err
	}
	out := &report.ClaimsSummary{
		PeriodStart: p.From,
		PeriodEnd:   p.To,
		Currency:    string(s.currency),
		Buckets:     make([]report.ClaimsRow, 0, len(rows)),
		GrandTotal:  decimal.Zero,
	}
	for _, r := range rows {
		out.Buckets = append(out.Buckets, report.ClaimsRow{
			Category: string(r.Category),
			Status:   string(r.Status),
			Count:    r.Count,
			Total:    r.Total,
		})
		out.GrandTotal = out.GrandTotal.Add(r.Total)
	}
	return out, nil
}

// LeadsSummary counts leads created in the window by status
func (s *ReportService) LeadsSummary(ctx context.Context, tenantID uuid.UUID, p report.Params) (*report.LeadsSummary, error) {
	from, to := p.From, p.To
	sum, err := s.leads.Summarize(ctx, tenantID, crm.LeadFilter{
		OwnerID: p.UserID, BranchID: p.BranchID, CreatedFrom: &from, CreatedTo: &to,
	})
	if err != nil {
		return nil, err
	}
	out := &report.LeadsSummary{
		PeriodStart:  p.From,
		PeriodEnd:    p.To,
		ByStatus:     make(map[string]int64, len(sum.ByStatus)),
		AverageScore: sum.AverageScore,
		TotalBudget:  sum.TotalBudget,
	}
	for st, n := range sum.ByStatus {
		out.ByStatus[string(st)] = n
	}
	return out, nil
}

// Export generates a report and renders it with the configured exporter
func (s *ReportService) Export(ctx context.Context, tenantID uuid.UUID, t report.Type, p report.Params) (*ExportResult, error) {
	data, err := s.Generate(ctx, tenantID, t, p)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Export(data)
	if err != nil {
		return nil, fmt.Errorf("export %s report: %w", t, err)
	}
	logger.Enrich(ctx, s.logger).Info("Report exported",
		zap.String("type", string(t)),
		zap.Int("bytes", len(content)),
	)
	return &ExportResult{
		FileName:    fmt.Sprintf("%s-report-%s-%s.%s", t, p.From.Format("20060102"), p.To.Format("20060102"), s.exporter.Extension()),
		ContentType: s.exporter.ContentType(),
		Content:     content,
	}, nil
}

func (s *ReportService) userNames(ctx context.Context, tenantID uuid.UUID, rows []attendance.UserSummary) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(rows))
	if len(rows) == 0 || s.users == nil {
		return names, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := s.users.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.FullName()
	}
	return names, nil
}

func minutesToHours(m int64) float64 {
	return decimal.NewFromInt(m).Div(decimal.NewFromInt(60)).Round(2).InexactFloat64()
}
