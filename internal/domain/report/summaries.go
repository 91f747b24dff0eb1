package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceRow is one user's attendance in the window
type AttendanceRow struct {
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	PresentDays int64     `json:"present_days"`
	TotalHours  float64   `json:"total_hours"`
}

// AttendanceSummary is the attendance report
type AttendanceSummary struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Users       []AttendanceRow `json:"users"`
	TotalHours  float64         `json:"total_hours"`
}

func (s *AttendanceSummary) Title() string { return "Attendance" }

func (s *AttendanceSummary) Headers() []string {
	return []string{"User ID", "User", "Present Days", "Total Hours"}
}

func (s *AttendanceSummary) Rows() [][]any {
	rows := make([][]any, 0, len(s.Users))
	for _, u := range s.Users {
		rows = append(rows, []any{u.UserID.String(), u.UserName, u.PresentDays, u.TotalHours})
	}
	return rows
}

// TaskSummary is the task report
type TaskSummary struct {
	PeriodStart    time.Time        `json:"period_start"`
	PeriodEnd      time.Time        `json:"period_end"`
	ByStatus       map[string]int64 `json:"by_status"`
	Total          int64            `json:"total"`
	Completed      int64            `json:"completed"`
	Overdue        int64            `json:"overdue"`
	CompletionRate float64          `json:"completion_rate"` // percentage
}

// ComputeRates fills Total, Completed and CompletionRate from ByStatus
func (s *TaskSummary) ComputeRates(completed, overdue string) {
	s.Total = 0
	for _, n := range s.ByStatus {
		s.Total += n
	}
	s.Completed = s.ByStatus[completed]
	s.Overdue = s.ByStatus[overdue]
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) * 100 / float64(s.Total)
	}
}

func (s *TaskSummary) Title() string { return "Tasks" }

func (s *TaskSummary) Headers() []string { return []string{"Status", "Count"} }

func (s *TaskSummary) Rows() [][]any {
	rows := make([][]any, 0, len(s.ByStatus)+2)
	for _, status := range sortedKeys(s.ByStatus) {
		rows = append(rows, []any{status, s.ByStatus[status]})
	}
	rows = append(rows, []any{"TOTAL", s.Total}, []any{"COMPLETION RATE %", s.CompletionRate})
	return rows
}

// ClaimsRow is a category/status bucket
type ClaimsRow struct {
	Category string          `json:"category"`
	Status   string          `json:"status"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// ClaimsSummary is the claims report
type ClaimsSummary struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Currency    string          `json:"currency"`
	Buckets     []ClaimsRow     `json:"buckets"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

func (s *ClaimsSummary) Title() string { return "Claims" }

func (s *ClaimsSummary) Headers() []string {
	return []string{"Category", "Status", "Count", "Total (" + s.Currency + ")"}
}

func (s *ClaimsSummary) Rows() [][]any {
	rows := make([][]any, 0, len(s.Buckets)+1)
	for _, r := range s.Buckets {
		rows = append(rows, []any{r.Category, r.Status, r.Count, r.Total.InexactFloat64()})
	}
	rows = append(rows, []any{"TOTAL", "", nil, s.GrandTotal.InexactFloat64()})
	return rows
}

// LeadsSummary is the leads report
type LeadsSummary struct {
	PeriodStart  time.Time        `json:"period_start"`
	PeriodEnd    time.Time        `json:"period_end"`
	ByStatus     map[string]int64 `json:"by_status"`
	AverageScore float64          `json:"average_score"`
	TotalBudget  decimal.Decimal  `json:"total_budget"`
}

func (s *LeadsSummary) Title() string { return "Leads" }

func (s *LeadsSummary) Headers() []string { return []string{"Status", "Count"} }

func (s *LeadsSummary) Rows() [][]any {
	rows := make([][]any, 0, len(s.ByStatus)+2)
	for _, status := range sortedKeys(s.ByStatus) {
		rows = append(rows, []any{status, s.ByStatus[status]})
	}
	rows = append(rows,
		[]any{"AVERAGE SCORE", s.AverageScore},
		[]any{"TOTAL BUDGET", s.TotalBudget.InexactFloat64()},
	)
	return rows
}
