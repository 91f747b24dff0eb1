package report

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// Type names a report generator
type Type string

const (
	TypeAttendance Type = "attendance"
	TypeTasks      Type = "tasks"
	TypeClaims     Type = "claims"
	TypeLeads      Type = "leads"
)

// ParseType validates a report type from a path parameter
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeAttendance, TypeTasks, TypeClaims, TypeLeads:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_REPORT_TYPE", "Unknown report type "+s)
}

// Params are the common report filters
type Params struct {
	From     time.Time
	To       time.Time
	BranchID *uuid.UUID
	UserID   *uuid.UUID
}

// NewParams validates the date window. A zero To means now; a zero From means 30 days before To.
func NewParams(from, to time.Time, branchID, userID *uuid.UUID, now time.Time) (Params, error) {
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if _, err := shared.NewDateRange(from, to); err != nil {
		return Params{}, err
	}
	return Params{From: from, To: to, BranchID: branchID, UserID: userID}, nil
}

// Tabular is implemented by every report so it can be exported as a sheet
type Tabular interface {
	Title() string
	Headers() []string
	Rows() [][]any
}

func sortedKeys(m map[string]int64) []string {
	return slices.Sorted(maps.Keys(m))
}
