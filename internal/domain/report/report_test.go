package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	typ, err := ParseType(" Tasks ")
	require.NoError(t, err)
	assert.Equal(t, TypeTasks, typ)

	_, err = ParseType("inventory")
	assert.Error(t, err)
}

func TestNewParams(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	p, err := NewParams(time.Time{}, time.Time{}, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, now, p.To)
	assert.Equal(t, now.AddDate(0, 0, -30), p.From)

	_, err = NewParams(now, now.AddDate(0, 0, -1), nil, nil, now)
	assert.Error(t, err)
}

func TestTaskSummary_ComputeRates(t *testing.T) {
	s := &TaskSummary{ByStatus: map[string]int64{"COMPLETED": 3, "PENDING": 4, "OVERDUE": 1}}
	s.ComputeRates("COMPLETED", "OVERDUE")
	assert.Equal(t, int64(8), s.Total)
	assert.Equal(t, int64(1), s.Overdue)
	assert.InDelta(t, 37.5, s.CompletionRate, 0.0001)

	rows := s.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "COMPLETED", rows[0][0])
	assert.Equal(t, "TOTAL", rows[3][0])
}

func TestClaimsSummary_Rows(t *testing.T) {
	s := &ClaimsSummary{
		Currency: "ZAR",
		Buckets: []ClaimsRow{
			{Category: "TRAVEL", Status: "APPROVED", Count: 2, Total: decimal.RequireFromString("250.50")},
		},
		GrandTotal: decimal.RequireFromString("250.50"),
	}
	assert.Equal(t, "Total (ZAR)", s.Headers()[3])
	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 250.5, rows[0][3])
}
