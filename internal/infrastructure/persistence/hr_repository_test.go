package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/leave"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAttendanceRepository(t *testing.T) {
	repo := NewGormAttendanceRepository(setupTestDB(t))
	user := uuid.New()
	loc := &valueobject.Coordinates{Lat: -26.2, Lng: 28.04}

	monday := attendance.Open(testTenant, user, nil, day(2024, 1, 8).Add(8*time.Hour), loc, "")
	require.NoError(t, monday.Close(day(2024, 1, 8).Add(16*time.Hour+30*time.Minute), loc, "done"))
	tuesday := attendance.Open(testTenant, user, nil, day(2024, 1, 9).Add(8*time.Hour), loc, "")
	require.NoError(t, repo.Save(bg(), monday))
	require.NoError(t, repo.Save(bg(), tuesday))

	open, err := repo.FindOpenByUser(bg(), testTenant, user)
	require.NoError(t, err)
	assert.Equal(t, tuesday.ID, open.ID)
	require.NotNil(t, open.CheckInLocation)
	assert.Nil(t, open.CheckOutLocation)

	_, err = repo.FindOpenByUser(bg(), testTenant, uuid.New())
	requireNotFound(t, err)

	shifts, err := repo.FindByUser(bg(), testTenant, user, day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	summary, err := repo.Summarize(bg(), testTenant, attendance.SummaryFilter{From: day(2024, 1, 1), To: day(2024, 1, 31)})
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].PresentDays)
	assert.Equal(t, int64(510), summary[0].TotalMinutes)
}

func TestGormClaimRepository_Summarize(t *testing.T) {
	repo := NewGormClaimRepository(setupTestDB(t))
	user, reviewer := uuid.New(), uuid.New()

	mk := func(amount string, cat claim.Category) *claim.Claim {
		c, err := claim.NewClaim(testTenant, user, nil, decimal.RequireFromString(amount), valueobject.ZAR, cat, "", "")
		require.NoError(t, err)
		return c
	}
	taxi := mk("120.50", claim.CategoryTransport)
	bus := mk("30.00", claim.CategoryTransport)
	lunch := mk("95.00", claim.CategoryMeals)
	require.NoError(t, lunch.ChangeStatus(claim.StatusApproved, reviewer, "ok"))
	dropped := mk("999.00", claim.CategoryMeals)
	require.NoError(t, dropped.Delete())

	for _, c := range []*claim.Claim{taxi, bus, lunch, dropped} {
		require.NoError(t, repo.Save(bg(), c))
	}

	rows, err := repo.Summarize(bg(), testTenant, claim.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, claim.CategoryMeals, rows[0].Category)
	assert.Equal(t, claim.StatusApproved, rows[0].Status)
	assert.Equal(t, claim.CategoryTransport, rows[1].Category)
	assert.Equal(t, int64(2), rows[1].Count)
	assert.True(t, rows[1].Total.Equal(decimal.RequireFromString("150.5")), rows[1].Total.String())

	_, total, err := repo.FindAll(bg(), testTenant, claim.Filter{Category: ptr(claim.CategoryMeals)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGormLeaveRepository_FindOverlapping(t *testing.T) {
	repo := NewGormLeaveRepository(setupTestDB(t))
	user := uuid.New()

	approved, err := leave.NewLeave(testTenant, user, leave.TypeAnnual, day(2024, 1, 8), day(2024, 1, 12), false, "holiday")
	require.NoError(t, err)
	require.NoError(t, approved.Approve(uuid.New(), ""))
	rejected, err := leave.NewLeave(testTenant, user, leave.TypeSick, day(2024, 1, 15), day(2024, 1, 16), false, "")
	require.NoError(t, err)
	require.NoError(t, rejected.Reject(uuid.New(), "no"))
	require.NoError(t, repo.Save(bg(), approved))
	require.NoError(t, repo.Save(bg(), rejected))

	hits, err := repo.FindOverlapping(bg(), testTenant, user, day(2024, 1, 12), day(2024, 1, 16))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, approved.ID, hits[0].ID)

	hits, err = repo.FindOverlapping(bg(), testTenant, user, day(2024, 1, 15), day(2024, 1, 16))
	require.NoError(t, err)
	assert.Empty(t, hits)
}
