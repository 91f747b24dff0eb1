package leave

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		halfDay bool
		want    float64
	}{
		{"single weekday", date(2024, 1, 3), date(2024, 1, 3), false, 1},
		{"full week", date(2024, 1, 1), date(2024, 1, 7), false, 5},
		{"spans weekend", date(2024, 1, 5), date(2024, 1, 8), false, 2},
		{"weekend only", date(2024, 1, 6), date(2024, 1, 7), false, 0},
		{"half day", date(2024, 1, 3), date(2024, 1, 3), true, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkingDays(tt.start, tt.end, tt.halfDay))
		})
	}
}

func TestNewLeave(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		l, err := NewLeave(uuid.New(), uuid.New(), TypeAnnual, date(2024, 1, 1).Add(10*time.Hour), date(2024, 1, 5), false, " holiday ")
		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 1), l.StartDate)
		assert.Equal(t, 5.0, l.Days)
		assert.Equal(t, "holiday", l.Reason)
		assert.Equal(t, StatusPending, l.Status)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewLeave(uuid.New(), uuid.New(), TypeSick, date(2024, 1, 5), date(2024, 1, 1), false, "")
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_DATE_RANGE", de.Code)
	})

	t.Run("half day over several days", func(t *testing.T) {
		_, err := NewLeave(uuid.New(), uuid.New(), TypeSick, date(2024, 1, 1), date(2024, 1, 2), true, "")
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewLeave(uuid.New(), uuid.New(), "SABBATICAL", date(2024, 1, 1), date(2024, 1, 2), false, "")
		assert.Error(t, err)
	})
}

func TestLeave_Overlaps(t *testing.T) {
	l, err := NewLeave(uuid.New(), uuid.New(), TypeAnnual, date(2024, 1, 8), date(2024, 1, 12), false, "")
	require.NoError(t, err)

	assert.True(t, l.Overlaps(date(2024, 1, 12), date(2024, 1, 15)))
	assert.True(t, l.Overlaps(date(2024, 1, 1), date(2024, 1, 8)))
	assert.True(t, l.Overlaps(date(2024, 1, 9), date(2024, 1, 10)))
	assert.False(t, l.Overlaps(date(2024, 1, 13), date(2024, 1, 14)))
}

func TestLeave_Workflow(t *testing.T) {
	approver := uuid.New()

	t.Run("approve then cancel before start", func(t *testing.T) {
		l, err := NewLeave(uuid.New(), uuid.New(), TypeAnnual, date(2024, 2, 5), date(2024, 2, 6), false, "")
		require.NoError(t, err)
		require.NoError(t, l.Approve(approver, "ok"))
		assert.Equal(t, approver, *l.ApproverID)
		assert.ErrorIs(t, l.Reject(approver, ""), shared.ErrInvalidState)
		require.NoError(t, l.Cancel(date(2024, 2, 1)))
		assert.Equal(t, StatusCancelled, l.Status)
	})

	t.Run("approved leave cannot be cancelled once started", func(t *testing.T) {
		l, err := NewLeave(uuid.New(), uuid.New(), TypeAnnual, date(2024, 2, 5), date(2024, 2, 6), false, "")
		require.NoError(t, err)
		require.NoError(t, l.Approve(approver, ""))
		assert.ErrorIs(t, l.Cancel(date(2024, 2, 5).Add(9*time.Hour)), shared.ErrInvalidState)
	})

	t.Run("rejected leave is final", func(t *testing.T) {
		l, err := NewLeave(uuid.New(), uuid.New(), TypeSick, date(2024, 2, 5), date(2024, 2, 5), false, "")
		require.NoError(t, err)
		require.NoError(t, l.Reject(approver, "no cover"))
		assert.ErrorIs(t, l.Cancel(date(2024, 1, 1)), shared.ErrInvalidState)
		assert.ErrorIs(t, l.Approve(approver, ""), shared.ErrInvalidState)
	})
}
