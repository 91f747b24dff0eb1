package shared

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		f := Filter{}.Normalize(25)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 25, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
		assert.Equal(t, "desc", f.OrderDir)
		assert.NotNil(t, f.Filters)
	})

	t.Run("clamps page size", func(t *testing.T) {
		f := Filter{Page: 3, PageSize: 1000, OrderDir: "asc"}.Normalize(20)
		assert.Equal(t, MaxPageSize, f.PageSize)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, 200, f.Offset())
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 45, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated([]int{}, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestNewDateRange(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := NewDateRange(from, from.AddDate(0, 0, -1))
	require.Error(t, err)
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_DATE_RANGE", de.Code)

	r, err := NewDateRange(from, from)
	require.NoError(t, err)
	assert.Equal(t, from, r.To)
}

func TestSoftDelete(t *testing.T) {
	var s SoftDelete
	assert.False(t, s.Deleted())

	s.MarkDeleted()
	assert.True(t, s.Deleted())
	assert.NotNil(t, s.DeletedAt)

	s.Restore()
	assert.False(t, s.Deleted())
	assert.Nil(t, s.DeletedAt)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, 1, 8, 17, 45, 3, 9, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}
