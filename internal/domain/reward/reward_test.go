package reward

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{10000, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.xp), "xp=%d", tt.xp)
	}
}

func TestRankFor(t *testing.T) {
	assert.Equal(t, RankRookie, RankFor(1))
	assert.Equal(t, RankBronze, RankFor(3))
	assert.Equal(t, RankSilver, RankFor(7))
	assert.Equal(t, RankGold, RankFor(8))
	assert.Equal(t, RankPlatinum, RankFor(15))
	assert.Equal(t, RankDiamond, RankFor(40))
}

func TestCalculate(t *testing.T) {
	b, ok := Calculate(ActionTaskCompleted, Bonus{HighPriority: true, OnTime: true})
	require.True(t, ok)
	assert.Equal(t, Breakdown{Base: 50, PriorityBonus: 25, OnTimeBonus: 10, Category: CategoryWork}, b)
	assert.Equal(t, 85, b.Total())

	b, ok = Calculate(ActionCheckIn, Bonus{HighPriority: true})
	require.True(t, ok)
	assert.Equal(t, 10, b.Total())

	_, ok = Calculate("DANCE", Bonus{})
	assert.False(t, ok)
}

func TestUserRewards_Award(t *testing.T) {
	tenant, user := uuid.New(), uuid.New()
	r := NewUserRewards(tenant, user)

	tx, err := NewXPTransaction(tenant, user, ActionLeadConverted, Bonus{}, nil, time.Now())
	require.NoError(t, err)
	r.Award(tx)
	assert.Equal(t, 100, r.TotalXP)
	assert.Equal(t, 2, r.CurrentLevel)
	assert.Equal(t, 100, r.XPByCategory[CategorySales])
	require.Len(t, r.GetDomainEvents(), 1)

	tx, err = NewXPTransaction(tenant, user, ActionClaimSubmitted, Bonus{}, nil, time.Now())
	require.NoError(t, err)
	r.Award(tx)
	assert.Equal(t, 105, r.TotalXP)
	assert.Len(t, r.GetDomainEvents(), 1, "no level change, no event")

	_, err = NewXPTransaction(tenant, user, "UNKNOWN", Bonus{}, nil, time.Now())
	assert.Error(t, err)
}

func TestCategoryXP_ValueScan(t *testing.T) {
	in := CategoryXP{CategoryWork: 50}
	v, err := in.Value()
	require.NoError(t, err)

	var out CategoryXP
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}
