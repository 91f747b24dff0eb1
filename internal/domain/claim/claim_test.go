package claim

import (
	"testing"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClaim(t *testing.T) *Claim {
	t.Helper()
	c, err := NewClaim(uuid.New(), uuid.New(), nil, decimal.RequireFromString("150.456"), "", CategoryTravel, " taxi ", "")
	require.NoError(t, err)
	return c
}

func TestNewClaim(t *testing.T) {
	c := newTestClaim(t)
	assert.Equal(t, "150.46", c.Amount.StringFixed(2))
	assert.Equal(t, valueobject.ZAR, c.Currency)
	assert.Equal(t, "taxi", c.Comments)
	assert.Equal(t, StatusPending, c.Status)

	_, err := NewClaim(uuid.New(), uuid.New(), nil, decimal.Zero, "", CategoryMeals, "", "")
	assert.Error(t, err)

	_, err = NewClaim(uuid.New(), uuid.New(), nil, decimal.NewFromInt(5), "", "FUEL", "", "")
	assert.Error(t, err)
}

func TestClaim_Workflow(t *testing.T) {
	tests := []struct {
		name    string
		path    []Status
		wantErr bool
	}{
		{"approve then pay", []Status{StatusApproved, StatusPaid}, false},
		{"decline", []Status{StatusDeclined}, false},
		{"cancel", []Status{StatusCancelled}, false},
		{"pay while pending", []Status{StatusPaid}, true},
		{"approve after decline", []Status{StatusDeclined, StatusApproved}, true},
		{"cancel after approve", []Status{StatusApproved, StatusCancelled}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClaim(t)
			var err error
			for _, s := range tt.path {
				if err = c.ChangeStatus(s, uuid.New(), ""); err != nil {
					break
				}
			}
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrInvalidState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path[len(tt.path)-1], c.Status)
		})
	}
}

func TestClaim_Delete(t *testing.T) {
	c := newTestClaim(t)
	require.NoError(t, c.Delete())
	assert.True(t, c.Deleted())
	assert.Error(t, c.ChangeStatus(StatusApproved, uuid.New(), ""))
	assert.Error(t, c.Delete())
}
