package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	rewardapp "github.com/loro/backend/internal/application/reward"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/reward"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRewardsService struct{ mock.Mock }

func (m *mockRewardsService) AwardXP(ctx context.Context, tenantID, userID uuid.UUID, action reward.Action, bonus reward.Bonus, referenceID *uuid.UUID) (*rewardapp.AwardResponse, error) {
	args := m.Called(ctx, tenantID, userID, action, bonus, referenceID)
	res, _ := args.Get(0).(*rewardapp.AwardResponse)
	return res, args.Error(1)
}

func (m *mockRewardsService) GetForUser(ctx context.Context, tenantID, userID uuid.UUID) (*rewardapp.RewardsResponse, error) {
	args := m.Called(ctx, tenantID, userID)
	res, _ := args.Get(0).(*rewardapp.RewardsResponse)
	return res, args.Error(1)
}

func (m *mockRewardsService) Leaderboard(ctx context.Context, tenantID uuid.UUID, limit int) ([]rewardapp.LeaderboardEntry, error) {
	args := m.Called(ctx, tenantID, limit)
	res, _ := args.Get(0).([]rewardapp.LeaderboardEntry)
	return res, args.Error(1)
}

func TestRewardHandler_LeaderboardLimit(t *testing.T) {
	svc := new(mockRewardsService)
	h := NewRewardHandler(svc)
	p := principal(identity.RoleUser)
	r := newEngine(&p)
	r.GET("/rewards/leaderboard", h.Leaderboard)

	svc.On("Leaderboard", mock.Anything, testTenant, 10).Return([]rewardapp.LeaderboardEntry{}, nil).Once()
	svc.On("Leaderboard", mock.Anything, testTenant, 100).Return([]rewardapp.LeaderboardEntry{}, nil).Once()

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/rewards/leaderboard", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/rewards/leaderboard?limit=5000", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/rewards/leaderboard?limit=abc", nil).Code)
	svc.AssertExpectations(t)
}

func TestRewardHandler_Award(t *testing.T) {
	svc := new(mockRewardsService)
	h := NewRewardHandler(svc)
	p := principal(identity.RoleManager)
	r := newEngine(&p)
	r.POST("/rewards/award", h.Award)
	target := uuid.New()

	svc.On("AwardXP", mock.Anything, testTenant, target, reward.ActionClientVisit, reward.Bonus{}, (*uuid.UUID)(nil)).
		Return(&rewardapp.AwardResponse{Awarded: true}, nil)

	w := do(r, http.MethodPost, "/rewards/award", map[string]any{"user_id": target, "action": "CLIENT_VISIT"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/rewards/award", map[string]any{"user_id": target, "action": "SLEEPING"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "AwardXP", 1)
}

func TestSettingsHandler_Public(t *testing.T) {
	cfg := &config.Config{
		Currency:   config.CurrencyConfig{Locale: "en-ZA", Code: "ZAR", Symbol: "R"},
		Pagination: config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Map:        config.MapConfig{DefaultCenterLat: -26.2041, DefaultCenterLng: 28.0473, DefaultZoom: 10},
	}
	h := NewSettingsHandler(cfg)
	p := principal(identity.RoleUser)
	r := newEngine(&p)
	r.GET("/settings/public", h.Public)

	w := do(r, http.MethodGet, "/settings/public", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "ZAR", data["currency"].(map[string]any)["code"])
	m := data["map"].(map[string]any)
	assert.InDelta(t, -26.2041, m["default_center"].(map[string]any)["lat"], 1e-9)
	assert.NotNil(t, m["regions"])
}

func TestHealthHandler(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		h.now = func() time.Time { return fixed }
		r := newEngine(nil)
		r.GET("/health", h.Check)

		w := do(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","time":"2024-01-01T00:00:00Z","dependencies":{"database":"ok"}}`, w.Body.String())
	})

	t.Run("one dependency down", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"cache":    func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		r := newEngine(nil)
		r.GET("/health", h.Check)

		w := do(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"cache":"error"`)
		assert.NotContains(t, w.Body.String(), "refused")
	})
}
