package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	rewardapp "github.com/loro/backend/internal/application/reward"
	"github.com/loro/backend/internal/domain/reward"
	"github.com/loro/backend/internal/interfaces/http/dto"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// RewardsService is the gamification use case
type RewardsService interface {
	AwardXP(ctx context.Context, tenantID, userID uuid.UUID, action reward.Action, bonus reward.Bonus, referenceID *uuid.UUID) (*rewardapp.AwardResponse, error)
	GetForUser(ctx context.Context, tenantID, userID uuid.UUID) (*rewardapp.RewardsResponse, error)
	Leaderboard(ctx context.Context, tenantID uuid.UUID, limit int) ([]rewardapp.LeaderboardEntry, error)
}

// RewardHandler serves /rewards
type RewardHandler struct {
	BaseHandler
	svc RewardsService
}

// NewRewardHandler creates a RewardHandler
func NewRewardHandler(svc RewardsService) *RewardHandler {
	return &RewardHandler{svc: svc}
}

// Mine returns the caller's XP balance
func (h *RewardHandler) Mine(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	r, err := h.svc.GetForUser(c.Request.Context(), p.TenantID, p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Leaderboard godoc
// @Summary      XP leaderboard
// @Tags         rewards
// @Produce      json
// @Param        limit query int false "Rows to return (1-100)" default(10)
// @Success      200 {object} APIResponse[[]rewardapp.LeaderboardEntry]
// @Security     BearerAuth
// @Router       /rewards/leaderboard [get]
func (h *RewardHandler) Leaderboard(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	limit := defaultLeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboardSize)
	}
	rows, err := h.svc.Leaderboard(c.Request.Context(), p.TenantID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Award grants XP to a user manually
func (h *RewardHandler) Award(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req rewardapp.AwardRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.svc.AwardXP(c.Request.Context(), p.TenantID, req.UserID, reward.Action(req.Action), reward.Bonus{}, req.ReferenceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
