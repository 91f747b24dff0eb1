package reward

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/reward"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	recentTransactions      = 10
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// RewardsService awards XP and ranks users
type RewardsService struct {
	rewards   reward.RewardsRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewRewardsService creates a new RewardsService
func NewRewardsService(rewards reward.RewardsRepository, publisher shared.EventPublisher, log *zap.Logger) *RewardsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RewardsService{rewards: rewards, publisher: publisher, logger: log.Named("rewards_service"), now: time.Now}
}

// AwardXP credits a user for action. With a reference id the award is made
// at most once per (user, action, reference).
func (s *RewardsService) AwardXP(ctx context.Context, tenantID, userID uuid.UUID, action reward.Action, bonus reward.Bonus, referenceID *uuid.UUID) (*AwardResponse, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown XP action "+string(action))
	}
	balance, err := s.balance(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if referenceID != nil {
		exists, err := s.rewards.ExistsTransaction(ctx, tenantID, userID, action, *referenceID)
		if err != nil {
			return nil, err
		}
		if exists {
			return &AwardResponse{Rewards: ToRewardsResponse(balance)}, nil
		}
	}

	tx, err := reward.NewXPTransaction(tenantID, userID, action, bonus, referenceID, s.now())
	if err != nil {
		return nil, err
	}
	balance.Award(tx)
	if err := s.rewards.SaveAward(ctx, balance, tx); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, balance); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish reward events", zap.Error(err))
	}
	logger.Enrich(ctx, s.logger).Debug("XP awarded",
		zap.String("user_id", userID.String()),
		zap.String("action", string(action)),
		zap.Int("xp", tx.XP),
	)
	txResp := ToTransactionResponse(tx)
	return &AwardResponse{Awarded: true, Transaction: &txResp, Rewards: ToRewardsResponse(balance)}, nil
}

// GetForUser returns a user's balance and latest transactions. Users who
// never earned XP get a level 1 balance.
func (s *RewardsService) GetForUser(ctx context.Context, tenantID, userID uuid.UUID) (*RewardsResponse, error) {
	balance, err := s.balance(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.rewards.ListTransactions(ctx, tenantID, userID, recentTransactions)
	if err != nil {
		return nil, err
	}
	resp := ToRewardsResponse(balance)
	for _, tx := range txs {
		resp.Recent = append(resp.Recent, ToTransactionResponse(tx))
	}
	return &resp, nil
}

// Leaderboard ranks users by total XP
func (s *RewardsService) Leaderboard(ctx context.Context, tenantID uuid.UUID, limit int) ([]LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = defaultLeaderboardLimit
	case limit > maxLeaderboardLimit:
		limit = maxLeaderboardLimit
	}
	list, err := s.rewards.Leaderboard(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(list))
	for i, r := range list {
		out = append(out, LeaderboardEntry{
			Position:     i + 1,
			UserID:       r.UserID,
			TotalXP:      r.TotalXP,
			CurrentLevel: r.CurrentLevel,
			Rank:         string(r.Rank),
		})
	}
	return out, nil
}

func (s *RewardsService) balance(ctx context.Context, tenantID, userID uuid.UUID) (*reward.UserRewards, error) {
	r, err := s.rewards.FindByUser(ctx, tenantID, userID)
	if err == nil {
		return r, nil
	}
	if shared.IsNotFound(err) {
		return reward.NewUserRewards(tenantID, userID), nil
	}
	return nil, err
}
