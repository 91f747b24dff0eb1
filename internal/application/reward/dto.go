package reward

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/reward"
)

// AwardRequest is the body of POST /rewards/award
type AwardRequest struct {
	UserID      uuid.UUID  `json:"user_id" binding:"required"`
	Action      string     `json:"action" binding:"required,oneof=TASK_COMPLETED CHECK_IN CLIENT_VISIT LEAD_CONVERTED CLAIM_SUBMITTED QUOTATION_CREATED"`
	ReferenceID *uuid.UUID `json:"reference_id"`
}

// RewardsResponse is a user's balance with recent transactions
type RewardsResponse struct {
	UserID       uuid.UUID             `json:"user_id"`
	TotalXP      int                   `json:"total_xp"`
	CurrentLevel int                   `json:"current_level"`
	Rank         string                `json:"rank"`
	XPByCategory map[string]int        `json:"xp_by_category"`
	Recent       []TransactionResponse `json:"recent,omitempty"`
}

// TransactionResponse is one XP award
type TransactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	Action      string           `json:"action"`
	XP          int              `json:"xp"`
	Breakdown   reward.Breakdown `json:"breakdown"`
	ReferenceID *uuid.UUID       `json:"reference_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// AwardResponse reports the outcome of AwardXP. Awarded is false when the
// same reference was already rewarded.
type AwardResponse struct {
	Awarded     bool                 `json:"awarded"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Rewards     RewardsResponse      `json:"rewards"`
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Position     int       `json:"position"`
	UserID       uuid.UUID `json:"user_id"`
	TotalXP      int       `json:"total_xp"`
	CurrentLevel int       `json:"current_level"`
	Rank         string    `json:"rank"`
}

// ToRewardsResponse converts a balance
func ToRewardsResponse(r *reward.UserRewards) RewardsResponse {
	byCat := make(map[string]int, len(r.XPByCategory))
	for k, v := range r.XPByCategory {
		byCat[string(k)] = v
	}
	return RewardsResponse{
		UserID:       r.UserID,
		TotalXP:      r.TotalXP,
		CurrentLevel: r.CurrentLevel,
		Rank:         string(r.Rank),
		XPByCategory: byCat,
	}
}

// ToTransactionResponse converts an XP transaction
func ToTransactionResponse(tx *reward.XPTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Action:      string(tx.Action),
		XP:          tx.XP,
		Breakdown:   tx.Breakdown,
		ReferenceID: tx.ReferenceID,
		CreatedAt:   tx.CreatedAt,
	}
}
