package reward

import (
	"context"

	"github.com/google/uuid"
)

// RewardsRepository persists XP balances and their transactions
type RewardsRepository interface {
	// FindByUser returns the user's balance or shared.ErrNotFound
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserRewards, error)

	// SaveAward stores the balance and appends the transaction atomically
	SaveAward(ctx context.Context, rewards *UserRewards, tx *XPTransaction) error

	// ExistsTransaction reports whether an award for (user, action, reference) was already made
	ExistsTransaction(ctx context.Context, tenantID, userID uuid.UUID, action Action, referenceID uuid.UUID) (bool, error)

	ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]*XPTransaction, error)

	// Leaderboard returns balances ordered by total XP descending
	Leaderboard(ctx context.Context, tenantID uuid.UUID, limit int) ([]*UserRewards, error)
}
