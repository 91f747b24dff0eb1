package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/reward"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const defaultLeaderboardSize = 10

// GormRewardsRepository implements reward.RewardsRepository using GORM
type GormRewardsRepository struct {
	db *gorm.DB
}

// NewGormRewardsRepository creates a new GormRewardsRepository
func NewGormRewardsRepository(db *gorm.DB) *GormRewardsRepository {
	return &GormRewardsRepository{db: db}
}

// FindByUser returns the user's balance or shared.ErrNotFound
func (r *GormRewardsRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID) (*reward.UserRewards, error) {
	var m models.UserRewardsModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// SaveAward stores the balance and appends the transaction atomically
func (r *GormRewardsRepository) SaveAward(ctx context.Context, rewards *reward.UserRewards, tx *reward.XPTransaction) error {
	return inTx(ctx, r.db, func(db *gorm.DB) error {
		if err := db.Save(models.UserRewardsModelFromDomain(rewards)).Error; err != nil {
			return translate(err)
		}
		if tx == nil {
			return nil
		}
		return translate(db.Create(models.XPTransactionModelFromDomain(tx)).Error)
	})
}

// ExistsTransaction reports whether an award for (user, action, reference) was already made
func (r *GormRewardsRepository) ExistsTransaction(ctx context.Context, tenantID, userID uuid.UUID, action reward.Action, referenceID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.XPTransactionModel{}).
		Scopes(tenantScope(tenantID)).
		Where("user_id = ? AND action = ? AND reference_id = ?", userID, string(action), referenceID).
		Count(&count).Error
	return count > 0, err
}

// ListTransactions returns the user's latest XP transactions
func (r *GormRewardsRepository) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]*reward.XPTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.XPTransactionModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*reward.XPTransaction, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Leaderboard returns balances ordered by total XP descending
func (r *GormRewardsRepository) Leaderboard(ctx context.Context, tenantID uuid.UUID, limit int) ([]*reward.UserRewards, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	var rows []models.UserRewardsModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Order("total_xp DESC, updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*reward.UserRewards, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var _ reward.RewardsRepository = (*GormRewardsRepository)(nil)
