package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/reward"
)

// UserRewardsModel holds the running XP totals of a user
type UserRewardsModel struct {
	TenantModel
	UserID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	TotalXP      int               `gorm:"not null;default:0;index"`
	CurrentLevel int               `gorm:"not null;default:1"`
	Rank         string            `gorm:"size:20;not null"`
	XPByCategory reward.CategoryXP `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (UserRewardsModel) TableName() string {
	return "user_rewards"
}

// ToDomain converts the model to domain UserRewards
func (m *UserRewardsModel) ToDomain() *reward.UserRewards {
	return &reward.UserRewards{
		TenantAggregateRoot: m.ToDomainTenant(),
		UserID:              m.UserID,
		TotalXP:             m.TotalXP,
		CurrentLevel:        m.CurrentLevel,
		Rank:                reward.Rank(m.Rank),
		XPByCategory:        m.XPByCategory,
	}
}

// UserRewardsModelFromDomain converts domain UserRewards to its model
func UserRewardsModelFromDomain(r *reward.UserRewards) *UserRewardsModel {
	m := &UserRewardsModel{
		UserID:       r.UserID,
		TotalXP:      r.TotalXP,
		CurrentLevel: r.CurrentLevel,
		Rank:         string(r.Rank),
		XPByCategory: r.XPByCategory,
	}
	m.FromDomainTenant(r.TenantAggregateRoot)
	return m
}

// XPTransactionModel is the append-only XP ledger
type XPTransactionModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Action      string           `gorm:"size:30;not null"`
	XP          int              `gorm:"column:xp;not null"`
	Breakdown   reward.Breakdown `gorm:"type:jsonb;not null"`
	ReferenceID *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (XPTransactionModel) TableName() string {
	return "xp_transactions"
}

// ToDomain converts the model to a domain XPTransaction
func (m *XPTransactionModel) ToDomain() *reward.XPTransaction {
	return &reward.XPTransaction{
		ID:          m.ID,
		TenantID:    m.TenantID,
		UserID:      m.UserID,
		Action:      reward.Action(m.Action),
		XP:          m.XP,
		Breakdown:   m.Breakdown,
		ReferenceID: m.ReferenceID,
		CreatedAt:   m.CreatedAt,
	}
}

// XPTransactionModelFromDomain converts a domain XPTransaction to its model
func XPTransactionModelFromDomain(tx *reward.XPTransaction) *XPTransactionModel {
	return &XPTransactionModel{
		ID:          tx.ID,
		TenantID:    tx.TenantID,
		UserID:      tx.UserID,
		Action:      string(tx.Action),
		XP:          tx.XP,
		Breakdown:   tx.Breakdown,
		ReferenceID: tx.ReferenceID,
		CreatedAt:   tx.CreatedAt,
	}
}
