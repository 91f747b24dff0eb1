package models

import (
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ClaimModel is the persistence model for expense claims
type ClaimModel struct {
	TenantModel
	SoftDeleteColumns
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID      *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"size:3;not null"`
	Category      string          `gorm:"size:30;not null"`
	Comments      string          `gorm:"type:text"`
	AttachmentKey string          `gorm:"size:500"`
	Status        string          `gorm:"size:20;not null;index"`
	ReviewedBy    *uuid.UUID      `gorm:"type:uuid"`
	ReviewComment string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClaimModel) TableName() string {
	return "claims"
}

// ToDomain converts the model to a domain Claim
func (m *ClaimModel) ToDomain() *claim.Claim {
	return &claim.Claim{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		UserID:              m.UserID,
		BranchID:            m.BranchID,
		Amount:              m.Amount,
		Currency:            valueobject.Currency(m.Currency),
		Category:            claim.Category(m.Category),
		Comments:            m.Comments,
		AttachmentKey:       m.AttachmentKey,
		Status:              claim.Status(m.Status),
		ReviewedBy:          m.ReviewedBy,
		ReviewComment:       m.ReviewComment,
	}
}

// ClaimModelFromDomain converts a domain Claim to its model
func ClaimModelFromDomain(c *claim.Claim) *ClaimModel {
	m := &ClaimModel{
		UserID:        c.UserID,
		BranchID:      c.BranchID,
		Amount:        c.Amount,
		Currency:      string(c.Currency),
		Category:      string(c.Category),
		Comments:      c.Comments,
		AttachmentKey: c.AttachmentKey,
		Status:        string(c.Status),
		ReviewedBy:    c.ReviewedBy,
		ReviewComment: c.ReviewComment,
	}
	m.FromDomainTenant(c.TenantAggregateRoot)
	m.FromDomainSoftDelete(c.SoftDelete)
	return m
}
