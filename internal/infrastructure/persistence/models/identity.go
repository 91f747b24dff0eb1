package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
)

// UserModel is the persistence model for users
type UserModel struct {
	TenantModel
	SoftDeleteColumns
	Email        string     `gorm:"size:200;not null;uniqueIndex"`
	Name         string     `gorm:"size:100;not null"`
	Surname      string     `gorm:"size:100"`
	Phone        string     `gorm:"size:50"`
	PasswordHash string     `gorm:"size:255;not null"`
	Role         string     `gorm:"size:20;not null"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"size:20;not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Email:               m.Email,
		Name:                m.Name,
		Surname:             m.Surname,
		Phone:               m.Phone,
		PasswordHash:        m.PasswordHash,
		Role:                identity.Role(m.Role),
		BranchID:            m.BranchID,
		Status:              identity.UserStatus(m.Status),
		LastLoginAt:         m.LastLoginAt,
	}
}

// UserModelFromDomain converts a domain User to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		Name:         u.Name,
		Surname:      u.Surname,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		BranchID:     u.BranchID,
		Status:       string(u.Status),
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainTenant(u.TenantAggregateRoot)
	m.FromDomainSoftDelete(u.SoftDelete)
	return m
}
