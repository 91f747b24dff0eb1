package models

import (
	"time"

	"github.com/loro/backend/internal/domain/licensing"
)

// LicenseModel is the persistence model for organisation licenses.
// TenantID holds the organisation the license belongs to.
type LicenseModel struct {
	TenantModel
	LicenseKey  string    `gorm:"size:32;not null;uniqueIndex"`
	Plan        string    `gorm:"size:20;not null"`
	MaxUsers    int       `gorm:"not null"`
	MaxBranches int       `gorm:"not null"`
	ValidFrom   time.Time `gorm:"not null"`
	ValidUntil  time.Time `gorm:"not null;index"`
	Status      string    `gorm:"size:20;not null;index"`
}

// TableName returns the table name for GORM
func (LicenseModel) TableName() string {
	return "licenses"
}

// ToDomain converts the model to a domain License
func (m *LicenseModel) ToDomain() *licensing.License {
	return &licensing.License{
		TenantAggregateRoot: m.ToDomainTenant(),
		LicenseKey:          m.LicenseKey,
		Plan:                licensing.Plan(m.Plan),
		MaxUsers:            m.MaxUsers,
		MaxBranches:         m.MaxBranches,
		ValidFrom:           m.ValidFrom,
		ValidUntil:          m.ValidUntil,
		Status:              licensing.Status(m.Status),
	}
}

// LicenseModelFromDomain converts a domain License to its model
func LicenseModelFromDomain(l *licensing.License) *LicenseModel {
	m := &LicenseModel{
		LicenseKey:  l.LicenseKey,
		Plan:        string(l.Plan),
		MaxUsers:    l.MaxUsers,
		MaxBranches: l.MaxBranches,
		ValidFrom:   l.ValidFrom,
		ValidUntil:  l.ValidUntil,
		Status:      string(l.Status),
	}
	m.FromDomainTenant(l.TenantAggregateRoot)
	return m
}

// AllModels lists every model for AutoMigrate in tests and development
func AllModels() []any {
	return []any{
		&OrganisationModel{},
		&BranchModel{},
		&UserModel{},
		&TaskModel{},
		&SubTaskModel{},
		&TaskAssigneeModel{},
		&TaskClientModel{},
		&RouteModel{},
		&ClientModel{},
		&LeadModel{},
		&QuotationModel{},
		&QuotationItemModel{},
		&AttendanceModel{},
		&CheckInModel{},
		&ClaimModel{},
		&LeaveModel{},
		&DocModel{},
		&UserRewardsModel{},
		&XPTransactionModel{},
		&LicenseModel{},
	}
}
