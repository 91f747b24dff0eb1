package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/shared"
)

// OrganisationModel is the persistence model for organisations
type OrganisationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	SoftDeleteColumns
	Name    string `gorm:"size:200;not null"`
	Email   string `gorm:"size:200;not null;uniqueIndex"`
	Phone   string `gorm:"size:50"`
	Website string `gorm:"size:255"`
	Logo    string `gorm:"size:500"`
	AddressColumns
	Status string `gorm:"size:20;not null"`
}

// TableName returns the table name for GORM
func (OrganisationModel) TableName() string {
	return "organisations"
}

// ToDomain converts the model to a domain Organisation
func (m *OrganisationModel) ToDomain() *organisation.Organisation {
	return &organisation.Organisation{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		SoftDelete: m.ToDomainSoftDelete(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Website:    m.Website,
		Logo:       m.Logo,
		Address:    m.ToAddress(),
		Status:     organisation.Status(m.Status),
	}
}

// OrganisationModelFromDomain converts a domain Organisation to its model
func OrganisationModelFromDomain(o *organisation.Organisation) *OrganisationModel {
	m := &OrganisationModel{
		ID:        o.ID,
		Version:   o.Version,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Name:      o.Name,
		Email:     o.Email,
		Phone:     o.Phone,
		Website:   o.Website,
		Logo:      o.Logo,
		Status:    string(o.Status),
	}
	m.FromDomainSoftDelete(o.SoftDelete)
	m.FromAddress(o.Address)
	return m
}

// BranchModel is the persistence model for branches
type BranchModel struct {
	TenantModel
	SoftDeleteColumns
	Name          string `gorm:"size:200;not null"`
	ReferenceCode string `gorm:"size:32;not null"`
	Email         string `gorm:"size:200"`
	Phone         string `gorm:"size:50"`
	AddressColumns
	LocationColumns
	Status string `gorm:"size:20;not null"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the model to a domain Branch
func (m *BranchModel) ToDomain() *organisation.Branch {
	return &organisation.Branch{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Name:                m.Name,
		ReferenceCode:       m.ReferenceCode,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.ToAddress(),
		Location:            m.ToCoordinates(),
		Status:              organisation.Status(m.Status),
	}
}

// BranchModelFromDomain converts a domain Branch to its model
func BranchModelFromDomain(b *organisation.Branch) *BranchModel {
	m := &BranchModel{
		Name:          b.Name,
		ReferenceCode: b.ReferenceCode,
		Email:         b.Email,
		Phone:         b.Phone,
		Status:        string(b.Status),
	}
	m.FromDomainTenant(b.TenantAggregateRoot)
	m.FromDomainSoftDelete(b.SoftDelete)
	m.FromAddress(b.Address)
	m.FromCoordinates(b.Location)
	return m
}
