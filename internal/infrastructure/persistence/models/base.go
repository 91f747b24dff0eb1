package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// TenantModel holds the columns shared by every tenant-scoped aggregate
type TenantModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Version   int        `gorm:"not null;default:1"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// FromDomainTenant copies the aggregate envelope
func (m *TenantModel) FromDomainTenant(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
	m.Version = t.Version
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
}

// ToDomainTenant rebuilds the aggregate envelope
func (m *TenantModel) ToDomainTenant() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}

// SoftDeleteColumns is embedded by models whose rows are flagged instead of removed
type SoftDeleteColumns struct {
	IsDeleted bool       `gorm:"not null;default:false;index"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

// FromDomainSoftDelete copies the deleted flag
func (s *SoftDeleteColumns) FromDomainSoftDelete(d shared.SoftDelete) {
	s.IsDeleted = d.IsDeleted
	s.DeletedAt = d.DeletedAt
}

// ToDomainSoftDelete rebuilds the deleted flag
func (s SoftDeleteColumns) ToDomainSoftDelete() shared.SoftDelete {
	return shared.SoftDelete{IsDeleted: s.IsDeleted, DeletedAt: s.DeletedAt}
}

// AddressColumns flattens valueobject.Address
type AddressColumns struct {
	Street     string `gorm:"size:200"`
	Suburb     string `gorm:"size:100"`
	City       string `gorm:"size:100"`
	State      string `gorm:"size:100"`
	Country    string `gorm:"size:100"`
	PostalCode string `gorm:"size:20"`
}

// FromAddress copies an address into columns
func (a *AddressColumns) FromAddress(v valueobject.Address) {
	a.Street = v.Street()
	a.Suburb = v.Suburb()
	a.City = v.City()
	a.State = v.State()
	a.Country = v.Country()
	a.PostalCode = v.PostalCode()
}

// ToAddress rebuilds the address value
func (a AddressColumns) ToAddress() valueobject.Address {
	return valueobject.RestoreAddress(a.Street, a.Suburb, a.City, a.State, a.Country, a.PostalCode)
}

// LocationColumns holds optional coordinates as two nullable columns
type LocationColumns struct {
	Latitude  *float64
	Longitude *float64
}

// FromCoordinates copies optional coordinates
func (l *LocationColumns) FromCoordinates(c *valueobject.Coordinates) {
	if c == nil {
		l.Latitude, l.Longitude = nil, nil
		return
	}
	lat, lng := c.Lat, c.Lng
	l.Latitude, l.Longitude = &lat, &lng
}

// ToCoordinates returns nil unless both columns are set
func (l LocationColumns) ToCoordinates() *valueobject.Coordinates {
	if l.Latitude == nil || l.Longitude == nil {
		return nil
	}
	return &valueobject.Coordinates{Lat: *l.Latitude, Lng: *l.Longitude}
}
