package models

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for clients
type ClientModel struct {
	TenantModel
	SoftDeleteColumns
	BranchID      *uuid.UUID `gorm:"type:uuid;index"`
	Name          string     `gorm:"size:200;not null"`
	ContactPerson string     `gorm:"size:200"`
	Email         string     `gorm:"size:200"`
	Phone         string     `gorm:"size:50"`
	AddressColumns
	LocationColumns
	Category      string     `gorm:"size:20;not null"`
	Status        string     `gorm:"size:20;not null;index"`
	AssignedRepID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the model to a domain Client
func (m *ClientModel) ToDomain() *crm.Client {
	return &crm.Client{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		BranchID:            m.BranchID,
		Name:                m.Name,
		ContactPerson:       m.ContactPerson,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.ToAddress(),
		Location:            m.ToCoordinates(),
		Category:            crm.ClientCategory(m.Category),
		Status:              crm.ClientStatus(m.Status),
		AssignedRepID:       m.AssignedRepID,
	}
}

// ClientModelFromDomain converts a domain Client to its model
func ClientModelFromDomain(c *crm.Client) *ClientModel {
	m := &ClientModel{
		BranchID:      c.BranchID,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		Phone:         c.Phone,
		Category:      string(c.Category),
		Status:        string(c.Status),
		AssignedRepID: c.AssignedRepID,
	}
	m.FromDomainTenant(c.TenantAggregateRoot)
	m.FromDomainSoftDelete(c.SoftDelete)
	m.FromAddress(c.Address)
	m.FromCoordinates(c.Location)
	return m
}

// LeadModel is the persistence model for leads
type LeadModel struct {
	TenantModel
	SoftDeleteColumns
	BranchID       *uuid.UUID      `gorm:"type:uuid;index"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID       *uuid.UUID      `gorm:"type:uuid"`
	Name           string          `gorm:"size:200;not null"`
	Email          string          `gorm:"size:200"`
	Phone          string          `gorm:"size:50"`
	Notes          string          `gorm:"type:text"`
	Source         string          `gorm:"size:20;not null"`
	Temperature    string          `gorm:"size:10;not null"`
	Status         string          `gorm:"size:20;not null;index"`
	Budget         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ActivityCount  int             `gorm:"not null;default:0"`
	LastActivityAt *time.Time
	Score          int `gorm:"not null;default:0"`
	ScoredAt       *time.Time
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the model to a domain Lead
func (m *LeadModel) ToDomain() *crm.Lead {
	return &crm.Lead{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		BranchID:            m.BranchID,
		OwnerID:             m.OwnerID,
		ClientID:            m.ClientID,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Notes:               m.Notes,
		Source:              crm.LeadSource(m.Source),
		Temperature:         crm.LeadTemperature(m.Temperature),
		Status:              crm.LeadStatus(m.Status),
		Budget:              m.Budget,
		ActivityCount:       m.ActivityCount,
		LastActivityAt:      m.LastActivityAt,
		Score:               m.Score,
		ScoredAt:            m.ScoredAt,
	}
}

// LeadModelFromDomain converts a domain Lead to its model
func LeadModelFromDomain(l *crm.Lead) *LeadModel {
	m := &LeadModel{
		BranchID:       l.BranchID,
		OwnerID:        l.OwnerID,
		ClientID:       l.ClientID,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Notes:          l.Notes,
		Source:         string(l.Source),
		Temperature:    string(l.Temperature),
		Status:         string(l.Status),
		Budget:         l.Budget,
		ActivityCount:  l.ActivityCount,
		LastActivityAt: l.LastActivityAt,
		Score:          l.Score,
		ScoredAt:       l.ScoredAt,
	}
	m.FromDomainTenant(l.TenantAggregateRoot)
	m.FromDomainSoftDelete(l.SoftDelete)
	return m
}

// QuotationModel is the persistence model for quotations
type QuotationModel struct {
	TenantModel
	ClientID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	PreparedBy      uuid.UUID            `gorm:"type:uuid;not null"`
	QuotationNumber string               `gorm:"size:32;not null;index"`
	Currency        string               `gorm:"size:3;not null"`
	Total           decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Notes           string               `gorm:"type:text"`
	Status          string               `gorm:"size:20;not null;index"`
	Items           []QuotationItemModel `gorm:"foreignKey:QuotationID"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// QuotationItemModel is one line of a quotation
type QuotationItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"size:500;not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (QuotationItemModel) TableName() string {
	return "quotation_items"
}

// ToDomain converts the model and its items to a domain Quotation
func (m *QuotationModel) ToDomain() *crm.Quotation {
	q := &crm.Quotation{
		TenantAggregateRoot: m.ToDomainTenant(),
		ClientID:            m.ClientID,
		PreparedBy:          m.PreparedBy,
		QuotationNumber:     m.QuotationNumber,
		Currency:            valueobject.Currency(m.Currency),
		Total:               m.Total,
		Notes:               m.Notes,
		Status:              crm.QuotationStatus(m.Status),
		Items:               make([]crm.QuotationItem, 0, len(m.Items)),
	}
	items := slices.Clone(m.Items)
	slices.SortFunc(items, func(a, b QuotationItemModel) int { return cmp.Compare(a.Position, b.Position) })
	for _, it := range items {
		q.Items = append(q.Items, crm.QuotationItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return q
}

// QuotationModelFromDomain converts a domain Quotation to its model
func QuotationModelFromDomain(q *crm.Quotation) *QuotationModel {
	m := &QuotationModel{
		ClientID:        q.ClientID,
		PreparedBy:      q.PreparedBy,
		QuotationNumber: q.QuotationNumber,
		Currency:        string(q.Currency),
		Total:           q.Total,
		Notes:           q.Notes,
		Status:          string(q.Status),
	}
	m.FromDomainTenant(q.TenantAggregateRoot)
	for i, it := range q.Items {
		m.Items = append(m.Items, QuotationItemModel{
			ID:          it.ID,
			QuotationID: q.ID,
			Position:    i,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return m
}
