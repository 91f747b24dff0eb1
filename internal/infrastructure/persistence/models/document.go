package models

import (
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/document"
)

// DocModel is the persistence model for uploaded documents
type DocModel struct {
	TenantModel
	SoftDeleteColumns
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text"`
	FileName    string     `gorm:"size:255;not null"`
	ContentType string     `gorm:"size:100;not null"`
	FileSize    int64      `gorm:"not null"`
	StorageKey  string     `gorm:"size:500;not null;uniqueIndex"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID    *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"size:20;not null"`
}

// TableName returns the table name for GORM
func (DocModel) TableName() string {
	return "docs"
}

// ToDomain converts the model to a domain Doc
func (m *DocModel) ToDomain() *document.Doc {
	return &document.Doc{
		TenantAggregateRoot: m.ToDomainTenant(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Title:               m.Title,
		Description:         m.Description,
		FileName:            m.FileName,
		ContentType:         m.ContentType,
		FileSize:            m.FileSize,
		StorageKey:          m.StorageKey,
		OwnerID:             m.OwnerID,
		BranchID:            m.BranchID,
		Status:              document.Status(m.Status),
	}
}

// DocModelFromDomain converts a domain Doc to its model
func DocModelFromDomain(d *document.Doc) *DocModel {
	m := &DocModel{
		Title:       d.Title,
		Description: d.Description,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		FileSize:    d.FileSize,
		StorageKey:  d.StorageKey,
		OwnerID:     d.OwnerID,
		BranchID:    d.BranchID,
		Status:      string(d.Status),
	}
	m.FromDomainTenant(d.TenantAggregateRoot)
	m.FromDomainSoftDelete(d.SoftDelete)
	return m
}
