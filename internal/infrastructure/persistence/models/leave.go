package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/leave"
)

// LeaveModel is the persistence model for leave requests
type LeaveModel struct {
	TenantModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeaveType  string     `gorm:"size:20;not null"`
	StartDate  time.Time  `gorm:"type:date;not null;index"`
	EndDate    time.Time  `gorm:"type:date;not null"`
	HalfDay    bool       `gorm:"not null;default:false"`
	Reason     string     `gorm:"type:text"`
	Status     string     `gorm:"size:20;not null;index"`
	ApproverID *uuid.UUID `gorm:"type:uuid"`
	Comments   string     `gorm:"type:text"`
	Days       float64    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LeaveModel) TableName() string {
	return "leaves"
}

// ToDomain converts the model to a domain Leave
func (m *LeaveModel) ToDomain() *leave.Leave {
	return &leave.Leave{
		TenantAggregateRoot: m.ToDomainTenant(),
		UserID:              m.UserID,
		Type:                leave.Type(m.LeaveType),
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		HalfDay:             m.HalfDay,
		Reason:              m.Reason,
		Status:              leave.Status(m.Status),
		ApproverID:          m.ApproverID,
		Comments:            m.Comments,
		Days:                m.Days,
	}
}

// LeaveModelFromDomain converts a domain Leave to its model
func LeaveModelFromDomain(l *leave.Leave) *LeaveModel {
	m := &LeaveModel{
		UserID:     l.UserID,
		LeaveType:  string(l.Type),
		StartDate:  l.StartDate,
		EndDate:    l.EndDate,
		HalfDay:    l.HalfDay,
		Reason:     l.Reason,
		Status:     string(l.Status),
		ApproverID: l.ApproverID,
		Comments:   l.Comments,
		Days:       l.Days,
	}
	m.FromDomainTenant(l.TenantAggregateRoot)
	return m
}
