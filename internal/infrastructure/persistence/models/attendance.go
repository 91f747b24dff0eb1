package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// AttendanceModel is the persistence model for shifts
type AttendanceModel struct {
	TenantModel
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID        *uuid.UUID `gorm:"type:uuid;index"`
	CheckIn         time.Time  `gorm:"not null;index"`
	CheckInLat      *float64
	CheckInLng      *float64
	CheckInNotes    string `gorm:"type:text"`
	CheckOut        *time.Time
	CheckOutLat     *float64
	CheckOutLng     *float64
	CheckOutNotes   string `gorm:"type:text"`
	DurationMinutes int    `gorm:"not null;default:0"`
	Status          string `gorm:"size:20;not null;index"`
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendance"
}

// ToDomain converts the model to a domain Attendance
func (m *AttendanceModel) ToDomain() *attendance.Attendance {
	return &attendance.Attendance{
		TenantAggregateRoot: m.ToDomainTenant(),
		UserID:              m.UserID,
		BranchID:            m.BranchID,
		CheckIn:             m.CheckIn,
		CheckInLocation:     coords(m.CheckInLat, m.CheckInLng),
		CheckInNotes:        m.CheckInNotes,
		CheckOut:            m.CheckOut,
		CheckOutLocation:    coords(m.CheckOutLat, m.CheckOutLng),
		CheckOutNotes:       m.CheckOutNotes,
		DurationMinutes:     m.DurationMinutes,
		Status:              attendance.Status(m.Status),
	}
}

// AttendanceModelFromDomain converts a domain Attendance to its model
func AttendanceModelFromDomain(a *attendance.Attendance) *AttendanceModel {
	m := &AttendanceModel{
		UserID:          a.UserID,
		BranchID:        a.BranchID,
		CheckIn:         a.CheckIn,
		CheckInNotes:    a.CheckInNotes,
		CheckOut:        a.CheckOut,
		CheckOutNotes:   a.CheckOutNotes,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
	}
	m.FromDomainTenant(a.TenantAggregateRoot)
	m.CheckInLat, m.CheckInLng = latLng(a.CheckInLocation)
	m.CheckOutLat, m.CheckOutLng = latLng(a.CheckOutLocation)
	return m
}

// CheckInModel is the persistence model for client visits
type CheckInModel struct {
	TenantModel
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID        *uuid.UUID `gorm:"type:uuid"`
	CheckInTime     time.Time  `gorm:"not null;index"`
	CheckInLat      *float64
	CheckInLng      *float64
	PhotoKey        string `gorm:"size:500"`
	Notes           string `gorm:"type:text"`
	CheckOutTime    *time.Time
	CheckOutLat     *float64
	CheckOutLng     *float64
	DurationMinutes int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CheckInModel) TableName() string {
	return "check_ins"
}

// ToDomain converts the model to a domain CheckIn
func (m *CheckInModel) ToDomain() *attendance.CheckIn {
	return &attendance.CheckIn{
		TenantAggregateRoot: m.ToDomainTenant(),
		UserID:              m.UserID,
		ClientID:            m.ClientID,
		BranchID:            m.BranchID,
		CheckInTime:         m.CheckInTime,
		CheckInLocation:     coords(m.CheckInLat, m.CheckInLng),
		PhotoKey:            m.PhotoKey,
		Notes:               m.Notes,
		CheckOutTime:        m.CheckOutTime,
		CheckOutLocation:    coords(m.CheckOutLat, m.CheckOutLng),
		DurationMinutes:     m.DurationMinutes,
	}
}

// CheckInModelFromDomain converts a domain CheckIn to its model
func CheckInModelFromDomain(c *attendance.CheckIn) *CheckInModel {
	m := &CheckInModel{
		UserID:          c.UserID,
		ClientID:        c.ClientID,
		BranchID:        c.BranchID,
		CheckInTime:     c.CheckInTime,
		PhotoKey:        c.PhotoKey,
		Notes:           c.Notes,
		CheckOutTime:    c.CheckOutTime,
		DurationMinutes: c.DurationMinutes,
	}
	m.FromDomainTenant(c.TenantAggregateRoot)
	m.CheckInLat, m.CheckInLng = latLng(c.CheckInLocation)
	m.CheckOutLat, m.CheckOutLng = latLng(c.CheckOutLocation)
	return m
}

func coords(lat, lng *float64) *valueobject.Coordinates {
	return LocationColumns{Latitude: lat, Longitude: lng}.ToCoordinates()
}

func latLng(c *valueobject.Coordinates) (*float64, *float64) {
	var l LocationColumns
	l.FromCoordinates(c)
	return l.Latitude, l.Longitude
}
