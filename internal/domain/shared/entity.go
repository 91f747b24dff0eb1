package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch bumps UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SoftDeletable is implemented by aggregates that are flagged instead of removed.
type SoftDeletable interface {
	Deleted() bool
	MarkDeleted()
	Restore()
}

// SoftDelete carries the is_deleted flag. Soft-deleted rows stay readable by
// primary key and are excluded from list queries.
type SoftDelete struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// Deleted reports whether the record is flagged as deleted
func (s *SoftDelete) Deleted() bool {
	return s.IsDeleted
}

// MarkDeleted flags the record as deleted
func (s *SoftDelete) MarkDeleted() {
	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
}

// Restore clears the deleted flag
func (s *SoftDelete) Restore() {
	s.IsDeleted = false
	s.DeletedAt = nil
}
