package claim

import (
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

const (
	AggregateTypeClaim = "Claim"

	EventTypeClaimSubmitted     = "ClaimSubmitted"
	EventTypeClaimStatusChanged = "ClaimStatusChanged"
)

// ClaimSubmittedEvent is raised when a claim is filed
type ClaimSubmittedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Amount   string    `json:"amount"`
	Category Category  `json:"category"`
}

// NewClaimSubmittedEvent creates a new ClaimSubmittedEvent
func NewClaimSubmittedEvent(c *Claim) *ClaimSubmittedEvent {
	return &ClaimSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimSubmitted, AggregateTypeClaim, c.ID, c.TenantID),
		UserID:          c.UserID,
		Amount:          c.Amount.StringFixed(2),
		Category:        c.Category,
	}
}

// ClaimStatusChangedEvent is raised on each workflow step
type ClaimStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	From   Status    `json:"from"`
	To     Status    `json:"to"`
}

// NewClaimStatusChangedEvent creates a new ClaimStatusChangedEvent
func NewClaimStatusChangedEvent(c *Claim, from Status) *ClaimStatusChangedEvent {
	return &ClaimStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimStatusChanged, AggregateTypeClaim, c.ID, c.TenantID),
		UserID:          c.UserID,
		From:            from,
		To:              c.Status,
	}
}
