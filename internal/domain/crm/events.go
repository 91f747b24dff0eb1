package crm

import (
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

const (
	AggregateTypeClient    = "Client"
	AggregateTypeLead      = "Lead"
	AggregateTypeQuotation = "Quotation"
)

const (
	EventTypeClientCreated          = "ClientCreated"
	EventTypeLeadCreated            = "LeadCreated"
	EventTypeLeadConverted          = "LeadConverted"
	EventTypeQuotationCreated       = "QuotationCreated"
	EventTypeQuotationStatusChanged = "QuotationStatusChanged"
)

// ClientCreatedEvent is raised when a client is added
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, c.ID, c.TenantID),
		Name:            c.Name,
	}
}

// LeadCreatedEvent is raised when a lead is captured
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID  `json:"owner_id"`
	Source  LeadSource `json:"source"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(l *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, l.ID, l.TenantID),
		OwnerID:         l.OwnerID,
		Source:          l.Source,
	}
}

// LeadConvertedEvent is raised when a lead becomes a client
type LeadConvertedEvent struct {
	shared.BaseDomainEvent
	OwnerID  uuid.UUID `json:"owner_id"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewLeadConvertedEvent creates a new LeadConvertedEvent
func NewLeadConvertedEvent(l *Lead) *LeadConvertedEvent {
	var clientID uuid.UUID
	if l.ClientID != nil {
		clientID = *l.ClientID
	}
	return &LeadConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadConverted, AggregateTypeLead, l.ID, l.TenantID),
		OwnerID:         l.OwnerID,
		ClientID:        clientID,
	}
}

// QuotationCreatedEvent is raised for every new quotation
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID        uuid.UUID `json:"client_id"`
	PreparedBy      uuid.UUID `json:"prepared_by"`
	QuotationNumber string    `json:"quotation_number"`
	Total           string    `json:"total"`
	Currency        string    `json:"currency"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID, q.TenantID),
		ClientID:        q.ClientID,
		PreparedBy:      q.PreparedBy,
		QuotationNumber: q.QuotationNumber,
		Total:           q.Total.StringFixed(2),
		Currency:        string(q.Currency),
	}
}

// QuotationStatusChangedEvent is raised on each status move
type QuotationStatusChangedEvent struct {
	shared.BaseDomainEvent
	Status QuotationStatus `json:"status"`
}

// NewQuotationStatusChangedEvent creates a new QuotationStatusChangedEvent
func NewQuotationStatusChangedEvent(q *Quotation) *QuotationStatusChangedEvent {
	return &QuotationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationStatusChanged, AggregateTypeQuotation, q.ID, q.TenantID),
		Status:          q.Status,
	}
}
