package organisation

import (
	"github.com/loro/backend/internal/domain/shared"
)

const (
	AggregateTypeOrganisation = "Organisation"
	AggregateTypeBranch       = "Branch"
)

const (
	EventTypeOrganisationCreated = "OrganisationCreated"
	EventTypeBranchCreated       = "BranchCreated"
	EventTypeBranchUpdated       = "BranchUpdated"
	EventTypeBranchDeleted       = "BranchDeleted"
)

// OrganisationCreatedEvent is raised when a tenant is registered
type OrganisationCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewOrganisationCreatedEvent creates a new OrganisationCreatedEvent
func NewOrganisationCreatedEvent(o *Organisation) *OrganisationCreatedEvent {
	return &OrganisationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganisationCreated, AggregateTypeOrganisation, o.ID, o.ID),
		Name:            o.Name,
	}
}

// BranchCreatedEvent is raised when a branch is opened
type BranchCreatedEvent struct {
	shared.BaseDomainEvent
	Name          string `json:"name"`
	ReferenceCode string `json:"reference_code"`
}

// NewBranchCreatedEvent creates a new BranchCreatedEvent
func NewBranchCreatedEvent(b *Branch) *BranchCreatedEvent {
	return &BranchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchCreated, AggregateTypeBranch, b.ID, b.TenantID),
		Name:            b.Name,
		ReferenceCode:   b.ReferenceCode,
	}
}

// BranchUpdatedEvent is raised when a branch changes. Route planning listens
// for AddressChanged to drop its cached branch lookup.
type BranchUpdatedEvent struct {
	shared.BaseDomainEvent
	Name           string `json:"name"`
	AddressChanged bool   `json:"address_changed"`
}

// NewBranchUpdatedEvent creates a new BranchUpdatedEvent
func NewBranchUpdatedEvent(b *Branch, addressChanged bool) *BranchUpdatedEvent {
	return &BranchUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchUpdated, AggregateTypeBranch, b.ID, b.TenantID),
		Name:            b.Name,
		AddressChanged:  addressChanged,
	}
}

// BranchDeletedEvent is raised when a branch is soft-deleted
type BranchDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewBranchDeletedEvent creates a new BranchDeletedEvent
func NewBranchDeletedEvent(b *Branch) *BranchDeletedEvent {
	return &BranchDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchDeleted, AggregateTypeBranch, b.ID, b.TenantID),
	}
}
