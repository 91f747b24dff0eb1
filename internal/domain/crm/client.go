package crm

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// ClientStatus of a client account
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
	ClientStatusProspect ClientStatus = "PROSPECT"
)

// ClientCategory groups clients for reporting and targeting
type ClientCategory string

const (
	ClientCategoryStandard  ClientCategory = "STANDARD"
	ClientCategoryPremium   ClientCategory = "PREMIUM"
	ClientCategoryVIP       ClientCategory = "VIP"
	ClientCategoryWholesale ClientCategory = "WHOLESALE"
	ClientCategoryRetail    ClientCategory = "RETAIL"
)

// IsValid reports whether c is a known category
func (c ClientCategory) IsValid() bool {
	switch c {
	case ClientCategoryStandard, ClientCategoryPremium, ClientCategoryVIP, ClientCategoryWholesale, ClientCategoryRetail:
		return true
	}
	return false
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Client is a customer site that field staff visit
type Client struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	BranchID      *uuid.UUID
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       valueobject.Address
	// Location caches the geocoded address
	Location      *valueobject.Coordinates
	Category      ClientCategory
	Status        ClientStatus
	AssignedRepID *uuid.UUID
}

// NewClient creates an active client
func NewClient(tenantID uuid.UUID, name, email string, address valueobject.Address) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	c := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		Address:             address,
		Category:            ClientCategoryStandard,
		Status:              ClientStatusActive,
	}
	c.AddDomainEvent(NewClientCreatedEvent(c))
	return c, nil
}

// UpdateContact changes the contact details
func (c *Client) UpdateContact(name, contactPerson, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	c.Name = name
	c.ContactPerson = strings.TrimSpace(contactPerson)
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.IncrementVersion()
	return nil
}

// Relocate changes the address and drops the cached location
func (c *Client) Relocate(address valueobject.Address) {
	if c.Address.Equals(address) {
		return
	}
	c.Address = address
	c.Location = nil
	c.IncrementVersion()
}

// SetLocation stores geocoded coordinates for the current address
func (c *Client) SetLocation(loc valueobject.Coordinates) {
	c.Location = &loc
}

// SetCategory changes the category
func (c *Client) SetCategory(category ClientCategory) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown client category")
	}
	c.Category = category
	c.IncrementVersion()
	return nil
}

// SetStatus changes the status
func (c *Client) SetStatus(status ClientStatus) {
	c.Status = status
	c.IncrementVersion()
}

// AssignRep sets the responsible sales rep
func (c *Client) AssignRep(userID *uuid.UUID) {
	c.AssignedRepID = userID
	c.IncrementVersion()
}

// Delete soft-deletes the client
func (c *Client) Delete() error {
	if c.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Client is already deleted")
	}
	c.MarkDeleted()
	c.IncrementVersion()
	return nil
}
