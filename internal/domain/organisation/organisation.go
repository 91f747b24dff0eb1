package organisation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// Status of an organisation or branch
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Organisation is the tenant root. Its own ID doubles as the tenant ID of
// everything it owns.
type Organisation struct {
	shared.BaseAggregateRoot
	shared.SoftDelete
	Name    string
	Email   string
	Phone   string
	Website string
	Logo    string
	Address valueobject.Address
	Status  Status
}

// NewOrganisation creates a new active organisation
func NewOrganisation(name, email string) (*Organisation, error) {
	if err := validateName(name, "INVALID_ORGANISATION_NAME"); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	org := &Organisation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Status:            StatusActive,
	}
	org.AddDomainEvent(NewOrganisationCreatedEvent(org))
	return org, nil
}

// TenantID returns the tenant scope of the organisation, which is its own ID
func (o *Organisation) TenantID() uuid.UUID {
	return o.ID
}

// Update changes the contact details
func (o *Organisation) Update(name, email, phone, website, logo string, address valueobject.Address) error {
	if err := validateName(name, "INVALID_ORGANISATION_NAME"); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	o.Name = strings.TrimSpace(name)
	o.Email = strings.ToLower(strings.TrimSpace(email))
	o.Phone = strings.TrimSpace(phone)
	o.Website = strings.TrimSpace(website)
	o.Logo = logo
	o.Address = address
	o.IncrementVersion()
	return nil
}

// SetStatus changes the organisation status
func (o *Organisation) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown organisation status")
	}
	o.Status = status
	o.IncrementVersion()
	return nil
}

// Delete soft-deletes the organisation
func (o *Organisation) Delete() error {
	if o.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Organisation is already deleted")
	}
	o.MarkDeleted()
	o.Status = StatusInactive
	o.IncrementVersion()
	return nil
}

func validateName(name, code string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(code, "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(code, "Name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
