package organisation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

var refCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-]{1,31}$`)

// Branch is an office of an organisation. Users, tasks and clients belong to a
// branch, and routes start from the branch address.
type Branch struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Name          string
	ReferenceCode string
	Email         string
	Phone         string
	Address       valueobject.Address
	// Location is set when known; otherwise the address is geocoded.
	Location *valueobject.Coordinates
	Status   Status
}

// NewBranch creates a branch for the organisation identified by tenantID
func NewBranch(tenantID uuid.UUID, name, referenceCode string, address valueobject.Address) (*Branch, error) {
	if err := validateName(name, "INVALID_BRANCH_NAME"); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(referenceCode))
	if !refCodeRegex.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_REFERENCE_CODE", "Reference code must be 2-32 uppercase letters, digits, '-' or '_'")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Branch address is required")
	}

	b := &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		ReferenceCode:       code,
		Address:             address,
		Status:              StatusActive,
	}
	b.AddDomainEvent(NewBranchCreatedEvent(b))
	return b, nil
}

// SetContact updates the contact details
func (b *Branch) SetContact(email, phone string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	b.Email = strings.ToLower(strings.TrimSpace(email))
	b.Phone = strings.TrimSpace(phone)
	b.IncrementVersion()
	return nil
}

// Rename changes the display name
func (b *Branch) Rename(name string) error {
	if err := validateName(name, "INVALID_BRANCH_NAME"); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.IncrementVersion()
	b.AddDomainEvent(NewBranchUpdatedEvent(b, false))
	return nil
}

// Relocate changes the address. Any known coordinates are dropped unless
// location is given, and a BranchUpdated event with AddressChanged is raised.
func (b *Branch) Relocate(address valueobject.Address, location *valueobject.Coordinates) error {
	if address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Branch address is required")
	}
	changed := !b.Address.Equals(address)
	b.Address = address
	b.Location = location
	b.IncrementVersion()
	b.AddDomainEvent(NewBranchUpdatedEvent(b, changed || location != nil))
	return nil
}

// SetStatus changes the branch status
func (b *Branch) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown branch status")
	}
	b.Status = status
	b.IncrementVersion()
	return nil
}

// Delete soft-deletes the branch
func (b *Branch) Delete() error {
	if b.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Branch is already deleted")
	}
	b.MarkDeleted()
	b.IncrementVersion()
	b.AddDomainEvent(NewBranchDeletedEvent(b))
	return nil
}
