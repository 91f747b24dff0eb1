package claim

import (
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Category of an expense claim
type Category string

const (
	CategoryGeneral       Category = "GENERAL"
	CategoryTravel        Category = "TRAVEL"
	CategoryTransport     Category = "TRANSPORT"
	CategoryAccommodation Category = "ACCOMMODATION"
	CategoryMeals         Category = "MEALS"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryOther         Category = "OTHER"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryTravel, CategoryTransport, CategoryAccommodation,
		CategoryMeals, CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// Status of a claim
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusDeclined  Status = "DECLINED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDeclined, StatusCancelled},
	StatusApproved: {StatusPaid},
}

// CanTransitionTo reports whether the workflow allows moving to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Claim is an expense reimbursement request
type Claim struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	UserID        uuid.UUID
	BranchID      *uuid.UUID
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	Category      Category
	Comments      string
	AttachmentKey string
	Status        Status
	ReviewedBy    *uuid.UUID
	ReviewComment string
}

// NewClaim submits a pending claim
func NewClaim(tenantID, userID uuid.UUID, branchID *uuid.UUID, amount decimal.Decimal, currency valueobject.Currency, category Category, comments, attachmentKey string) (*Claim, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Claim amount must be greater than zero")
	}
	if category == "" {
		category = CategoryGeneral
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown claim category")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	c := &Claim{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		BranchID:            branchID,
		Amount:              amount.Round(2),
		Currency:            currency,
		Category:            category,
		Comments:            strings.TrimSpace(comments),
		AttachmentKey:       attachmentKey,
		Status:              StatusPending,
	}
	c.SetCreatedBy(userID)
	c.AddDomainEvent(NewClaimSubmittedEvent(c))
	return c, nil
}

// ChangeStatus moves the claim through its workflow
func (c *Claim) ChangeStatus(next Status, reviewerID uuid.UUID, comment string) error {
	if c.Deleted() {
		return shared.NewDomainError("INVALID_STATE", "Claim is deleted")
	}
	if !c.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE", "Claim cannot move from "+string(c.Status)+" to "+string(next))
	}
	from := c.Status
	c.Status = next
	if next != StatusCancelled {
		c.ReviewedBy = &reviewerID
		c.ReviewComment = strings.TrimSpace(comment)
	}
	c.IncrementVersion()
	c.AddDomainEvent(NewClaimStatusChangedEvent(c, from))
	return nil
}

// Delete soft-deletes the claim
func (c *Claim) Delete() error {
	if c.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Claim is already deleted")
	}
	c.MarkDeleted()
	c.IncrementVersion()
	return nil
}
