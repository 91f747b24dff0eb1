package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeadStatus tracks a lead through qualification
type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "PENDING"
	LeadStatusReview    LeadStatus = "REVIEW"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusDeclined  LeadStatus = "DECLINED"
)

// LeadSource is where a lead came from
type LeadSource string

const (
	LeadSourceReferral LeadSource = "REFERRAL"
	LeadSourceWebsite  LeadSource = "WEBSITE"
	LeadSourceWalkIn   LeadSource = "WALK_IN"
	LeadSourceColdCall LeadSource = "COLD_CALL"
	LeadSourceSocial   LeadSource = "SOCIAL_MEDIA"
	LeadSourceEvent    LeadSource = "EVENT"
	LeadSourceOther    LeadSource = "OTHER"
)

// LeadTemperature is the sales rep's judgement of interest
type LeadTemperature string

const (
	LeadTemperatureHot  LeadTemperature = "HOT"
	LeadTemperatureWarm LeadTemperature = "WARM"
	LeadTemperatureCold LeadTemperature = "COLD"
)

// Lead is a prospective client
type Lead struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	BranchID       *uuid.UUID
	OwnerID        uuid.UUID
	ClientID       *uuid.UUID
	Name           string
	Email          string
	Phone          string
	Notes          string
	Source         LeadSource
	Temperature    LeadTemperature
	Status         LeadStatus
	Budget         decimal.Decimal
	ActivityCount  int
	LastActivityAt *time.Time
	Score          int
	ScoredAt       *time.Time
}

// NewLead creates a pending lead owned by ownerID
func NewLead(tenantID, ownerID uuid.UUID, name, email, phone string, source LeadSource) (*Lead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_LEAD_NAME", "Lead name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if strings.TrimSpace(phone) == "" && email == "" {
		return nil, shared.NewDomainError("INVALID_LEAD_CONTACT", "Lead needs an email or a phone number")
	}
	if source == "" {
		source = LeadSourceOther
	}

	l := &Lead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OwnerID:             ownerID,
		Name:                name,
		Email:               email,
		Phone:               strings.TrimSpace(phone),
		Source:              source,
		Temperature:         LeadTemperatureCold,
		Status:              LeadStatusPending,
		Budget:              decimal.Zero,
	}
	l.SetCreatedBy(ownerID)
	l.AddDomainEvent(NewLeadCreatedEvent(l))
	return l, nil
}

// Qualify records the interest level and budget
func (l *Lead) Qualify(temperature LeadTemperature, budget decimal.Decimal) error {
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	switch temperature {
	case LeadTemperatureHot, LeadTemperatureWarm, LeadTemperatureCold:
	default:
		return shared.NewDomainError("INVALID_TEMPERATURE", "Unknown lead temperature")
	}
	l.Temperature = temperature
	l.Budget = budget
	l.IncrementVersion()
	return nil
}

// RecordActivity counts a touchpoint (call, visit, email)
func (l *Lead) RecordActivity(at time.Time) {
	l.ActivityCount++
	l.LastActivityAt = &at
	l.IncrementVersion()
}

// ApplyScore stores a score computed by LeadScoringService
func (l *Lead) ApplyScore(score int, at time.Time) {
	l.Score = score
	l.ScoredAt = &at
}

// MoveToReview puts the lead up for review
func (l *Lead) MoveToReview() error {
	if l.Status != LeadStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending leads can be reviewed")
	}
	l.Status = LeadStatusReview
	l.IncrementVersion()
	return nil
}

// Decline closes the lead without a client
func (l *Lead) Decline() error {
	if l.Status == LeadStatusConverted || l.Status == LeadStatusDeclined {
		return shared.NewDomainError("INVALID_STATE", "Lead is already closed")
	}
	l.Status = LeadStatusDeclined
	l.IncrementVersion()
	return nil
}

// Convert links the lead to the client created from it
func (l *Lead) Convert(clientID uuid.UUID) error {
	if l.Status == LeadStatusConverted || l.Status == LeadStatusDeclined {
		return shared.NewDomainError("INVALID_STATE", "Lead is already closed")
	}
	if l.Deleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot convert a deleted lead")
	}
	l.Status = LeadStatusConverted
	l.ClientID = &clientID
	l.IncrementVersion()
	l.AddDomainEvent(NewLeadConvertedEvent(l))
	return nil
}

// Delete soft-deletes the lead
func (l *Lead) Delete() error {
	if l.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Lead is already deleted")
	}
	l.MarkDeleted()
	l.IncrementVersion()
	return nil
}
