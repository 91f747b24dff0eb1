package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRepository persists clients
type ClientRepository interface {
	Save(ctx context.Context, client *Client) error

	// FindByID returns the client even when soft-deleted
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)

	// FindByIDs loads several clients; missing IDs are skipped
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Client, error)

	// FindAll lists non-deleted clients
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ClientFilter) ([]*Client, int64, error)

	// UpdateLocation stores geocoded coordinates without bumping the version
	UpdateLocation(ctx context.Context, tenantID, id uuid.UUID, lat, lng float64) error
}

// ClientFilter holds list criteria for clients
type ClientFilter struct {
	Search        string
	Status        *ClientStatus
	Category      *ClientCategory
	BranchID      *uuid.UUID
	AssignedRepID *uuid.UUID
	Page          int
	PageSize      int
}

// LeadRepository persists leads
type LeadRepository interface {
	Save(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Lead, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter LeadFilter) ([]*Lead, int64, error)

	// FindOpen lists non-deleted pending or in-review leads, used for rescoring
	FindOpen(ctx context.Context, tenantID uuid.UUID) ([]*Lead, error)

	// Summarize counts leads per status and averages their score
	Summarize(ctx context.Context, tenantID uuid.UUID, filter LeadFilter) (*LeadSummary, error)
}

// LeadFilter holds list criteria for leads
type LeadFilter struct {
	Search   string
	Status   *LeadStatus
	OwnerID  *uuid.UUID
	BranchID *uuid.UUID
	MinScore *int

	// CreatedFrom and CreatedTo bound created_at inclusively
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	Page     int
	PageSize int
}

// LeadSummary is the aggregate used by the leads report
type LeadSummary struct {
	ByStatus     map[LeadStatus]int64
	AverageScore float64
	TotalBudget  decimal.Decimal
}

// QuotationRepository persists quotations
type QuotationRepository interface {
	Save(ctx context.Context, q *Quotation) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter QuotationFilter) ([]*Quotation, int64, error)

	// NextNumber returns the next sequential quotation number for the tenant
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// QuotationFilter holds list criteria for quotations
type QuotationFilter struct {
	ClientID *uuid.UUID
	Status   *QuotationStatus
	Page     int
	PageSize int
}
