package claim

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimRepository persists claims
type ClaimRepository interface {
	Save(ctx context.Context, c *Claim) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Claim, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]*Claim, int64, error)

	// Summarize sums non-deleted claims grouped by category and status
	Summarize(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]SummaryRow, error)
}

// Filter holds list criteria for claims
type Filter struct {
	UserID   *uuid.UUID
	BranchID *uuid.UUID
	Status   *Status
	Category *Category
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// SummaryRow is one category/status bucket
type SummaryRow struct {
	Category Category
	Status   Status
	Count    int64
	Total    decimal.Decimal
}
