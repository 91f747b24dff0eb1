package organisation

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// OrganisationRepository persists organisations
type OrganisationRepository interface {
	// FindByID returns the organisation, including soft-deleted ones
	FindByID(ctx context.Context, id uuid.UUID) (*Organisation, error)

	// FindAll lists non-deleted organisations
	FindAll(ctx context.Context, filter shared.Filter) ([]*Organisation, int64, error)

	// Save creates or updates an organisation
	Save(ctx context.Context, org *Organisation) error
}

// BranchRepository persists branches
type BranchRepository interface {
	// FindByID returns the branch regardless of the deleted flag
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)

	// FindByReferenceCode finds a branch by its unique code within the tenant
	FindByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (*Branch, error)

	// FindAll lists non-deleted branches of a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Branch, int64, error)

	// ExistsByReferenceCode checks code uniqueness within a tenant
	ExistsByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// CountActive counts non-deleted branches of a tenant
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)

	Save(ctx context.Context, branch *Branch) error
}
