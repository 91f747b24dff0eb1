package licensing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LicenseRepository persists licenses. Licenses are looked up across tenants
// because the key itself identifies the organisation.
type LicenseRepository interface {
	Save(ctx context.Context, l *License) error
	FindByID(ctx context.Context, id uuid.UUID) (*License, error)
	FindByKey(ctx context.Context, key string) (*License, error)
	FindByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*License, error)
	FindAll(ctx context.Context, filter Filter) ([]*License, int64, error)

	// FindExpiring returns active licenses whose valid_until is before now
	FindExpiring(ctx context.Context, now time.Time) ([]*License, error)
}

// Filter holds list criteria for licenses
type Filter struct {
	OrganisationID *uuid.UUID
	Status         *Status
	Plan           *Plan
	Page           int
	PageSize       int
}
