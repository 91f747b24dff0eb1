package document

import (
	"context"

	"github.com/google/uuid"
)

// DocRepository persists document metadata
type DocRepository interface {
	Save(ctx context.Context, d *Doc) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Doc, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]*Doc, int64, error)
}

// Filter holds list criteria for documents
type Filter struct {
	OwnerID  *uuid.UUID
	BranchID *uuid.UUID
	Status   *Status
	Search   string
	Page     int
	PageSize int
}
