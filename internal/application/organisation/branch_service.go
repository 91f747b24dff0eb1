package organisation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// BranchService manages the branches of a tenant
type BranchService struct {
	branches  organisation.BranchRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(branches organisation.BranchRepository, publisher shared.EventPublisher, log *zap.Logger) *BranchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BranchService{branches: branches, publisher: publisher, logger: log.Named("branch_service")}
}

// Create adds a branch. Reference codes are unique per tenant.
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, creatorID uuid.UUID, req CreateBranchRequest) (*BranchResponse, error) {
	exists, err := s.branches.ExistsByReferenceCode(ctx, tenantID, strings.ToUpper(strings.TrimSpace(req.ReferenceCode)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CONFLICT", "Branch with this reference code already exists")
	}

	addr, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	b, err := organisation.NewBranch(tenantID, req.Name, req.ReferenceCode, addr)
	if err != nil {
		return nil, err
	}
	b.SetCreatedBy(creatorID)
	if err := b.SetContact(req.Email, req.Phone); err != nil {
		return nil, err
	}
	if b.Location, err = common.OptionalCoordinates(req.Location); err != nil {
		return nil, err
	}

	if err := s.branches.Save(ctx, b); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, b)
	logger.Enrich(ctx, s.logger).Info("Branch created",
		zap.String("branch_id", b.ID.String()),
		zap.String("reference_code", b.ReferenceCode),
	)
	resp := ToBranchResponse(b)
	return &resp, nil
}

// GetByID returns a branch, including soft-deleted ones
func (s *BranchService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	b, err := s.branches.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// List returns non-deleted branches
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, req common.ListRequest) ([]BranchResponse, int64, error) {
	branches, total, err := s.branches.FindAll(ctx, tenantID, req.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, ToBranchResponse(b))
	}
	return out, total, nil
}

// Update applies a partial update. An address or location change raises
// BranchUpdated with AddressChanged so cached branch origins are dropped.
func (s *BranchService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	b, err := s.branches.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if b.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Branch is deleted")
	}

	if req.Name != nil {
		if err := b.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil || req.Phone != nil {
		email, phone := b.Email, b.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := b.SetContact(email, phone); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.Location != nil {
		addr := b.Address
		if req.Address != nil {
			if addr, err = req.Address.ToAddress(); err != nil {
				return nil, err
			}
		}
		loc, err := common.OptionalCoordinates(req.Location)
		if err != nil {
			return nil, err
		}
		if err := b.Relocate(addr, loc); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := b.SetStatus(organisation.Status(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.branches.Save(ctx, b); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, b)
	resp := ToBranchResponse(b)
	return &resp, nil
}

// Delete soft-deletes a branch
func (s *BranchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	b, err := s.branches.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := b.Delete(); err != nil {
		return err
	}
	if err := s.branches.Save(ctx, b); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.logger, b)
	return nil
}
