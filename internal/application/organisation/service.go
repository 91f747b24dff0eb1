package organisation

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrganisationService manages tenants
type OrganisationService struct {
	orgs      organisation.OrganisationRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrganisationService creates a new OrganisationService
func NewOrganisationService(orgs organisation.OrganisationRepository, publisher shared.EventPublisher, log *zap.Logger) *OrganisationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrganisationService{orgs: orgs, publisher: publisher, logger: log.Named("organisation_service")}
}

// Create registers a new organisation
func (s *OrganisationService) Create(ctx context.Context, req CreateOrganisationRequest) (*OrganisationResponse, error) {
	org, err := organisation.NewOrganisation(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	addr := valueobject.Address{}
	if req.Address != nil {
		if addr, err = req.Address.ToAddress(); err != nil {
			return nil, err
		}
	}
	if err := org.Update(req.Name, req.Email, req.Phone, req.Website, req.Logo, addr); err != nil {
		return nil, err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, org)
	logger.Enrich(ctx, s.logger).Info("Organisation created", zap.String("organisation_id", org.ID.String()))

	resp := ToOrganisationResponse(org)
	return &resp, nil
}

// GetByID returns an organisation, including soft-deleted ones
func (s *OrganisationService) GetByID(ctx context.Context, id uuid.UUID) (*OrganisationResponse, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrganisationResponse(org)
	return &resp, nil
}

// List returns non-deleted organisations
func (s *OrganisationService) List(ctx context.Context, req common.ListRequest) ([]OrganisationResponse, int64, error) {
	orgs, total, err := s.orgs.FindAll(ctx, req.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrganisationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, ToOrganisationResponse(o))
	}
	return out, total, nil
}

// Update applies a partial update
func (s *OrganisationService) Update(ctx context.Context, id uuid.UUID, req UpdateOrganisationRequest) (*OrganisationResponse, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Organisation is deleted")
	}

	name, email, phone, website, logo, addr := org.Name, org.Email, org.Phone, org.Website, org.Logo, org.Address
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Website != nil {
		website = *req.Website
	}
	if req.Logo != nil {
		logo = *req.Logo
	}
	if req.Address != nil {
		if addr, err = req.Address.ToAddress(); err != nil {
			return nil, err
		}
	}
	if err := org.Update(name, email, phone, website, logo, addr); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := org.SetStatus(organisation.Status(*req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		return nil, err
	}
	resp := ToOrganisationResponse(org)
	return &resp, nil
}

// Delete soft-deletes an organisation
func (s *OrganisationService) Delete(ctx context.Context, id uuid.UUID) error {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := org.Delete(); err != nil {
		return err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("Organisation deleted", zap.String("organisation_id", id.String()))
	return nil
}

func publish(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, aggs ...shared.AggregateRoot) {
	if err := shared.PublishPending(ctx, publisher, aggs...); err != nil {
		logger.Enrich(ctx, log).Warn("Failed to publish events", zap.Error(err))
	}
}
