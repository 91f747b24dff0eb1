package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/route"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ClientService manages clients
type ClientService struct {
	clients   crm.ClientRepository
	geocoder  route.Geocoder
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewClientService creates a new ClientService. geocoder may be nil, in which
// case locations are only stored when the caller supplies them.
func NewClientService(clients crm.ClientRepository, geocoder route.Geocoder, publisher shared.EventPublisher, log *zap.Logger) *ClientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClientService{clients: clients, geocoder: geocoder, publisher: publisher, logger: log.Named("client_service")}
}

// Create adds a client
func (s *ClientService) Create(ctx context.Context, tenantID, creatorID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	addr, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	c, err := crm.NewClient(tenantID, req.Name, req.Email, addr)
	if err != nil {
		return nil, err
	}
	c.SetCreatedBy(creatorID)
	if err := c.UpdateContact(c.Name, req.ContactPerson, c.Email, req.Phone); err != nil {
		return nil, err
	}
	if req.Category != "" {
		if err := c.SetCategory(crm.ClientCategory(req.Category)); err != nil {
			return nil, err
		}
	}
	c.BranchID = req.BranchID
	c.AssignedRepID = req.AssignedRepID

	loc, err := common.OptionalCoordinates(req.Location)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		c.SetLocation(*loc)
	} else {
		s.geocode(ctx, c)
	}

	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, c)
	logger.Enrich(ctx, s.logger).Info("Client created", zap.String("client_id", c.ID.String()))
	resp := ToClientResponse(c)
	return &resp, nil
}

// GetByID returns a client, including soft-deleted ones
func (s *ClientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(c)
	return &resp, nil
}

// List returns non-deleted clients
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, req ListClientsRequest) ([]ClientResponse, int64, error) {
	filter := crm.ClientFilter{
		Search:        req.Search,
		BranchID:      req.BranchID,
		AssignedRepID: req.AssignedRepID,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.Status != "" {
		st := crm.ClientStatus(req.Status)
		filter.Status = &st
	}
	if req.Category != "" {
		cat := crm.ClientCategory(req.Category)
		filter.Category = &cat
	}
	clients, total, err := s.clients.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, ToClientResponse(c))
	}
	return out, total, nil
}

// Update applies a partial update. A new address without a location is
// geocoded again.
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Client is deleted")
	}

	if req.Name != nil || req.ContactPerson != nil || req.Email != nil || req.Phone != nil {
		name, contact, email, phone := c.Name, c.ContactPerson, c.Email, c.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.ContactPerson != nil {
			contact = *req.ContactPerson
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := c.UpdateContact(name, contact, email, phone); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if err := c.SetCategory(crm.ClientCategory(*req.Category)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		c.SetStatus(crm.ClientStatus(*req.Status))
	}
	if req.BranchID != nil {
		c.BranchID = req.BranchID
	}
	if req.AssignedRepID != nil {
		c.AssignRep(req.AssignedRepID)
	}
	if req.Address != nil {
		addr, err := req.Address.ToAddress()
		if err != nil {
			return nil, err
		}
		c.Relocate(addr)
	}
	loc, err := common.OptionalCoordinates(req.Location)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		c.SetLocation(*loc)
	} else if c.Location == nil {
		s.geocode(ctx, c)
	}

	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClientResponse(c)
	return &resp, nil
}

// Delete soft-deletes a client
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.clients.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := c.Delete(); err != nil {
		return err
	}
	return s.clients.Save(ctx, c)
}

// geocode fills the location when a geocoder is configured. Failures are
// logged only; route planning geocodes again on demand.
func (s *ClientService) geocode(ctx context.Context, c *crm.Client) {
	if s.geocoder == nil || c.Address.IsEmpty() {
		return
	}
	loc, err := s.geocoder.Geocode(ctx, c.Address.FullAddress())
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Client geocoding failed",
			zap.String("client_id", c.ID.String()),
			zap.Error(err),
		)
		return
	}
	c.SetLocation(loc)
}

func publish(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, aggs ...shared.AggregateRoot) {
	if err := shared.PublishPending(ctx, publisher, aggs...); err != nil {
		logger.Enrich(ctx, log).Warn("Failed to publish events", zap.Error(err))
	}
}
