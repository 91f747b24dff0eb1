package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/attendance"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// VisitService records client check-ins made by field staff
type VisitService struct {
	visits    attendance.CheckInRepository
	clients   crm.ClientRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewVisitService creates a new VisitService
func NewVisitService(visits attendance.CheckInRepository, clients crm.ClientRepository, publisher shared.EventPublisher, log *zap.Logger) *VisitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VisitService{
		visits:    visits,
		clients:   clients,
		publisher: publisher,
		logger:    log.Named("visit_service"),
		now:       time.Now,
	}
}

// Start records arrival at a client
func (s *VisitService) Start(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req StartVisitRequest) (*VisitResponse, error) {
	loc, err := common.OptionalCoordinates(req.Location)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Deleted() {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client is deleted")
	}
	if branchID == nil {
		branchID = client.BranchID
	}

	v, err := attendance.NewCheckIn(tenantID, userID, client.ID, branchID, s.now(), loc, req.PhotoKey, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.visits.Save(ctx, v); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, v); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish visit events", zap.Error(err))
	}
	logger.Enrich(ctx, s.logger).Info("Client visit started",
		zap.String("check_in_id", v.ID.String()),
		zap.String("client_id", client.ID.String()),
	)
	resp := ToVisitResponse(v)
	return &resp, nil
}

// End records departure. Only the user who started the visit may end it.
func (s *VisitService) End(ctx context.Context, tenantID, userID, id uuid.UUID, req EndVisitRequest) (*VisitResponse, error) {
	loc, err := common.OptionalCoordinates(req.Location)
	if err != nil {
		return nil, err
	}
	v, err := s.visits.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, shared.NewDomainError("FORBIDDEN", "Visit belongs to another user")
	}
	if err := v.CheckOut(s.now(), loc, req.Notes); err != nil {
		return nil, err
	}
	if err := s.visits.Save(ctx, v); err != nil {
		return nil, err
	}
	resp := ToVisitResponse(v)
	return &resp, nil
}

// GetByID returns a single visit
func (s *VisitService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*VisitResponse, error) {
	v, err := s.visits.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToVisitResponse(v)
	return &resp, nil
}

// List returns visits, newest first
func (s *VisitService) List(ctx context.Context, tenantID uuid.UUID, req ListVisitsRequest) ([]VisitResponse, int64, error) {
	if req.From != nil && req.To != nil {
		if _, err := shared.NewDateRange(*req.From, *req.To); err != nil {
			return nil, 0, err
		}
	}
	filter := attendance.CheckInFilter{
		UserID:   req.UserID,
		ClientID: req.ClientID,
		From:     req.From,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.To != nil {
		end := shared.StartOfDay(*req.To).Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	list, total, err := s.visits.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]VisitResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToVisitResponse(v))
	}
	return out, total, nil
}
