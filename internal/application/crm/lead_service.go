package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LeadService manages leads, their scores and conversion into clients
type LeadService struct {
	leads     crm.LeadRepository
	clients   crm.ClientRepository
	scorer    *crm.LeadScoringService
	tx        shared.TxManager
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leads crm.LeadRepository,
	clients crm.ClientRepository,
	scorer *crm.LeadScoringService,
	tx shared.TxManager,
	publisher shared.EventPublisher,
	log *zap.Logger,
) *LeadService {
	if log == nil {
		log = zap.NewNop()
	}
	if scorer == nil {
		scorer = crm.NewLeadScoringService(crm.DefaultScoreWeights)
	}
	return &LeadService{
		leads:     leads,
		clients:   clients,
		scorer:    scorer,
		tx:        tx,
		publisher: publisher,
		logger:    log.Named("lead_service"),
		now:       time.Now,
	}
}

// Create adds a lead owned by ownerID and scores it
func (s *LeadService) Create(ctx context.Context, tenantID, ownerID uuid.UUID, req CreateLeadRequest) (*LeadResponse, error) {
	l, err := crm.NewLead(tenantID, ownerID, req.Name, req.Email, req.Phone, crm.LeadSource(req.Source))
	if err != nil {
		return nil, err
	}
	l.BranchID = req.BranchID
	l.Notes = req.Notes
	if req.Temperature != "" || req.Budget != nil {
		temp := l.Temperature
		if req.Temperature != "" {
			temp = crm.LeadTemperature(req.Temperature)
		}
		budget := l.Budget
		if req.Budget != nil {
			budget = *req.Budget
		}
		if err := l.Qualify(temp, budget); err != nil {
			return nil, err
		}
	}
	s.scorer.ScoreLead(l)

	if err := s.leads.Save(ctx, l); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, l)
	logger.Enrich(ctx, s.logger).Info("Lead created", zap.String("lead_id", l.ID.String()), zap.Int("score", l.Score))
	resp := ToLeadResponse(l)
	return &resp, nil
}

// GetByID returns a lead, including soft-deleted ones
func (s *LeadService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LeadResponse, error) {
	l, err := s.leads.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(l)
	return &resp, nil
}

// List returns non-deleted leads
func (s *LeadService) List(ctx context.Context, tenantID uuid.UUID, req ListLeadsRequest) ([]LeadResponse, int64, error) {
	filter := crm.LeadFilter{
		Search:   req.Search,
		OwnerID:  req.OwnerID,
		BranchID: req.BranchID,
		MinScore: req.MinScore,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		st := crm.LeadStatus(req.Status)
		filter.Status = &st
	}
	leads, total, err := s.leads.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out, total, nil
}

// Update qualifies the lead, records activity or moves it along, then rescores
func (s *LeadService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	l, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Temperature != nil || req.Budget != nil {
		temp, budget := l.Temperature, l.Budget
		if req.Temperature != nil {
			temp = crm.LeadTemperature(*req.Temperature)
		}
		if req.Budget != nil {
			budget = *req.Budget
		}
		if err := l.Qualify(temp, budget); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		l.Notes = *req.Notes
	}
	if req.RecordActivity {
		l.RecordActivity(s.now())
	}
	if req.Status != nil {
		switch crm.LeadStatus(*req.Status) {
		case crm.LeadStatusReview:
			err = l.MoveToReview()
		case crm.LeadStatusDeclined:
			err = l.Decline()
		default:
			err = shared.NewDomainError("INVALID_STATE", "Use the convert endpoint to convert a lead")
		}
		if err != nil {
			return nil, err
		}
	}
	s.scorer.ScoreLead(l)

	if err := s.leads.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLeadResponse(l)
	return &resp, nil
}

// Convert creates a client from the lead and links the two in one transaction
func (s *LeadService) Convert(ctx context.Context, tenantID, actorID, id uuid.UUID, req ConvertLeadRequest) (*ConvertLeadResponse, error) {
	l, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	addr, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	c, err := crm.NewClient(tenantID, l.Name, l.Email, addr)
	if err != nil {
		return nil, err
	}
	c.SetCreatedBy(actorID)
	c.BranchID = l.BranchID
	owner := l.OwnerID
	c.AssignedRepID = &owner
	if err := c.UpdateContact(c.Name, l.Name, c.Email, l.Phone); err != nil {
		return nil, err
	}
	if req.Category != "" {
		if err := c.SetCategory(crm.ClientCategory(req.Category)); err != nil {
			return nil, err
		}
	}
	if err := l.Convert(c.ID); err != nil {
		return nil, err
	}

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.clients.Save(ctx, c); err != nil {
			return err
		}
		return s.leads.Save(ctx, l)
	}); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, c, l)

	logger.Enrich(ctx, s.logger).Info("Lead converted",
		zap.String("lead_id", l.ID.String()),
		zap.String("client_id", c.ID.String()),
	)
	return &ConvertLeadResponse{Lead: ToLeadResponse(l), Client: ToClientResponse(c)}, nil
}

// Score recomputes and stores the score of one lead
func (s *LeadService) Score(ctx context.Context, tenantID, id uuid.UUID) (*ScoreResponse, error) {
	l, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	b := s.scorer.ScoreLead(l)
	if err := s.leads.Save(ctx, l); err != nil {
		return nil, err
	}
	return &ScoreResponse{LeadID: l.ID, Breakdown: b}, nil
}

// RescoreAll rescores every open lead of a tenant. Leads that fail to save
// are logged and skipped.
func (s *LeadService) RescoreAll(ctx context.Context, tenantID uuid.UUID) (RescoreResult, error) {
	leads, err := s.leads.FindOpen(ctx, tenantID)
	if err != nil {
		return RescoreResult{}, err
	}
	log := logger.Enrich(ctx, s.logger)
	var res RescoreResult
	for _, l := range leads {
		before := l.Score
		s.scorer.ScoreLead(l)
		if err := s.leads.Save(ctx, l); err != nil {
			log.Warn("Failed to save lead score", zap.String("lead_id", l.ID.String()), zap.Error(err))
			continue
		}
		res.Scored++
		if l.Score != before {
			res.Changed++
		}
	}
	log.Info("Leads rescored", zap.Int("scored", res.Scored), zap.Int("changed", res.Changed))
	return res, nil
}

// Delete soft-deletes a lead
func (s *LeadService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	l, err := s.leads.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := l.Delete(); err != nil {
		return err
	}
	return s.leads.Save(ctx, l)
}

func (s *LeadService) load(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	l, err := s.leads.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if l.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Lead is deleted")
	}
	return l, nil
}
