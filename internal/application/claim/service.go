package claim

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ClaimService files and reviews expense claims
type ClaimService struct {
	claims    claim.ClaimRepository
	currency  valueobject.Currency
	locale    string
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewClaimService creates a new ClaimService. Claims are filed in currency.
func NewClaimService(claims claim.ClaimRepository, currency valueobject.Currency, locale string, publisher shared.EventPublisher, log *zap.Logger) *ClaimService {
	if log == nil {
		log = zap.NewNop()
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &ClaimService{
		claims:    claims,
		currency:  currency,
		locale:    locale,
		publisher: publisher,
		logger:    log.Named("claim_service"),
	}
}

// Create files a pending claim for the calling user
func (s *ClaimService) Create(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req CreateClaimRequest) (*ClaimResponse, error) {
	c, err := claim.NewClaim(tenantID, userID, branchID, req.Amount, s.currency, claim.Category(req.Category), req.Comments, req.AttachmentKey)
	if err != nil {
		return nil, err
	}
	if err := s.claims.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)
	logger.Enrich(ctx, s.logger).Info("Claim submitted",
		zap.String("claim_id", c.ID.String()),
		zap.String("amount", c.Amount.StringFixed(2)),
	)
	resp := ToClaimResponse(c, s.locale)
	return &resp, nil
}

// GetByID returns a claim, including soft-deleted ones
func (s *ClaimService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClaimResponse, error) {
	c, err := s.claims.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToClaimResponse(c, s.locale)
	return &resp, nil
}

// List returns non-deleted claims
func (s *ClaimService) List(ctx context.Context, tenantID uuid.UUID, req ListClaimsRequest) ([]ClaimResponse, int64, error) {
	if req.From != nil && req.To != nil {
		if _, err := shared.NewDateRange(*req.From, *req.To); err != nil {
			return nil, 0, err
		}
	}
	filter := claim.Filter{
		UserID:   req.UserID,
		BranchID: req.BranchID,
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		st := claim.Status(req.Status)
		filter.Status = &st
	}
	if req.Category != "" {
		cat := claim.Category(req.Category)
		filter.Category = &cat
	}
	list, total, err := s.claims.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClaimResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToClaimResponse(c, s.locale))
	}
	return out, total, nil
}

// ChangeStatus moves a claim through its workflow. Only the claimant may
// cancel; reviewing needs at least the MANAGER role.
func (s *ClaimService) ChangeStatus(ctx context.Context, tenantID, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID, req ChangeClaimStatusRequest) (*ClaimResponse, error) {
	c, err := s.claims.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	next := claim.Status(req.Status)
	if next == claim.StatusCancelled {
		if c.UserID != actorID {
			return nil, shared.NewDomainError("FORBIDDEN", "Only the claimant can cancel a claim")
		}
	} else if !actorRole.AtLeast(identity.RoleManager) {
		return nil, shared.NewDomainError("FORBIDDEN", "Reviewing claims requires the MANAGER role")
	}

	if err := c.ChangeStatus(next, actorID, req.Comment); err != nil {
		return nil, err
	}
	if err := s.claims.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)
	logger.Enrich(ctx, s.logger).Info("Claim status changed",
		zap.String("claim_id", c.ID.String()),
		zap.String("status", string(c.Status)),
	)
	resp := ToClaimResponse(c, s.locale)
	return &resp, nil
}

// Delete soft-deletes a claim
func (s *ClaimService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.claims.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := c.Delete(); err != nil {
		return err
	}
	return s.claims.Save(ctx, c)
}

func (s *ClaimService) publish(ctx context.Context, c *claim.Claim) {
	if err := shared.PublishPending(ctx, s.publisher, c); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish claim events", zap.Error(err))
	}
}
