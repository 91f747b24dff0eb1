package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// QuotationService prepares and tracks quotations
type QuotationService struct {
	quotations crm.QuotationRepository
	clients    crm.ClientRepository
	currency   valueobject.Currency
	locale     string
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewQuotationService creates a new QuotationService. currency and locale
// come from the currency config section.
func NewQuotationService(
	quotations crm.QuotationRepository,
	clients crm.ClientRepository,
	currency valueobject.Currency,
	locale string,
	publisher shared.EventPublisher,
	log *zap.Logger,
) *QuotationService {
	if log == nil {
		log = zap.NewNop()
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &QuotationService{
		quotations: quotations,
		clients:    clients,
		currency:   currency,
		locale:     locale,
		publisher:  publisher,
		logger:     log.Named("quotation_service"),
	}
}

// Create prepares a draft quotation for an existing client. It publishes
// QuotationCreated.
func (s *QuotationService) Create(ctx context.Context, tenantID, preparedBy uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	client, err := s.clients.FindByID(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Client is deleted")
	}

	number, err := s.quotations.NextNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]crm.QuotationItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, crm.QuotationItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	q, err := crm.NewQuotation(tenantID, client.ID, preparedBy, number, s.currency, items)
	if err != nil {
		return nil, err
	}
	q.Notes = req.Notes

	if err := s.quotations.Save(ctx, q); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, q)
	logger.Enrich(ctx, s.logger).Info("Quotation created",
		zap.String("quotation_id", q.ID.String()),
		zap.String("number", q.QuotationNumber),
		zap.String("total", q.Total.StringFixed(2)),
	)
	resp := ToQuotationResponse(q, s.locale)
	return &resp, nil
}

// GetByID returns a quotation
func (s *QuotationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotations.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q, s.locale)
	return &resp, nil
}

// List returns quotations
func (s *QuotationService) List(ctx context.Context, tenantID uuid.UUID, req ListQuotationsRequest) ([]QuotationResponse, int64, error) {
	filter := crm.QuotationFilter{ClientID: req.ClientID, Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		st := crm.QuotationStatus(req.Status)
		filter.Status = &st
	}
	qs, total, err := s.quotations.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]QuotationResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, ToQuotationResponse(q, s.locale))
	}
	return out, total, nil
}

// ChangeStatus moves a quotation through its workflow
func (s *QuotationService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeQuotationStatusRequest) (*QuotationResponse, error) {
	q, err := s.quotations.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := q.ChangeStatus(crm.QuotationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.quotations.Save(ctx, q); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, q)
	resp := ToQuotationResponse(q, s.locale)
	return &resp, nil
}
