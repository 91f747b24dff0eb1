package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	crmapp "github.com/loro/backend/internal/application/crm"
)

// ClientService is the client management use case
type ClientService interface {
	Create(ctx context.Context, tenantID, creatorID uuid.UUID, req crmapp.CreateClientRequest) (*crmapp.ClientResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.ClientResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req crmapp.ListClientsRequest) ([]crmapp.ClientResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req crmapp.UpdateClientRequest) (*crmapp.ClientResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// LeadService is the lead pipeline use case
type LeadService interface {
	Create(ctx context.Context, tenantID, ownerID uuid.UUID, req crmapp.CreateLeadRequest) (*crmapp.LeadResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.LeadResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req crmapp.ListLeadsRequest) ([]crmapp.LeadResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req crmapp.UpdateLeadRequest) (*crmapp.LeadResponse, error)
	Convert(ctx context.Context, tenantID, actorID, id uuid.UUID, req crmapp.ConvertLeadRequest) (*crmapp.ConvertLeadResponse, error)
	Score(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.ScoreResponse, error)
	RescoreAll(ctx context.Context, tenantID uuid.UUID) (crmapp.RescoreResult, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// QuotationService is the quotation use case
type QuotationService interface {
	Create(ctx context.Context, tenantID, preparedBy uuid.UUID, req crmapp.CreateQuotationRequest) (*crmapp.QuotationResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.QuotationResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req crmapp.ListQuotationsRequest) ([]crmapp.QuotationResponse, int64, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req crmapp.ChangeQuotationStatusRequest) (*crmapp.QuotationResponse, error)
}

// CRMHandler serves /clients, /leads and /quotations
type CRMHandler struct {
	BaseHandler
	clients    ClientService
	leads      LeadService
	quotations QuotationService
}

// NewCRMHandler creates a CRMHandler
func NewCRMHandler(clients ClientService, leads LeadService, quotations QuotationService) *CRMHandler {
	return &CRMHandler{clients: clients, leads: leads, quotations: quotations}
}

// CreateClient godoc
// @Summary      Create client
// @Description  Coordinates are geocoded from the address when not supplied
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateClientRequest true "Client"
// @Success      201 {object} APIResponse[crmapp.ClientResponse]
// @Security     BearerAuth
// @Router       /clients [post]
func (h *CRMHandler) CreateClient(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req crmapp.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.BranchID == nil {
		req.BranchID = p.BranchID
	}
	client, err := h.clients.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// ListClients lists clients
func (h *CRMHandler) ListClients(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req crmapp.ListClientsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	clients, total, err := h.clients.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, clients, total, page, size)
}

// GetClient returns one client
func (h *CRMHandler) GetClient(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// UpdateClient applies a partial update
func (h *CRMHandler) UpdateClient(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req crmapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	client, err := h.clients.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// DeleteClient soft-deletes a client
func (h *CRMHandler) DeleteClient(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateLead creates a lead owned by the caller and scores it
func (h *CRMHandler) CreateLead(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req crmapp.CreateLeadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.BranchID == nil {
		req.BranchID = p.BranchID
	}
	lead, err := h.leads.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lead)
}

// ListLeads lists leads
func (h *CRMHandler) ListLeads(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req crmapp.ListLeadsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	leads, total, err := h.leads.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, leads, total, page, size)
}

// GetLead returns one lead
func (h *CRMHandler) GetLead(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	lead, err := h.leads.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// UpdateLead applies a partial update
func (h *CRMHandler) UpdateLead(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req crmapp.UpdateLeadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	lead, err := h.leads.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// ConvertLead godoc
// @Summary      Convert lead
// @Description  Creates a client from the lead and links it; a converted lead cannot be converted again
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body crmapp.ConvertLeadRequest true "Client address"
// @Success      200 {object} APIResponse[crmapp.ConvertLeadResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *CRMHandler) ConvertLead(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req crmapp.ConvertLeadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.leads.Convert(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ScoreLead recomputes the score of one lead
func (h *CRMHandler) ScoreLead(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.leads.Score(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RescoreLeads recomputes the score of every open lead of the tenant
func (h *CRMHandler) RescoreLeads(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	res, err := h.leads.RescoreAll(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// DeleteLead soft-deletes a lead
func (h *CRMHandler) DeleteLead(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.leads.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateQuotation godoc
// @Summary      Create quotation
// @Description  Totals are computed from the items; connected clients of the tenant receive a newQuotation message
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateQuotationRequest true "Quotation"
// @Success      201 {object} APIResponse[crmapp.QuotationResponse]
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *CRMHandler) CreateQuotation(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req crmapp.CreateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.quotations.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// ListQuotations lists quotations
func (h *CRMHandler) ListQuotations(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req crmapp.ListQuotationsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	qs, total, err := h.quotations.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, qs, total, page, size)
}

// GetQuotation returns one quotation
func (h *CRMHandler) GetQuotation(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	q, err := h.quotations.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ChangeQuotationStatus moves a quotation along DRAFT, SENT, APPROVED or REJECTED
func (h *CRMHandler) ChangeQuotationStatus(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req crmapp.ChangeQuotationStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.quotations.ChangeStatus(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}
