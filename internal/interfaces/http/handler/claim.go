package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	claimapp "github.com/loro/backend/internal/application/claim"
	"github.com/loro/backend/internal/domain/identity"
)

// ClaimService is the expense claim use case
type ClaimService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req claimapp.CreateClaimRequest) (*claimapp.ClaimResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*claimapp.ClaimResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req claimapp.ListClaimsRequest) ([]claimapp.ClaimResponse, int64, error)
	ChangeStatus(ctx context.Context, tenantID, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID, req claimapp.ChangeClaimStatusRequest) (*claimapp.ClaimResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ClaimHandler serves /claims
type ClaimHandler struct {
	BaseHandler
	svc ClaimService
}

// NewClaimHandler creates a ClaimHandler
func NewClaimHandler(svc ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

// Create godoc
// @Summary      Submit claim
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        request body claimapp.CreateClaimRequest true "Claim"
// @Success      201 {object} APIResponse[claimapp.ClaimResponse]
// @Failure      400 {object} ErrorResponse "Amount must be positive"
// @Security     BearerAuth
// @Router       /claims [post]
func (h *ClaimHandler) Create(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req claimapp.CreateClaimRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cl, err := h.svc.Create(c.Request.Context(), p.TenantID, p.UserID, p.BranchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cl)
}

// List lists claims. Field users only see their own.
func (h *ClaimHandler) List(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req claimapp.ListClaimsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.UserID = scopeToSelf(p.Role, p.UserID, req.UserID)
	claims, total, err := h.svc.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, claims, total, page, size)
}

// GetByID returns one claim
func (h *ClaimHandler) GetByID(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	cl, err := h.svc.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cl)
}

// ChangeStatus godoc
// @Summary      Change claim status
// @Description  PENDING to APPROVED, DECLINED or CANCELLED; APPROVED to PAID
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body claimapp.ChangeClaimStatusRequest true "Status"
// @Success      200 {object} APIResponse[claimapp.ClaimResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /claims/{id}/status [patch]
func (h *ClaimHandler) ChangeStatus(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req claimapp.ChangeClaimStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cl, err := h.svc.ChangeStatus(c.Request.Context(), p.TenantID, p.UserID, p.Role, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cl)
}

// Delete soft-deletes a claim
func (h *ClaimHandler) Delete(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
