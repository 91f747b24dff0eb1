package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	orgapp "github.com/loro/backend/internal/application/organisation"
)

// OrganisationService is the tenant management use case
type OrganisationService interface {
	Create(ctx context.Context, req orgapp.CreateOrganisationRequest) (*orgapp.OrganisationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*orgapp.OrganisationResponse, error)
	List(ctx context.Context, req common.ListRequest) ([]orgapp.OrganisationResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req orgapp.UpdateOrganisationRequest) (*orgapp.OrganisationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BranchService is the branch management use case
type BranchService interface {
	Create(ctx context.Context, tenantID, creatorID uuid.UUID, req orgapp.CreateBranchRequest) (*orgapp.BranchResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*orgapp.BranchResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req common.ListRequest) ([]orgapp.BranchResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req orgapp.UpdateBranchRequest) (*orgapp.BranchResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrganisationHandler serves /organisations and /branches
type OrganisationHandler struct {
	BaseHandler
	orgs     OrganisationService
	branches BranchService
}

// NewOrganisationHandler creates an OrganisationHandler
func NewOrganisationHandler(orgs OrganisationService, branches BranchService) *OrganisationHandler {
	return &OrganisationHandler{orgs: orgs, branches: branches}
}

// CreateOrganisation godoc
// @Summary      Create organisation
// @Tags         organisations
// @Accept       json
// @Produce      json
// @Param        request body orgapp.CreateOrganisationRequest true "Organisation"
// @Success      201 {object} APIResponse[orgapp.OrganisationResponse]
// @Security     BearerAuth
// @Router       /organisations [post]
func (h *OrganisationHandler) CreateOrganisation(c *gin.Context) {
	var req orgapp.CreateOrganisationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	org, err := h.orgs.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// ListOrganisations lists organisations
func (h *OrganisationHandler) ListOrganisations(c *gin.Context) {
	var req common.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	orgs, total, err := h.orgs.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, orgs, total, page, size)
}

// GetOrganisation returns one organisation
func (h *OrganisationHandler) GetOrganisation(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	org, err := h.orgs.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// UpdateOrganisation applies a partial update
func (h *OrganisationHandler) UpdateOrganisation(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req orgapp.UpdateOrganisationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	org, err := h.orgs.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// DeleteOrganisation soft-deletes an organisation
func (h *OrganisationHandler) DeleteOrganisation(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orgs.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateBranch godoc
// @Summary      Create branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body orgapp.CreateBranchRequest true "Branch"
// @Success      201 {object} APIResponse[orgapp.BranchResponse]
// @Failure      403 {object} ErrorResponse "License branch limit reached"
// @Security     BearerAuth
// @Router       /branches [post]
func (h *OrganisationHandler) CreateBranch(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req orgapp.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	b, err := h.branches.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// ListBranches lists the caller's branches
func (h *OrganisationHandler) ListBranches(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req common.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	branches, total, err := h.branches.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, branches, total, page, size)
}

// GetBranch returns one branch
func (h *OrganisationHandler) GetBranch(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	b, err := h.branches.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// UpdateBranch applies a partial update; an address change invalidates
// cached branch coordinates.
func (h *OrganisationHandler) UpdateBranch(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req orgapp.UpdateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	b, err := h.branches.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// DeleteBranch soft-deletes a branch
func (h *OrganisationHandler) DeleteBranch(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.branches.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
