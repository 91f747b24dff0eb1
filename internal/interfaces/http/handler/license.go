package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	licenseapp "github.com/loro/backend/internal/application/licensing"
)

// LicenseService is the license administration use case
type LicenseService interface {
	Create(ctx context.Context, req licenseapp.CreateLicenseRequest) (*licenseapp.LicenseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*licenseapp.LicenseResponse, error)
	List(ctx context.Context, req licenseapp.ListLicensesRequest) ([]licenseapp.LicenseResponse, int64, error)
	Validate(ctx context.Context, key string) (*licenseapp.ValidationResponse, error)
	Suspend(ctx context.Context, id uuid.UUID) (*licenseapp.LicenseResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*licenseapp.LicenseResponse, error)
	Renew(ctx context.Context, id uuid.UUID, req licenseapp.RenewLicenseRequest) (*licenseapp.LicenseResponse, error)
}

// LicenseHandler serves /licenses
type LicenseHandler struct {
	BaseHandler
	svc LicenseService
}

// NewLicenseHandler creates a LicenseHandler
func NewLicenseHandler(svc LicenseService) *LicenseHandler {
	return &LicenseHandler{svc: svc}
}

// Create godoc
// @Summary      Issue a license
// @Description  Issues a new license key for an organisation. Plan defaults fill max_users and max_branches when omitted.
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        request body licenseapp.CreateLicenseRequest true "License"
// @Success      201 {object} APIResponse[licenseapp.LicenseResponse]
// @Failure      404 {object} ErrorResponse "Organisation not found"
// @Security     BearerAuth
// @Router       /licenses [post]
func (h *LicenseHandler) Create(c *gin.Context) {
	var req licenseapp.CreateLicenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	l, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, l)
}

func (h *LicenseHandler) List(c *gin.Context) {
	var req licenseapp.ListLicensesRequest
	if !h.BindQuery(c, &req) {
		return
	}
	rows, total, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, rows, total, page, size)
}

func (h *LicenseHandler) GetByID(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	l, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Validate godoc
// @Summary      Validate a license key
// @Description  Always 200 for a well-formed request; valid=false carries the reason
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        request body licenseapp.ValidateLicenseRequest true "Key"
// @Success      200 {object} APIResponse[licenseapp.ValidationResponse]
// @Security     BearerAuth
// @Router       /licenses/validate [post]
func (h *LicenseHandler) Validate(c *gin.Context) {
	var req licenseapp.ValidateLicenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.svc.Validate(c.Request.Context(), req.LicenseKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

func (h *LicenseHandler) Suspend(c *gin.Context) {
	h.transition(c, h.svc.Suspend)
}

func (h *LicenseHandler) Activate(c *gin.Context) {
	h.transition(c, h.svc.Activate)
}

func (h *LicenseHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*licenseapp.LicenseResponse, error)) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	l, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Renew extends a license by whole months
func (h *LicenseHandler) Renew(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req licenseapp.RenewLicenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	l, err := h.svc.Renew(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}
