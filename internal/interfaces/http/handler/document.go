package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	docapp "github.com/loro/backend/internal/application/document"
)

// DocService is the document upload and retrieval use case
type DocService interface {
	RequestUpload(ctx context.Context, tenantID, ownerID uuid.UUID, branchID *uuid.UUID, req docapp.UploadURLRequest) (*docapp.UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, tenantID, id uuid.UUID) (*docapp.DocResponse, error)
	GetDownloadURL(ctx context.Context, tenantID, id uuid.UUID) (*docapp.DownloadURLResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, req docapp.ListDocsRequest) ([]docapp.DocResponse, int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// DocHandler serves /docs
type DocHandler struct {
	BaseHandler
	svc DocService
}

// NewDocHandler creates a DocHandler
func NewDocHandler(svc DocService) *DocHandler {
	return &DocHandler{svc: svc}
}

// RequestUpload godoc
// @Summary      Presign a document upload
// @Description  Creates a PENDING document and returns a presigned PUT URL. Confirm the upload afterwards.
// @Tags         docs
// @Accept       json
// @Produce      json
// @Param        request body docapp.UploadURLRequest true "Document metadata"
// @Success      201 {object} APIResponse[docapp.UploadURLResponse]
// @Security     BearerAuth
// @Router       /docs/upload-url [post]
func (h *DocHandler) RequestUpload(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req docapp.UploadURLRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.svc.RequestUpload(c.Request.Context(), p.TenantID, p.UserID, p.BranchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, res)
}

// ConfirmUpload marks a pending document active
func (h *DocHandler) ConfirmUpload(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.ConfirmUpload(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// DownloadURL returns a presigned GET URL for an active document
func (h *DocHandler) DownloadURL(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetDownloadURL(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

func (h *DocHandler) List(c *gin.Context) {
	p, ok := h.Principal(c)
	if !ok {
		return
	}
	var req docapp.ListDocsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	docs, total, err := h.svc.List(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(req.Page, req.PageSize)
	h.SuccessWithMeta(c, docs, total, page, size)
}

func (h *DocHandler) Delete(c *gin.Context) {
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
