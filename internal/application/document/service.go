package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/document"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultPresignExpiry applies when no expiry is configured
const DefaultPresignExpiry = 15 * time.Minute

// DocService manages document metadata. File bytes never pass through the
// API; clients use presigned URLs.
type DocService struct {
	docs    document.DocRepository
	storage ObjectStorage
	expiry  time.Duration
	logger  *zap.Logger
}

// NewDocService creates a new DocService
func NewDocService(docs document.DocRepository, storage ObjectStorage, expiry time.Duration, log *zap.Logger) *DocService {
	if log == nil {
		log = zap.NewNop()
	}
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &DocService{docs: docs, storage: storage, expiry: expiry, logger: log.Named("doc_service")}
}

// RequestUpload creates a pending document and returns a presigned PUT URL
func (s *DocService) RequestUpload(ctx context.Context, tenantID, ownerID uuid.UUID, branchID *uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	if req.BranchID != nil {
		branchID = req.BranchID
	}
	d, err := document.NewDoc(tenantID, ownerID, branchID, req.Title, req.Description, req.FileName, req.ContentType, req.FileSize)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, d.StorageKey, d.ContentType, s.expiry)
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to presign upload", err)
	}
	if err := s.docs.Save(ctx, d); err != nil {
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info("Document upload requested",
		zap.String("doc_id", d.ID.String()),
		zap.String("storage_key", d.StorageKey),
	)
	return &UploadURLResponse{Document: ToDocResponse(d), UploadURL: url, ExpiresAt: expiresAt}, nil
}

// ConfirmUpload activates a pending document once its object exists
func (s *DocService) ConfirmUpload(ctx context.Context, tenantID, id uuid.UUID) (*DocResponse, error) {
	d, err := s.docs.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if d.Deleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Document is deleted")
	}
	exists, err := s.storage.ObjectExists(ctx, d.StorageKey)
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to check uploaded object", err)
	}
	if !exists {
		return nil, shared.NewDomainError("INVALID_STATE", "File has not been uploaded")
	}
	if err := d.Activate(); err != nil {
		return nil, err
	}
	if err := s.docs.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDocResponse(d)
	return &resp, nil
}

// GetByID returns document metadata, including soft-deleted documents
func (s *DocService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DocResponse, error) {
	d, err := s.docs.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocResponse(d)
	return &resp, nil
}

// GetDownloadURL returns a presigned GET URL for an active document
func (s *DocService) GetDownloadURL(ctx context.Context, tenantID, id uuid.UUID) (*DownloadURLResponse, error) {
	d, err := s.docs.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !d.IsDownloadable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Document is not available for download")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, d.StorageKey, s.expiry)
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to presign download", err)
	}
	return &DownloadURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

// List returns non-deleted documents
func (s *DocService) List(ctx context.Context, tenantID uuid.UUID, req ListDocsRequest) ([]DocResponse, int64, error) {
	filter := document.Filter{
		OwnerID:  req.OwnerID,
		BranchID: req.BranchID,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		st := document.Status(req.Status)
		filter.Status = &st
	}
	list, total, err := s.docs.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DocResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToDocResponse(d))
	}
	return out, total, nil
}

// Delete soft-deletes the document and removes the stored object. A failed
// object removal is logged; the metadata stays deleted.
func (s *DocService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	d, err := s.docs.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := d.Delete(); err != nil {
		return err
	}
	if err := s.docs.Save(ctx, d); err != nil {
		return fmt.Errorf("save deleted document: %w", err)
	}
	if err := s.storage.DeleteObject(ctx, d.StorageKey); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to delete stored object",
			zap.String("storage_key", d.StorageKey),
			zap.Error(err),
		)
	}
	return nil
}
