package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/document"
)

// UploadURLRequest is the body of POST /docs/upload-url
type UploadURLRequest struct {
	Title       string     `json:"title" binding:"max=200"`
	Description string     `json:"description" binding:"max=2000"`
	FileName    string     `json:"file_name" binding:"required,max=255"`
	ContentType string     `json:"content_type" binding:"required"`
	FileSize    int64      `json:"file_size" binding:"required,min=1"`
	BranchID    *uuid.UUID `json:"branch_id"`
}

// UploadURLResponse carries the pending document and where to PUT its bytes
type UploadURLResponse struct {
	Document  DocResponse `json:"document"`
	UploadURL string      `json:"upload_url"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// DownloadURLResponse carries a presigned GET URL
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListDocsRequest holds the query of GET /docs
type ListDocsRequest struct {
	OwnerID  *uuid.UUID `form:"owner_id,parser=encoding.TextUnmarshaler"`
	BranchID *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING ACTIVE"`
	Search   string     `form:"search"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DocResponse is the API view of a document
type DocResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	FileSize    int64      `json:"file_size"`
	StorageKey  string     `json:"storage_key"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	Status      string     `json:"status"`
	IsDeleted   bool       `json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToDocResponse converts a domain document
func ToDocResponse(d *document.Doc) DocResponse {
	return DocResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		FileSize:    d.FileSize,
		StorageKey:  d.StorageKey,
		OwnerID:     d.OwnerID,
		BranchID:    d.BranchID,
		Status:      string(d.Status),
		IsDeleted:   d.Deleted(),
		CreatedAt:   d.CreatedAt,
	}
}
