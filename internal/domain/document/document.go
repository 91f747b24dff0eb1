package document

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// Status of a stored document
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
)

// MaxFileSize caps uploads at 50MB
const MaxFileSize int64 = 50 << 20

var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"image/webp":         true,
	"text/plain":         true,
	"text/csv":           true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

// Doc is a file kept in object storage
type Doc struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Title       string
	Description string
	FileName    string
	ContentType string
	FileSize    int64
	StorageKey  string
	OwnerID     uuid.UUID
	BranchID    *uuid.UUID
	Status      Status
}

// NewDoc creates a pending document and assigns its storage key
func NewDoc(tenantID, ownerID uuid.UUID, branchID *uuid.UUID, title, description, fileName, contentType string, size int64) (*Doc, error) {
	title = strings.TrimSpace(title)
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name is required")
	}
	if title == "" {
		title = fileName
	}
	if !allowedContentTypes[contentType] {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type "+contentType+" is not allowed")
	}
	if size <= 0 || size > MaxFileSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", fmt.Sprintf("File size must be between 1 and %d bytes", MaxFileSize))
	}

	d := &Doc{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Description:         strings.TrimSpace(description),
		FileName:            fileName,
		ContentType:         contentType,
		FileSize:            size,
		OwnerID:             ownerID,
		BranchID:            branchID,
		Status:              StatusPending,
	}
	d.StorageKey = StorageKey(tenantID, d.ID, fileName)
	d.SetCreatedBy(ownerID)
	return d, nil
}

// StorageKey is the object key for a document: <tenant>/docs/<id>/<file>
func StorageKey(tenantID, docID uuid.UUID, fileName string) string {
	return path.Join(tenantID.String(), "docs", docID.String(), fileName)
}

// Activate marks the upload as complete
func (d *Doc) Activate() error {
	if d.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Document upload is already confirmed")
	}
	d.Status = StatusActive
	d.IncrementVersion()
	return nil
}

// IsDownloadable reports whether the object can be served
func (d *Doc) IsDownloadable() bool {
	return d.Status == StatusActive && !d.Deleted()
}

// Delete soft-deletes the document
func (d *Doc) Delete() error {
	if d.Deleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Document is already deleted")
	}
	d.MarkDeleted()
	d.IncrementVersion()
	return nil
}
