package document

import (
	"context"
	"time"
)

// ObjectStorage issues presigned URLs so clients move file bytes directly
// to and from the object store.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for storageKey
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL for storageKey
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// ObjectExists reports whether an upload landed
	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// DeleteObject removes the stored bytes
	DeleteObject(ctx context.Context, storageKey string) error
}
