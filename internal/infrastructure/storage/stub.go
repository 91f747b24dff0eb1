package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	docapp "github.com/loro/backend/internal/application/document"
)

// StubObjectStorage fakes presigned URLs for development. Every key is
// reported as present until deleted.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.Mutex
	deleted map[string]bool
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.loro.local",
		deleted: make(map[string]bool),
	}
}

var _ docapp.ObjectStorage = (*StubObjectStorage)(nil)

// GenerateUploadURL implements ObjectStorage
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("upload", storageKey, expiresIn)
}

// GenerateDownloadURL implements ObjectStorage
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("download", storageKey, expiresIn)
}

func (s *StubObjectStorage) url(op, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + op + "/" + url.PathEscape(storageKey) + "?" + q.Encode(), expiresAt, nil
}

// DeleteObject implements ObjectStorage
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	s.deleted[storageKey] = true
	s.mu.Unlock()
	return nil
}

// ObjectExists implements ObjectStorage
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.deleted[storageKey], nil
}
