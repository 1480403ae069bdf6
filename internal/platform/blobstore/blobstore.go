// Package blobstore stores hospital verification documents. It defines the
// DocumentStore interface and an in-memory implementation used in
// development and tests; a cloud-backed implementation can be swapped in
// behind the same interface.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed document size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedContentTypes lists the accepted verification document MIME types.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// DocumentMetadata describes a stored verification document.
type DocumentMetadata struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
	UploadedBy  string    `json:"uploaded_by"`
}

// DocumentStore is the contract for verification document backends.
type DocumentStore interface {
	Upload(ctx context.Context, meta DocumentMetadata, content io.Reader) (*DocumentMetadata, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *DocumentMetadata, error)
	GetMetadata(ctx context.Context, id string) (*DocumentMetadata, error)
	Delete(ctx context.Context, id string) error
}

type storedDocument struct {
	metadata DocumentMetadata
	content  []byte
}

// InMemoryStore is a thread-safe in-memory DocumentStore.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*storedDocument
}

// NewInMemoryStore returns a ready-to-use InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string]*storedDocument)}
}

// Upload validates inputs, reads the content, computes a SHA-256 hash, and
// stores the document in memory.
func (s *InMemoryStore) Upload(_ context.Context, meta DocumentMetadata, content io.Reader) (*DocumentMetadata, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}
	if !AllowedContentTypes[meta.ContentType] {
		return nil, ErrInvalidContentType
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)

	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.docs[meta.ID] = &storedDocument{metadata: meta, content: data}
	s.mu.Unlock()

	out := meta // copy
	return &out, nil
}

// Download returns a reader over the document content and its metadata.
func (s *InMemoryStore) Download(_ context.Context, id string) (io.ReadCloser, *DocumentMetadata, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrDocumentNotFound
	}

	meta := doc.metadata // copy
	return io.NopCloser(bytes.NewReader(doc.content)), &meta, nil
}

// GetMetadata returns document metadata without content.
func (s *InMemoryStore) GetMetadata(_ context.Context, id string) (*DocumentMetadata, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrDocumentNotFound
	}

	meta := doc.metadata // copy
	return &meta, nil
}

// Delete removes a document by ID.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}
