package store

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
)

// FileBackend persists the document as one pretty-printed JSON file on disk,
// the flat-file equivalent of db.json. Saves go through a temp file in the
// same directory followed by a rename, so readers never see a partial write.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend for the given document path.
// The parent directory is created if needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Init creates an empty document file if none exists.
func (b *FileBackend) Init(ctx context.Context) error {
	if _, err := os.Stat(b.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat document: %w", err)
	}
	return b.Save(ctx, NewDocument())
}

// Load reads and parses the whole document.
func (b *FileBackend) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, apperrors.Unavailable("document file unreadable").WithCause(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Unavailable("document file corrupt").WithCause(err)
	}

	doc.normalize()
	return &doc, nil
}

// Save persists the whole document atomically.
func (b *FileBackend) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".document-*.json")
	if err != nil {
		return apperrors.Unavailable("create temp document").WithCause(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.Unavailable("write temp document").WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.Unavailable("close temp document").WithCause(err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return apperrors.Unavailable("replace document").WithCause(err)
	}

	return nil
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error { return nil }
