// Package images provides photo file storage and placeholder generation.
package images

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shoeboxapp/shoebox-server/internal/id"
)

// allowedExtensions lists the image formats accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Storage manages photo files on the filesystem.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at basePath.
// Photo files are stored flat in {basePath}/, created if missing.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// BasePath returns the directory photos are stored in.
func (s *Storage) BasePath() string {
	return s.basePath
}

// AllowedExtension reports whether the file extension is an accepted
// image format. Comparison is case-insensitive.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// GenerateFilename produces a unique stored filename for an upload,
// preserving the original extension: {unix-ms}-{random}{ext}.
// The original name never touches the filesystem, so no sanitization
// of the client-supplied part is needed.
func GenerateFilename(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix, err := id.Suffix()
	if err != nil {
		return "", fmt.Errorf("generate filename suffix: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext), nil
}

// Save streams the upload to disk under the given stored filename and
// returns the full path. The filename must come from GenerateFilename.
func (s *Storage) Save(filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(filename)

	//#nosec G304 -- filename is server-generated, not client-supplied
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close photo file: %w", err)
	}

	return path, nil
}

// Open opens a stored photo for reading. The caller closes it.
func (s *Storage) Open(filename string) (*os.File, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	//#nosec G304 -- filename is server-generated, not client-supplied
	f, err := os.Open(s.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("photo file not found: %s: %w", filename, err)
		}
		return nil, fmt.Errorf("failed to open photo file: %w", err)
	}
	return f, nil
}

// Exists checks if a stored photo file is present.
func (s *Storage) Exists(filename string) bool {
	if filename == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes a stored photo file. Missing files are not an error.
func (s *Storage) Delete(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete photo file: %w", err)
	}
	return nil
}

// Hash computes the SHA256 of a stored photo.
// Returns a hex-encoded string suitable for ETag validation.
func (s *Storage) Hash(filename string) (string, error) {
	f, err := s.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash photo file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Path returns the full filesystem path for a stored filename.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filepath.Base(filename))
}

// ContentType maps a stored filename's extension to a MIME type.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
