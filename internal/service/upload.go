package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	domainerrors "github.com/shoeboxapp/shoebox-server/internal/errors"
	"github.com/shoeboxapp/shoebox-server/internal/media/images"
	"github.com/shoeboxapp/shoebox-server/internal/search"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// UploadService ingests photo files: stores the bytes, computes the
// BlurHash placeholder, and creates the photo record.
type UploadService struct {
	store   *store.Store
	storage *images.Storage
	index   *search.SearchIndex
	logger  *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(st *store.Store, storage *images.Storage, index *search.SearchIndex, logger *slog.Logger) *UploadService {
	return &UploadService{
		store:   st,
		storage: storage,
		index:   index,
		logger:  logger,
	}
}

// UploadRequest carries the metadata accompanying an uploaded file.
type UploadRequest struct {
	UserID      int      `json:"userId" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"omitempty,max=256"`
	Description string   `json:"description" validate:"omitempty,max=4096"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=64"`
}

// Upload stores the file and creates the photo record. The original
// filename is kept as metadata only; the stored name is server-generated.
// A BlurHash failure downgrades to a photo without a placeholder rather
// than failing the upload.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest, originalName string, file io.Reader) (*domain.Photo, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if !images.AllowedExtension(originalName) {
		return nil, domainerrors.Validationf("unsupported image format: %s", originalName)
	}

	storedName, err := images.GenerateFilename(originalName)
	if err != nil {
		return nil, domainerrors.UploadFailed("could not generate filename").WithCause(err)
	}

	path, err := s.storage.Save(storedName, file)
	if err != nil {
		return nil, domainerrors.UploadFailed("could not store file").WithCause(err)
	}

	blurHash, err := images.ComputeBlurHash(path)
	if err != nil {
		s.logger.Warn("failed to compute blurhash",
			"filename", storedName,
			"error", err,
		)
		blurHash = ""
	}

	title := req.Title
	if title == "" {
		title = originalName
	}

	photo, err := s.store.CreatePhoto(ctx, &domain.Photo{
		UserID:      req.UserID,
		Title:       title,
		Description: req.Description,
		Tags:        req.Tags,
		Filename:    storedName,
		Filepath:    path,
		BlurHash:    blurHash,
	})
	if err != nil {
		// The record is the source of truth; without it the stored
		// file is an orphan, so clean it up.
		if delErr := s.storage.Delete(storedName); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				"filename", storedName,
				"error", delErr,
			)
		}
		return nil, err
	}

	if err := s.index.IndexPhoto(search.PhotoToDocument(photo)); err != nil {
		s.logger.Warn("failed to index uploaded photo",
			"photo_id", photo.ID,
			"error", err,
		)
	}

	s.logger.Info("photo uploaded",
		"photo_id", photo.ID,
		"user_id", photo.UserID,
		"filename", storedName,
	)
	return photo, nil
}
