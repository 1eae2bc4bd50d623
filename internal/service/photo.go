package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	"github.com/shoeboxapp/shoebox-server/internal/media/images"
	"github.com/shoeboxapp/shoebox-server/internal/search"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// PhotoService handles photo metadata, file serving, and index upkeep.
type PhotoService struct {
	store   *store.Store
	storage *images.Storage
	index   *search.SearchIndex
	logger  *slog.Logger
}

// NewPhotoService creates a new photo service.
func NewPhotoService(st *store.Store, storage *images.Storage, index *search.SearchIndex, logger *slog.Logger) *PhotoService {
	return &PhotoService{
		store:   st,
		storage: storage,
		index:   index,
		logger:  logger,
	}
}

// List returns photos matching the filter.
func (s *PhotoService) List(ctx context.Context, filter store.PhotoFilter) ([]*domain.Photo, error) {
	return s.store.ListPhotos(ctx, filter)
}

// Get returns one photo by id.
func (s *PhotoService) Get(ctx context.Context, id int) (*domain.Photo, error) {
	return s.store.GetPhoto(ctx, id)
}

// CreatePhotoRequest carries the fields for creating a photo record from
// metadata alone. Uploads that carry the file itself go through
// UploadService; this path records photos whose files already exist
// (imports, migrations). Album membership is deliberately absent: linking
// goes through album operations so the mapping stays bidirectional.
type CreatePhotoRequest struct {
	UserID      int      `json:"userId" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"omitempty,max=256"`
	Description string   `json:"description" validate:"omitempty,max=4096"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=64"`
	Filename    string   `json:"filename" validate:"omitempty,max=256"`
	Filepath    string   `json:"filepath" validate:"omitempty,max=1024"`
	IsFavorite  bool     `json:"isFavorite"`
	BlurHash    string   `json:"blurHash" validate:"omitempty,max=128"`
}

// Create inserts a photo record and indexes it. The store assigns the id
// and upload timestamp.
func (s *PhotoService) Create(ctx context.Context, req CreatePhotoRequest) (*domain.Photo, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	photo, err := s.store.CreatePhoto(ctx, &domain.Photo{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Filename:    req.Filename,
		Filepath:    req.Filepath,
		IsFavorite:  req.IsFavorite,
		BlurHash:    req.BlurHash,
	})
	if err != nil {
		return nil, err
	}

	if err := s.index.IndexPhoto(search.PhotoToDocument(photo)); err != nil {
		s.logger.Warn("failed to index created photo",
			"photo_id", photo.ID,
			"error", err,
		)
	}

	s.logger.Info("photo created", "photo_id", photo.ID, "user_id", photo.UserID)
	return photo, nil
}

// UpdatePhotoRequest contains the editable photo fields. Absent fields are
// left unchanged. Album membership is managed through album operations.
type UpdatePhotoRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=256"`
	Description *string   `json:"description" validate:"omitempty,max=4096"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,max=64"`
	IsFavorite  *bool     `json:"isFavorite"`
}

// Update applies a partial update and refreshes the search index.
func (s *PhotoService) Update(ctx context.Context, id int, req UpdatePhotoRequest) (*domain.Photo, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	photo, err := s.store.UpdatePhoto(ctx, id, store.PhotoPatch{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		IsFavorite:  req.IsFavorite,
	})
	if err != nil {
		return nil, err
	}

	if err := s.index.IndexPhoto(search.PhotoToDocument(photo)); err != nil {
		// The store is the source of truth; a stale index entry is
		// corrected on the next reindex.
		s.logger.Warn("failed to reindex photo after update",
			"photo_id", photo.ID,
			"error", err,
		)
	}

	return photo, nil
}

// Delete removes the photo record, its file on disk, and its index entry.
// Album back-references are stripped by the store in the same transaction
// as the record removal.
func (s *PhotoService) Delete(ctx context.Context, id int) error {
	photo, err := s.store.DeletePhoto(ctx, id)
	if err != nil {
		return err
	}

	if photo.Filename != "" {
		if err := s.storage.Delete(photo.Filename); err != nil {
			s.logger.Warn("failed to delete photo file",
				"photo_id", id,
				"filename", photo.Filename,
				"error", err,
			)
		}
	}

	if err := s.index.DeletePhoto(strconv.Itoa(id)); err != nil {
		s.logger.Warn("failed to remove photo from search index",
			"photo_id", id,
			"error", err,
		)
	}

	s.logger.Info("photo deleted", "photo_id", id)
	return nil
}

// File opens the stored file for a photo, returning the open handle and
// its content type. The caller closes the file.
func (s *PhotoService) File(ctx context.Context, id int) (*os.File, string, error) {
	photo, err := s.store.GetPhoto(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f, err := s.storage.Open(photo.Filename)
	if err != nil {
		return nil, "", err
	}
	return f, images.ContentType(photo.Filename), nil
}

// Reindex rebuilds the search index from the store. Called at startup so
// the index never drifts from the document across restarts.
func (s *PhotoService) Reindex(ctx context.Context) error {
	photos, err := s.store.ListPhotos(ctx, store.PhotoFilter{})
	if err != nil {
		return fmt.Errorf("list photos for reindex: %w", err)
	}

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	docs := make([]*search.PhotoDocument, len(photos))
	for i, p := range photos {
		docs[i] = search.PhotoToDocument(p)
	}
	if err := s.index.IndexPhotos(docs); err != nil {
		return fmt.Errorf("reindex photos: %w", err)
	}

	s.logger.Info("search index rebuilt", "photos", len(photos))
	return nil
}
