package service

import (
	"context"
	"log/slog"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// AlbumService handles albums and the share links they carry.
type AlbumService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAlbumService creates a new album service.
func NewAlbumService(st *store.Store, logger *slog.Logger) *AlbumService {
	return &AlbumService{
		store:  st,
		logger: logger,
	}
}

// List returns albums, optionally filtered by owner (0 means all).
func (s *AlbumService) List(ctx context.Context, userID int) ([]*domain.Album, error) {
	return s.store.ListAlbums(ctx, userID)
}

// Get returns one album by id.
func (s *AlbumService) Get(ctx context.Context, id int) (*domain.Album, error) {
	return s.store.GetAlbum(ctx, id)
}

// CreateAlbumRequest contains the data for a new album.
type CreateAlbumRequest struct {
	UserID      int    `json:"userId" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"omitempty,max=4096"`
	PhotoIDs    []int  `json:"photoIds"`
	CoverPhoto  int    `json:"coverPhoto"`
}

// Create makes a new album. The store links the listed photos and mints
// the share link atomically with the insert.
func (s *AlbumService) Create(ctx context.Context, req CreateAlbumRequest) (*domain.Album, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	album, err := s.store.CreateAlbum(ctx, &domain.Album{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		PhotoIDs:    req.PhotoIDs,
		CoverPhoto:  req.CoverPhoto,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("album created",
		"album_id", album.ID,
		"share_id", album.ShareID,
		"photos", len(album.PhotoIDs),
	)
	return album, nil
}

// UpdateAlbumRequest contains the editable album fields. Absent fields are
// left unchanged. The share id is never editable.
type UpdateAlbumRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=256"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
	PhotoIDs    *[]int  `json:"photoIds"`
	CoverPhoto  *int    `json:"coverPhoto"`
}

// Update applies a partial update. Changing the photo list re-syncs both
// sides of the album↔photo mapping inside the store.
func (s *AlbumService) Update(ctx context.Context, id int, req UpdateAlbumRequest) (*domain.Album, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	return s.store.UpdateAlbum(ctx, id, store.AlbumPatch{
		Title:       req.Title,
		Description: req.Description,
		PhotoIDs:    req.PhotoIDs,
		CoverPhoto:  req.CoverPhoto,
	})
}

// Delete removes the album, its photo back-references, and its shares.
func (s *AlbumService) Delete(ctx context.Context, id int) error {
	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		return err
	}
	s.logger.Info("album deleted", "album_id", id)
	return nil
}

// SharedAlbum is the public view behind a share link.
type SharedAlbum struct {
	Album  *domain.Album   `json:"album"`
	Photos []*domain.Photo `json:"photos"`
}

// GetShared resolves a share link to the album and its photos.
// No authentication is required; the share id is the capability.
func (s *AlbumService) GetShared(ctx context.Context, shareID string) (*SharedAlbum, error) {
	album, photos, err := s.store.GetAlbumByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	return &SharedAlbum{Album: album, Photos: photos}, nil
}
