package store

import (
	"context"
	"time"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
	"github.com/shoeboxapp/shoebox-server/internal/util"
)

// PhotoFilter narrows ListPhotos results. Zero values mean "no filter";
// entity ids start at 1, so 0 is never a valid target.
type PhotoFilter struct {
	UserID        int
	AlbumID       int
	Tag           string
	FavoritesOnly bool
}

func (f PhotoFilter) matches(p *domain.Photo) bool {
	if f.UserID != 0 && p.UserID != f.UserID {
		return false
	}
	if f.AlbumID != 0 && !p.InAlbum(f.AlbumID) {
		return false
	}
	if f.Tag != "" && !p.HasTag(util.NormalizeTag(f.Tag)) {
		return false
	}
	if f.FavoritesOnly && !p.IsFavorite {
		return false
	}
	return true
}

// ListPhotos returns photos matching the filter in insertion order.
func (s *Store) ListPhotos(ctx context.Context, filter PhotoFilter) ([]*domain.Photo, error) {
	var photos []*domain.Photo
	err := s.View(ctx, func(doc *Document) error {
		photos = make([]*domain.Photo, 0, len(doc.Photos))
		for _, p := range doc.Photos {
			if filter.matches(p) {
				photos = append(photos, p)
			}
		}
		return nil
	})
	return photos, err
}

// GetPhoto returns one photo by id.
func (s *Store) GetPhoto(ctx context.Context, id int) (*domain.Photo, error) {
	var photo *domain.Photo
	err := s.View(ctx, func(doc *Document) error {
		p := doc.FindPhoto(id)
		if p == nil {
			return apperrors.NotFoundf("photo %d not found", id)
		}
		photo = p
		return nil
	})
	return photo, err
}

// CreatePhoto inserts a new photo, assigning the next id and filling
// defaults (upload timestamp, empty album list, normalized tags).
func (s *Store) CreatePhoto(ctx context.Context, photo *domain.Photo) (*domain.Photo, error) {
	var created *domain.Photo
	err := s.Update(ctx, func(doc *Document) error {
		p := *photo
		p.ID = doc.NextPhotoID()
		if p.UploadDate.IsZero() {
			p.UploadDate = time.Now().UTC()
		}
		p.Tags = util.NormalizeTags(p.Tags)
		if p.AlbumIDs == nil {
			p.AlbumIDs = []int{}
		}

		doc.Photos = append(doc.Photos, &p)
		created = &p
		return nil
	})
	return created, err
}

// PhotoPatch carries the fields a photo update may change. Nil means "leave
// unchanged". Album membership is deliberately absent: the album↔photo
// mapping is only ever mutated through album operations, so a photo update
// cannot desynchronize it.
type PhotoPatch struct {
	Title       *string
	Description *string
	Tags        *[]string
	IsFavorite  *bool
}

// UpdatePhoto shallow-merges the patch onto the stored photo and persists.
func (s *Store) UpdatePhoto(ctx context.Context, id int, patch PhotoPatch) (*domain.Photo, error) {
	var updated *domain.Photo
	err := s.Update(ctx, func(doc *Document) error {
		p := doc.FindPhoto(id)
		if p == nil {
			return apperrors.NotFoundf("photo %d not found", id)
		}

		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Tags != nil {
			p.Tags = util.NormalizeTags(*patch.Tags)
		}
		if patch.IsFavorite != nil {
			p.IsFavorite = *patch.IsFavorite
		}

		updated = p
		return nil
	})
	return updated, err
}

// DeletePhoto removes the photo and strips its id from every album's photo
// list, in the same critical section, so the bidirectional mapping is never
// observable half-updated.
func (s *Store) DeletePhoto(ctx context.Context, id int) (*domain.Photo, error) {
	var deleted *domain.Photo
	err := s.Update(ctx, func(doc *Document) error {
		for i, p := range doc.Photos {
			if p.ID != id {
				continue
			}
			deleted = p
			doc.removePhotoAt(i)

			for _, album := range doc.Albums {
				album.RemovePhoto(id)
			}
			return nil
		}
		return apperrors.NotFoundf("photo %d not found", id)
	})
	return deleted, err
}
