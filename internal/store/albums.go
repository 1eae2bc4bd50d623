package store

import (
	"context"
	"time"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
	"github.com/shoeboxapp/shoebox-server/internal/id"
	"github.com/shoeboxapp/shoebox-server/internal/util"
)

// ListAlbums returns albums in insertion order, optionally filtered by
// owner (0 means all).
func (s *Store) ListAlbums(ctx context.Context, userID int) ([]*domain.Album, error) {
	var albums []*domain.Album
	err := s.View(ctx, func(doc *Document) error {
		albums = make([]*domain.Album, 0, len(doc.Albums))
		for _, a := range doc.Albums {
			if userID != 0 && a.UserID != userID {
				continue
			}
			albums = append(albums, a)
		}
		return nil
	})
	return albums, err
}

// GetAlbum returns one album by id.
func (s *Store) GetAlbum(ctx context.Context, albumID int) (*domain.Album, error) {
	var album *domain.Album
	err := s.View(ctx, func(doc *Document) error {
		a := doc.FindAlbum(albumID)
		if a == nil {
			return apperrors.NotFoundf("album %d not found", albumID)
		}
		album = a
		return nil
	})
	return album, err
}

// GetAlbumByShareID resolves a share link to its album and the photos it
// contains. This is the read path behind public share links.
func (s *Store) GetAlbumByShareID(ctx context.Context, shareID string) (*domain.Album, []*domain.Photo, error) {
	var (
		album  *domain.Album
		photos []*domain.Photo
	)
	err := s.View(ctx, func(doc *Document) error {
		a := doc.FindAlbumByShareID(shareID)
		if a == nil {
			return apperrors.NotFound("shared album not found")
		}
		album = a
		photos = make([]*domain.Photo, 0, len(a.PhotoIDs))
		for _, photoID := range a.PhotoIDs {
			if p := doc.FindPhoto(photoID); p != nil {
				photos = append(photos, p)
			}
		}
		return nil
	})
	return album, photos, err
}

// CreateAlbum inserts a new album and, atomically with it:
//   - assigns the next id,
//   - generates the share id (slugified title + random suffix) and the
//     matching Share record,
//   - links every listed photo back to the album (idempotently),
//   - defaults the cover photo to the first linked photo.
//
// Photo ids that do not resolve to a stored photo are skipped rather than
// rejected; the album keeps only links that actually exist.
func (s *Store) CreateAlbum(ctx context.Context, album *domain.Album) (*domain.Album, error) {
	suffix, err := id.Suffix()
	if err != nil {
		return nil, apperrors.Internal("generate share id").WithCause(err)
	}

	var created *domain.Album
	err = s.Update(ctx, func(doc *Document) error {
		now := time.Now().UTC()

		a := *album
		a.ID = doc.NextAlbumID()
		a.ShareID = util.Slugify(a.Title) + "-" + suffix
		a.CreatedAt = now

		linked := make([]int, 0, len(a.PhotoIDs))
		for _, photoID := range a.PhotoIDs {
			photo := doc.FindPhoto(photoID)
			if photo == nil {
				continue
			}
			photo.AddAlbum(a.ID)
			linked = append(linked, photoID)
		}
		a.PhotoIDs = linked

		if a.CoverPhoto == 0 && len(a.PhotoIDs) > 0 {
			a.CoverPhoto = a.PhotoIDs[0]
		}

		doc.Albums = append(doc.Albums, &a)
		doc.Shares = append(doc.Shares, &domain.Share{
			ID:        a.ShareID,
			AlbumID:   a.ID,
			CreatedAt: now,
		})

		created = &a
		return nil
	})
	return created, err
}

// AlbumPatch carries the fields an album update may change. Nil means
// "leave unchanged". The share id is not patchable: it is generated once at
// creation and preserved verbatim no matter what an update supplies.
type AlbumPatch struct {
	Title       *string
	Description *string
	PhotoIDs    *[]int
	CoverPhoto  *int
}

// UpdateAlbum shallow-merges the patch onto the stored album. When the
// photo list changes, both sides of the album↔photo mapping are patched in
// the same critical section: removed photos lose this album id, added
// photos gain it (idempotently).
func (s *Store) UpdateAlbum(ctx context.Context, albumID int, patch AlbumPatch) (*domain.Album, error) {
	var updated *domain.Album
	err := s.Update(ctx, func(doc *Document) error {
		a := doc.FindAlbum(albumID)
		if a == nil {
			return apperrors.NotFoundf("album %d not found", albumID)
		}

		if patch.Title != nil {
			a.Title = *patch.Title
		}
		if patch.Description != nil {
			a.Description = *patch.Description
		}
		if patch.CoverPhoto != nil {
			a.CoverPhoto = *patch.CoverPhoto
		}

		if patch.PhotoIDs != nil {
			_, removed := domain.DiffIDs(a.PhotoIDs, *patch.PhotoIDs)

			for _, photoID := range removed {
				if photo := doc.FindPhoto(photoID); photo != nil {
					photo.RemoveAlbum(albumID)
				}
			}

			kept := make([]int, 0, len(*patch.PhotoIDs))
			for _, photoID := range *patch.PhotoIDs {
				photo := doc.FindPhoto(photoID)
				if photo == nil {
					continue
				}
				photo.AddAlbum(albumID)
				kept = append(kept, photoID)
			}
			a.PhotoIDs = kept
		}

		updated = a
		return nil
	})
	return updated, err
}

// DeleteAlbum removes the album, strips its id from every photo's album
// list, and deletes every share pointing at it — all in one critical
// section.
func (s *Store) DeleteAlbum(ctx context.Context, albumID int) error {
	return s.Update(ctx, func(doc *Document) error {
		for i, a := range doc.Albums {
			if a.ID != albumID {
				continue
			}
			doc.removeAlbumAt(i)

			for _, photo := range doc.Photos {
				photo.RemoveAlbum(albumID)
			}

			shares := doc.Shares[:0]
			for _, share := range doc.Shares {
				if share.AlbumID != albumID {
					shares = append(shares, share)
				}
			}
			doc.Shares = shares
			return nil
		}
		return apperrors.NotFoundf("album %d not found", albumID)
	})
}
