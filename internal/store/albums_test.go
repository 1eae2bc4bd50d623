package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
)

// seedPhotos creates n photos and returns their ids.
func seedPhotos(t *testing.T, s *Store, n int) []int {
	t.Helper()
	ctx := context.Background()

	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		p, err := s.CreatePhoto(ctx, &domain.Photo{UserID: 1, Title: "photo"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}

// assertLinksConsistent verifies the bidirectional invariant over the whole
// document: album.id ∈ photo.albumIds ⇔ photo.id ∈ album.photoIds.
func assertLinksConsistent(t *testing.T, s *Store) {
	t.Helper()

	err := s.View(context.Background(), func(doc *Document) error {
		for _, album := range doc.Albums {
			for _, photoID := range album.PhotoIDs {
				photo := doc.FindPhoto(photoID)
				require.NotNil(t, photo, "album %d references missing photo %d", album.ID, photoID)
				assert.True(t, photo.InAlbum(album.ID),
					"photo %d missing back-reference to album %d", photoID, album.ID)
			}
		}
		for _, photo := range doc.Photos {
			for _, albumID := range photo.AlbumIDs {
				album := doc.FindAlbum(albumID)
				require.NotNil(t, album, "photo %d references missing album %d", photo.ID, albumID)
				assert.True(t, album.ContainsPhoto(photo.ID),
					"album %d missing forward reference to photo %d", albumID, photo.ID)
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestCreateAlbum_LinksPhotosAndCreatesShare(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 2)

	album, err := s.CreateAlbum(ctx, &domain.Album{
		UserID:   1,
		Title:    "Summer Trip",
		PhotoIDs: photoIDs,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, album.ID)
	assert.Equal(t, photoIDs[0], album.CoverPhoto, "cover defaults to the first photo")
	assert.True(t, strings.HasPrefix(album.ShareID, "summer-trip-"))
	assert.False(t, album.CreatedAt.IsZero())

	// Both photos gained the back-reference.
	for _, photoID := range photoIDs {
		p, err := s.GetPhoto(ctx, photoID)
		require.NoError(t, err)
		assert.True(t, p.InAlbum(album.ID))
	}

	// A matching share exists, with inert expiry.
	share, err := s.GetShare(ctx, album.ShareID)
	require.NoError(t, err)
	assert.Equal(t, album.ID, share.AlbumID)
	assert.Nil(t, share.ExpiresAt)

	assertLinksConsistent(t, s)
}

func TestCreateAlbum_SkipsUnknownPhotos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 1)

	album, err := s.CreateAlbum(ctx, &domain.Album{
		UserID:   1,
		Title:    "Sparse",
		PhotoIDs: []int{photoIDs[0], 99},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{photoIDs[0]}, album.PhotoIDs)
	assertLinksConsistent(t, s)
}

func TestUpdateAlbum_SyncsBothSides(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 2)

	album, err := s.CreateAlbum(ctx, &domain.Album{UserID: 1, Title: "Trip", PhotoIDs: photoIDs})
	require.NoError(t, err)

	// Drop the first photo, keep the second.
	newList := []int{photoIDs[1]}
	updated, err := s.UpdateAlbum(ctx, album.ID, AlbumPatch{PhotoIDs: &newList})
	require.NoError(t, err)
	assert.Equal(t, newList, updated.PhotoIDs)

	removed, err := s.GetPhoto(ctx, photoIDs[0])
	require.NoError(t, err)
	assert.False(t, removed.InAlbum(album.ID), "removed photo keeps no back-reference")

	kept, err := s.GetPhoto(ctx, photoIDs[1])
	require.NoError(t, err)
	assert.True(t, kept.InAlbum(album.ID))

	assertLinksConsistent(t, s)
}

func TestUpdateAlbum_RelinkIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 1)

	album, err := s.CreateAlbum(ctx, &domain.Album{UserID: 1, Title: "Dups", PhotoIDs: photoIDs})
	require.NoError(t, err)

	// Supplying an already-linked photo again must not duplicate the
	// back-reference.
	_, err = s.UpdateAlbum(ctx, album.ID, AlbumPatch{PhotoIDs: &photoIDs})
	require.NoError(t, err)

	p, err := s.GetPhoto(ctx, photoIDs[0])
	require.NoError(t, err)
	assert.Equal(t, []int{album.ID}, p.AlbumIDs)
}

func TestUpdateAlbum_PreservesShareID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 1)

	album, err := s.CreateAlbum(ctx, &domain.Album{UserID: 1, Title: "Keep", PhotoIDs: photoIDs})
	require.NoError(t, err)

	title := "Renamed"
	updated, err := s.UpdateAlbum(ctx, album.ID, AlbumPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, album.ShareID, updated.ShareID, "share id survives updates verbatim")
}

func TestDeleteAlbum_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 2)

	album, err := s.CreateAlbum(ctx, &domain.Album{UserID: 1, Title: "Doomed", PhotoIDs: photoIDs})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAlbum(ctx, album.ID))

	_, err = s.GetAlbum(ctx, album.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	for _, photoID := range photoIDs {
		p, err := s.GetPhoto(ctx, photoID)
		require.NoError(t, err)
		assert.False(t, p.InAlbum(album.ID))
	}

	_, err = s.GetShare(ctx, album.ShareID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeletePhoto_CascadesToAlbums(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 2)

	album, err := s.CreateAlbum(ctx, &domain.Album{UserID: 1, Title: "Shrinking", PhotoIDs: photoIDs})
	require.NoError(t, err)

	_, err = s.DeletePhoto(ctx, photoIDs[0])
	require.NoError(t, err)

	got, err := s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{photoIDs[1]}, got.PhotoIDs)

	assertLinksConsistent(t, s)
}

func TestListPhotos_AlbumFilterTracksMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	photoIDs := seedPhotos(t, s, 3)

	album, err := s.CreateAlbum(ctx, &domain.Album{UserID: 1, Title: "Query", PhotoIDs: photoIDs[:2]})
	require.NoError(t, err)

	// Add the third photo via album update; the filtered list must include it.
	withThird := photoIDs
	_, err = s.UpdateAlbum(ctx, album.ID, AlbumPatch{PhotoIDs: &withThird})
	require.NoError(t, err)

	photos, err := s.ListPhotos(ctx, PhotoFilter{AlbumID: album.ID})
	require.NoError(t, err)
	assert.Len(t, photos, 3)

	// Remove it again; the same query must exclude it.
	withoutThird := photoIDs[:2]
	_, err = s.UpdateAlbum(ctx, album.ID, AlbumPatch{PhotoIDs: &withoutThird})
	require.NoError(t, err)

	photos, err = s.ListPhotos(ctx, PhotoFilter{AlbumID: album.ID})
	require.NoError(t, err)
	assert.Len(t, photos, 2)
	for _, p := range photos {
		assert.NotEqual(t, photoIDs[2], p.ID)
	}
}

func TestListPhotos_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreatePhoto(ctx, &domain.Photo{UserID: 1, Title: "a", Tags: []string{"beach"}})
	require.NoError(t, err)
	fav, err := s.CreatePhoto(ctx, &domain.Photo{UserID: 2, Title: "b", IsFavorite: true})
	require.NoError(t, err)

	byUser, err := s.ListPhotos(ctx, PhotoFilter{UserID: 2})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, fav.ID, byUser[0].ID)

	byTag, err := s.ListPhotos(ctx, PhotoFilter{Tag: "Beach"})
	require.NoError(t, err)
	assert.Len(t, byTag, 1, "tag filter normalizes case")

	favs, err := s.ListPhotos(ctx, PhotoFilter{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, fav.ID, favs[0].ID)
}
