package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
)

func TestAlbumService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1, err := f.upload.Upload(ctx, UploadRequest{UserID: 1}, "a.png", pngReader(t))
	require.NoError(t, err)
	p2, err := f.upload.Upload(ctx, UploadRequest{UserID: 1}, "b.png", pngReader(t))
	require.NoError(t, err)

	album, err := f.albums.Create(ctx, CreateAlbumRequest{
		UserID:   1,
		Title:    "Summer Trip",
		PhotoIDs: []int{p1.ID, p2.ID, 999}, // unknown id is skipped
	})
	require.NoError(t, err)

	assert.Equal(t, 1, album.ID)
	assert.Equal(t, []int{p1.ID, p2.ID}, album.PhotoIDs)
	assert.Equal(t, p1.ID, album.CoverPhoto)
	assert.True(t, strings.HasPrefix(album.ShareID, "summer-trip-"))

	// Photos carry the back-reference.
	got, err := f.photos.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{album.ID}, got.AlbumIDs)
}

func TestAlbumService_Create_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.albums.Create(context.Background(), CreateAlbumRequest{UserID: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.albums.Create(context.Background(), CreateAlbumRequest{Title: "No owner"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAlbumService_Update_ShareIDImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	album, err := f.albums.Create(ctx, CreateAlbumRequest{UserID: 1, Title: "Original"})
	require.NoError(t, err)
	originalShareID := album.ShareID

	updated, err := f.albums.Update(ctx, album.ID, UpdateAlbumRequest{
		Title: strPtr("Renamed"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, originalShareID, updated.ShareID)
}

func TestAlbumService_GetShared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.upload.Upload(ctx, UploadRequest{UserID: 1, Title: "In album"},
		"s.png", pngReader(t))
	require.NoError(t, err)

	album, err := f.albums.Create(ctx, CreateAlbumRequest{
		UserID: 1, Title: "Shared", PhotoIDs: []int{p.ID},
	})
	require.NoError(t, err)

	shared, err := f.albums.GetShared(ctx, album.ShareID)
	require.NoError(t, err)
	assert.Equal(t, album.ID, shared.Album.ID)
	require.Len(t, shared.Photos, 1)
	assert.Equal(t, p.ID, shared.Photos[0].ID)

	_, err = f.albums.GetShared(ctx, "nope-12345678")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAlbumService_Delete_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.upload.Upload(ctx, UploadRequest{UserID: 1}, "c.png", pngReader(t))
	require.NoError(t, err)

	album, err := f.albums.Create(ctx, CreateAlbumRequest{
		UserID: 1, Title: "Doomed", PhotoIDs: []int{p.ID},
	})
	require.NoError(t, err)
	shareID := album.ShareID

	require.NoError(t, f.albums.Delete(ctx, album.ID))

	_, err = f.albums.Get(ctx, album.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.albums.GetShared(ctx, shareID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.photos.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AlbumIDs)
}
