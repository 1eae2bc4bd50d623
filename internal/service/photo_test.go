package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
	"github.com/shoeboxapp/shoebox-server/internal/search"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPhotoService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.photos.Create(ctx, CreatePhotoRequest{
		UserID:   1,
		Title:    "Harbor sunrise",
		Tags:     []string{"Harbor", " sea "},
		Filename: "harbor.jpg",
		Filepath: "uploads/harbor.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, photo.ID)
	assert.Equal(t, []string{"harbor", "sea"}, photo.Tags)
	assert.Empty(t, photo.AlbumIDs)
	assert.False(t, photo.UploadDate.IsZero())

	got, err := f.photos.Get(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor sunrise", got.Title)

	result, err := f.search.Photos(ctx, search.Params{Query: "harbor", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, strconv.Itoa(photo.ID), result.Hits[0].ID)
}

func TestPhotoService_Create_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.photos.Create(context.Background(), CreatePhotoRequest{Title: "No owner"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPhotoService_Update_Reindexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.upload.Upload(ctx, UploadRequest{UserID: 1, Title: "Before"},
		"a.png", pngReader(t))
	require.NoError(t, err)

	updated, err := f.photos.Update(ctx, photo.ID, UpdatePhotoRequest{
		Title:      strPtr("Lighthouse at dusk"),
		IsFavorite: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lighthouse at dusk", updated.Title)
	assert.True(t, updated.IsFavorite)

	result, err := f.search.Photos(ctx, search.Params{Query: "lighthouse", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Lighthouse at dusk", result.Hits[0].Title)
}

func TestPhotoService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.upload.Upload(ctx, UploadRequest{UserID: 1, Title: "Doomed"},
		"d.png", pngReader(t))
	require.NoError(t, err)
	filename := photo.Filename

	require.NoError(t, f.photos.Delete(ctx, photo.ID))

	_, err = f.photos.Get(ctx, photo.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, f.storage.Exists(filename), "file should be removed with the record")

	result, err := f.search.Photos(ctx, search.Params{Query: "doomed", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestPhotoService_Delete_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.photos.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPhotoService_File(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.upload.Upload(ctx, UploadRequest{UserID: 1},
		"pic.png", pngReader(t))
	require.NoError(t, err)

	file, contentType, err := f.photos.File(ctx, photo.ID)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "image/png", contentType)
}

func TestPhotoService_Reindex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"one.png", "two.png", "three.png"} {
		_, err := f.upload.Upload(ctx, UploadRequest{UserID: 1, Title: name},
			name, pngReader(t))
		require.NoError(t, err)
	}

	// Wipe the index, then rebuild from the store.
	require.NoError(t, f.index.Rebuild())
	count, err := f.index.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint64(0), count)

	require.NoError(t, f.photos.Reindex(ctx))

	count, err = f.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestPhotoService_List_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1, err := f.upload.Upload(ctx, UploadRequest{UserID: 1, Tags: []string{"beach"}},
		"u1.png", pngReader(t))
	require.NoError(t, err)
	_, err = f.upload.Upload(ctx, UploadRequest{UserID: 2, Tags: []string{"city"}},
		"u2.png", pngReader(t))
	require.NoError(t, err)

	_, err = f.photos.Update(ctx, p1.ID, UpdatePhotoRequest{IsFavorite: boolPtr(true)})
	require.NoError(t, err)

	byUser, err := f.photos.List(ctx, store.PhotoFilter{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	byTag, err := f.photos.List(ctx, store.PhotoFilter{Tag: "city"})
	require.NoError(t, err)
	assert.Len(t, byTag, 1)

	favorites, err := f.photos.List(ctx, store.PhotoFilter{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, p1.ID, favorites[0].ID)
}
