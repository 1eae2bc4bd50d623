package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoeboxapp/shoebox-server/internal/auth"
	"github.com/shoeboxapp/shoebox-server/internal/media/images"
	"github.com/shoeboxapp/shoebox-server/internal/search"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// fixture bundles the services under test with their backing state.
type fixture struct {
	store   *store.Store
	storage *images.Storage
	index   *search.SearchIndex

	auth   *AuthService
	users  *UserService
	photos *PhotoService
	albums *AlbumService
	upload *UploadService
	search *SearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	backend, err := store.NewFileBackend(filepath.Join(dir, "shoebox.json"))
	require.NoError(t, err)
	require.NoError(t, backend.Init(context.Background()))
	st := store.New(backend, logger)
	t.Cleanup(func() { _ = st.Close() })

	storage, err := images.NewStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(dir, "index"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	return &fixture{
		store:   st,
		storage: storage,
		index:   index,
		auth:    NewAuthService(st, tokens, logger),
		users:   NewUserService(st, logger),
		photos:  NewPhotoService(st, storage, index, logger),
		albums:  NewAlbumService(st, logger),
		upload:  NewUploadService(st, storage, index, logger),
		search:  NewSearchService(index),
	}
}

// pngReader returns a small valid PNG stream.
func pngReader(t *testing.T) io.Reader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 90, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}
