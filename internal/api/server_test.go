package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoeboxapp/shoebox-server/internal/auth"
	"github.com/shoeboxapp/shoebox-server/internal/domain"
	"github.com/shoeboxapp/shoebox-server/internal/media/images"
	"github.com/shoeboxapp/shoebox-server/internal/search"
	"github.com/shoeboxapp/shoebox-server/internal/service"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// newTestServer wires a full server against temp-dir state.
func newTestServer(t *testing.T) *httptest.Server {
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

	srv := NewServer(Options{
		AuthService:   service.NewAuthService(st, tokens, logger),
		UserService:   service.NewUserService(st, logger),
		PhotoService:  service.NewPhotoService(st, storage, index, logger),
		AlbumService:  service.NewAlbumService(st, logger),
		UploadService: service.NewUploadService(st, storage, index, logger),
		SearchService: service.NewSearchService(index),
		MaxUploadSize: 10 * 1024 * 1024,
		Logger:        logger,
	})

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

// envelope mirrors the response wrapper for test decoding.
type envelope struct {
	Data    jsontext.Value `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Success bool           `json:"success"`
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.MarshalWrite(&buf, body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return res, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// registerUser registers a user and returns their access token.
func registerUser(t *testing.T, ts *httptest.Server, username, email string) string {
	t.Helper()

	res, env := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	resp := decodeData[service.AuthResponse](t, env)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// uploadPhoto uploads a small PNG and returns the created photo.
func uploadPhoto(t *testing.T, ts *httptest.Server, token, title string) *domain.Photo {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 180, B: 90, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "test.png")
	require.NoError(t, err)
	_, err = io.Copy(fw, &pngBuf)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("tags", "test, green"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var env envelope
	require.NoError(t, json.UnmarshalRead(res.Body, &env))
	photo := decodeData[*domain.Photo](t, env)
	return photo
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	res, env := doJSON(t, http.MethodGet, ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, env.Success)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token := registerUser(t, ts, "ansel", "ansel@example.com")

	// /auth/me with the token.
	res, env := doJSON(t, http.MethodGet, ts.URL+"/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	me := decodeData[*domain.User](t, env)
	assert.Equal(t, "ansel", me.Username)
	assert.Empty(t, me.PasswordHash)

	// Login with the registered credentials.
	res, env = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "ansel@example.com",
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	login := decodeData[service.AuthResponse](t, env)
	assert.NotEmpty(t, login.AccessToken)

	// Wrong password is a 401 with no hint which part was wrong.
	res, env = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "ansel@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	ts := newTestServer(t)

	registerUser(t, ts, "first", "dup@example.com")

	res, env := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register", "", map[string]string{
		"username": "second",
		"email":    "dup@example.com",
		"password": "correct horse battery staple",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/v1/users",
		"/api/v1/photos",
		"/api/v1/albums",
		"/api/v1/search/photos",
	} {
		res, _ := doJSON(t, http.MethodGet, ts.URL+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, path)
	}
}

func TestPhotoLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ansel", "ansel@example.com")

	photo := uploadPhoto(t, ts, token, "Green square")
	assert.Equal(t, 1, photo.ID)
	assert.Equal(t, "Green square", photo.Title)
	assert.Equal(t, []string{"test", "green"}, photo.Tags)
	assert.NotEmpty(t, photo.BlurHash)

	// Fetch metadata.
	res, env := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, photo.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decodeData[*domain.Photo](t, env)
	assert.Equal(t, photo.Filename, got.Filename)

	// Fetch the file bytes.
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/photos/%d/file", ts.URL, photo.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	fileRes, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer fileRes.Body.Close()
	assert.Equal(t, http.StatusOK, fileRes.StatusCode)
	assert.Equal(t, "image/png", fileRes.Header.Get("Content-Type"))

	// Update metadata.
	res, env = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, photo.ID), token, map[string]any{
		"title":      "Renamed",
		"isFavorite": true,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	updated := decodeData[*domain.Photo](t, env)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.IsFavorite)

	// Search finds it.
	res, env = doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/photos?q=renamed", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	result := decodeData[*search.Result](t, env)
	assert.Equal(t, uint64(1), result.Total)

	// Delete.
	res, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, photo.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, photo.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestCreatePhotoFromMetadata(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ansel", "ansel@example.com")

	// Record a photo whose file already exists; no multipart involved.
	res, env := doJSON(t, http.MethodPost, ts.URL+"/api/v1/photos", token, map[string]any{
		"title":    "Migrated slide",
		"tags":     []string{"archive"},
		"filename": "slide-001.jpg",
		"filepath": "uploads/slide-001.jpg",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	photo := decodeData[*domain.Photo](t, env)
	assert.Equal(t, 1, photo.ID)
	assert.Equal(t, 1, photo.UserID, "owner defaults to the authenticated user")
	assert.Equal(t, "Migrated slide", photo.Title)
	assert.Empty(t, photo.AlbumIDs)
	assert.False(t, photo.UploadDate.IsZero())

	// The record is readable and listed like any upload.
	res, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, photo.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decodeData[*domain.Photo](t, env)
	assert.Equal(t, "slide-001.jpg", got.Filename)

	res, env = doJSON(t, http.MethodGet, ts.URL+"/api/v1/search/photos?q=migrated", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	result := decodeData[*search.Result](t, env)
	assert.Equal(t, uint64(1), result.Total)
}

func TestAlbumLifecycleAndSharing(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ansel", "ansel@example.com")

	p1 := uploadPhoto(t, ts, token, "First")
	p2 := uploadPhoto(t, ts, token, "Second")

	// Create an album with both photos.
	res, env := doJSON(t, http.MethodPost, ts.URL+"/api/v1/albums", token, map[string]any{
		"title":    "Summer Trip",
		"photoIds": []int{p1.ID, p2.ID},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	album := decodeData[*domain.Album](t, env)
	assert.Equal(t, []int{p1.ID, p2.ID}, album.PhotoIDs)
	assert.NotEmpty(t, album.ShareID)

	// Photos gained the back-reference.
	res, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, p1.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decodeData[*domain.Photo](t, env)
	assert.Equal(t, []int{album.ID}, got.AlbumIDs)

	// Share link is public: no token needed.
	res, env = doJSON(t, http.MethodGet, ts.URL+"/api/v1/shared/"+album.ShareID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	shared := decodeData[*service.SharedAlbum](t, env)
	assert.Len(t, shared.Photos, 2)

	// Shrink the album to one photo.
	res, env = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/albums/%d", ts.URL, album.ID), token, map[string]any{
		"photoIds": []int{p2.ID},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	updated := decodeData[*domain.Album](t, env)
	assert.Equal(t, []int{p2.ID}, updated.PhotoIDs)
	assert.Equal(t, album.ShareID, updated.ShareID, "share id survives updates")

	// Removed photo lost the back-reference.
	res, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/photos/%d", ts.URL, p1.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got = decodeData[*domain.Photo](t, env)
	assert.Empty(t, got.AlbumIDs)

	// Delete the album; the share link dies with it.
	res, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/albums/%d", ts.URL, album.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/shared/"+album.ShareID, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ansel", "ansel@example.com")

	// Album without a title.
	res, env := doJSON(t, http.MethodPost, ts.URL+"/api/v1/albums", token, map[string]any{
		"description": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "VALIDATION", env.Code)

	// Non-numeric id.
	res, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/photos/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
