package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestGenerateFilename(t *testing.T) {
	name, err := GenerateFilename("My Holiday Photo.JPG")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, " ")

	// Unique across calls.
	name2, err := GenerateFilename("My Holiday Photo.JPG")
	require.NoError(t, err)
	assert.NotEqual(t, name, name2)
}

func TestAllowedExtension(t *testing.T) {
	assert.True(t, AllowedExtension("photo.jpg"))
	assert.True(t, AllowedExtension("photo.JPEG"))
	assert.True(t, AllowedExtension("photo.webp"))
	assert.False(t, AllowedExtension("photo.exe"))
	assert.False(t, AllowedExtension("photo"))
}

func TestStorage_SaveOpenDelete(t *testing.T) {
	s := newTestStorage(t)

	name, err := GenerateFilename("beach.png")
	require.NoError(t, err)

	path, err := s.Save(name, strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.True(t, s.Exists(name))
	assert.Equal(t, s.Path(name), path)

	f, err := s.Open(name)
	require.NoError(t, err)
	data, err := os.ReadFile(f.Name())
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, s.Delete(name))
	assert.False(t, s.Exists(name))

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(name))
}

func TestStorage_PathTraversal(t *testing.T) {
	s := newTestStorage(t)

	// Path strips directory components from the filename.
	p := s.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(s.BasePath(), "passwd"), p)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentType("a.JPEG"))
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "image/webp", ContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}

func TestComputeBlurHash(t *testing.T) {
	// Write a small solid-color PNG to disk.
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "test.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	hash, err := ComputeBlurHash(path)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHash_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := ComputeBlurHash(path)
	assert.Error(t, err)
}
