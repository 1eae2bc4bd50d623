// Package importer watches an inbox directory and ingests image files
// dropped into it, so a camera sync folder becomes a photo source without
// touching the API.
package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	"github.com/shoeboxapp/shoebox-server/internal/media/images"
	"github.com/shoeboxapp/shoebox-server/internal/service"
)

// settleDelay is how long a file must be quiet before it is imported.
// Copies into the inbox arrive as a burst of write events; importing on
// the first one would read a partial file.
const settleDelay = 2 * time.Second

// Uploader ingests a single file as a photo.
type Uploader interface {
	Upload(ctx context.Context, req service.UploadRequest, originalName string, file io.Reader) (*domain.Photo, error)
}

// Importer watches a directory and uploads image files that appear in it.
// Imported files are removed from the inbox; failed files stay put so the
// next restart retries them.
type Importer struct {
	watchPath string
	userID    int
	uploader  Uploader
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates an importer for the given inbox directory. Imported photos
// are owned by userID.
func New(watchPath string, userID int, uploader Uploader, logger *slog.Logger) *Importer {
	return &Importer{
		watchPath: watchPath,
		userID:    userID,
		uploader:  uploader,
		logger:    logger,
		pending:   make(map[string]*time.Timer),
	}
}

// Run watches the inbox until the context is cancelled. Files already in
// the inbox at startup are imported first, so nothing dropped while the
// server was down is missed.
func (im *Importer) Run(ctx context.Context) error {
	if err := os.MkdirAll(im.watchPath, 0o755); err != nil {
		return err
	}

	im.importExisting(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(im.watchPath); err != nil {
		return err
	}

	im.logger.Info("import watcher started", "path", im.watchPath)

	for {
		select {
		case <-ctx.Done():
			im.cancelPending()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				im.schedule(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			im.logger.Warn("import watcher error", "error", err)
		}
	}
}

// importExisting sweeps the inbox for files left over from before startup.
func (im *Importer) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(im.watchPath)
	if err != nil {
		im.logger.Warn("failed to scan import inbox", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		im.importFile(ctx, filepath.Join(im.watchPath, entry.Name()))
	}
}

// schedule (re)arms the settle timer for a path. Each new write pushes the
// import back until the file has been quiet for settleDelay.
func (im *Importer) schedule(ctx context.Context, path string) {
	if !images.AllowedExtension(path) || isHidden(path) {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	if timer, ok := im.pending[path]; ok {
		timer.Stop()
	}
	im.pending[path] = time.AfterFunc(settleDelay, func() {
		im.mu.Lock()
		delete(im.pending, path)
		im.mu.Unlock()

		im.importFile(ctx, path)
	})
}

func (im *Importer) cancelPending() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for path, timer := range im.pending {
		timer.Stop()
		delete(im.pending, path)
	}
}

// importFile uploads one file and removes it from the inbox on success.
func (im *Importer) importFile(ctx context.Context, path string) {
	if !images.AllowedExtension(path) || isHidden(path) {
		return
	}

	f, err := os.Open(path) //#nosec G304 -- path comes from the watched inbox
	if err != nil {
		im.logger.Warn("failed to open inbox file", "path", path, "error", err)
		return
	}

	name := filepath.Base(path)
	photo, err := im.uploader.Upload(ctx, service.UploadRequest{
		UserID: im.userID,
		Title:  name,
	}, name, f)
	f.Close()
	if err != nil {
		im.logger.Warn("failed to import photo", "path", path, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		im.logger.Warn("failed to remove imported file", "path", path, "error", err)
	}

	im.logger.Info("photo imported",
		"photo_id", photo.ID,
		"file", name,
	)
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
