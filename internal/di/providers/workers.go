package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shoeboxapp/shoebox-server/internal/config"
	"github.com/shoeboxapp/shoebox-server/internal/importer"
	"github.com/shoeboxapp/shoebox-server/internal/logger"
	"github.com/shoeboxapp/shoebox-server/internal/service"
)

// ImporterHandle wraps the auto-import watcher with shutdown capability.
type ImporterHandle struct {
	*importer.Importer
	started bool
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ImporterHandle) Shutdown() error {
	if h.started {
		h.cancel()
	}
	return nil
}

// ProvideImporter provides the filesystem import watcher. When auto-import
// is disabled the handle is inert.
func ProvideImporter(i do.Injector) (*ImporterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Import.Enabled {
		log.Info("Auto-import disabled by configuration")
		return &ImporterHandle{started: false}, nil
	}

	uploadService := do.MustInvoke[*service.UploadService](i)

	im := importer.New(cfg.Import.WatchPath, cfg.Import.UserID, uploadService, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := im.Run(ctx); err != nil {
			log.Error("Import watcher error", "error", err)
		}
	}()

	log.Info("Import watcher started",
		"watch_path", cfg.Import.WatchPath,
		"user_id", cfg.Import.UserID,
	)

	return &ImporterHandle{Importer: im, started: true, cancel: cancel}, nil
}
