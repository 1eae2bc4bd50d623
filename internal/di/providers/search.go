package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shoeboxapp/shoebox-server/internal/config"
	"github.com/shoeboxapp/shoebox-server/internal/logger"
	"github.com/shoeboxapp/shoebox-server/internal/search"
	"github.com/shoeboxapp/shoebox-server/internal/service"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Store.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	return service.NewSearchService(indexHandle.SearchIndex), nil
}

// TriggerSearchReindexIfNeeded rebuilds the index from the store when the
// index is empty but photos exist. Should be called after all services are
// wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	photoService := do.MustInvoke[*service.PhotoService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	photos, err := storeHandle.ListPhotos(ctx, store.PhotoFilter{})
	if err != nil || len(photos) == 0 {
		return
	}

	log.Info("Search index is empty but photos exist, triggering initial reindex",
		"photo_count", len(photos),
	)

	go func() {
		if err := photoService.Reindex(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
