package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/shoeboxapp/shoebox-server/internal/config"
	"github.com/shoeboxapp/shoebox-server/internal/logger"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store, backed by either the flat JSON
// file or badger depending on configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var backend store.Backend
	switch cfg.Store.Backend {
	case "badger":
		b, err := store.NewBadgerBackend(cfg.Store.BadgerPath)
		if err != nil {
			return nil, err
		}
		backend = b
	case "file", "":
		b, err := store.NewFileBackend(cfg.Store.DocumentPath)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if err := backend.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("initialize store backend: %w", err)
	}

	st := store.New(backend, log.Logger)

	log.Info("Document store initialized",
		"backend", cfg.Store.Backend,
		"data_path", cfg.Store.DataPath,
	)

	return &StoreHandle{Store: st}, nil
}
