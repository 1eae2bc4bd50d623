package providers

import (
	"github.com/samber/do/v2"

	"github.com/shoeboxapp/shoebox-server/internal/config"
	"github.com/shoeboxapp/shoebox-server/internal/logger"
	"github.com/shoeboxapp/shoebox-server/internal/media/images"
)

// ProvideImageStorage provides the uploaded photo file storage.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Uploads.Path)
	if err != nil {
		return nil, err
	}

	log.Info("Image storage initialized", "path", cfg.Uploads.Path)

	return storage, nil
}
