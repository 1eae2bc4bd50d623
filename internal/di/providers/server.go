package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shoeboxapp/shoebox-server/internal/api"
	"github.com/shoeboxapp/shoebox-server/internal/config"
	"github.com/shoeboxapp/shoebox-server/internal/logger"
	"github.com/shoeboxapp/shoebox-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	userService := do.MustInvoke[*service.UserService](i)
	photoService := do.MustInvoke[*service.PhotoService](i)
	albumService := do.MustInvoke[*service.AlbumService](i)
	uploadService := do.MustInvoke[*service.UploadService](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	handler := api.NewServer(api.Options{
		AuthService:   authService,
		UserService:   userService,
		PhotoService:  photoService,
		AlbumService:  albumService,
		UploadService: uploadService,
		SearchService: searchService,
		MaxUploadSize: cfg.Uploads.MaxUploadSize,
		Logger:        log.Logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
