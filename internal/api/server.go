// Package api provides the HTTP API server and handlers for the Shoebox application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shoeboxapp/shoebox-server/internal/http/response"
	"github.com/shoeboxapp/shoebox-server/internal/ratelimit"
	"github.com/shoeboxapp/shoebox-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService   *service.AuthService
	userService   *service.UserService
	photoService  *service.PhotoService
	albumService  *service.AlbumService
	uploadService *service.UploadService
	searchService *service.SearchService

	limiter       *ratelimit.KeyedRateLimiter
	maxUploadSize int64
	router        *chi.Mux
	logger        *slog.Logger
}

// Options bundles the server's dependencies.
type Options struct {
	AuthService   *service.AuthService
	UserService   *service.UserService
	PhotoService  *service.PhotoService
	AlbumService  *service.AlbumService
	UploadService *service.UploadService
	SearchService *service.SearchService
	MaxUploadSize int64
	Logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	s := &Server{
		authService:   opts.AuthService,
		userService:   opts.UserService,
		photoService:  opts.PhotoService,
		albumService:  opts.AlbumService,
		uploadService: opts.UploadService,
		searchService: opts.SearchService,
		maxUploadSize: opts.MaxUploadSize,
		limiter:       ratelimit.New(10, 30),
		router:        chi.NewRouter(),
		logger:        opts.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints. Login and register are rate limited per IP so
		// the password check can't be brute-forced.
		r.Route("/auth", func(r chi.Router) {
			r.With(s.rateLimit).Post("/register", s.handleRegister)
			r.With(s.rateLimit).Post("/login", s.handleLogin)
			r.With(s.requireAuth).Get("/me", s.handleMe)
		})

		// Public share links: the share id is the capability, no auth.
		r.Get("/shared/{shareID}", s.handleGetShared)

		// Users (require auth).
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListUsers)
			r.Get("/{id}", s.handleGetUser)
		})

		// Photos (require auth).
		r.Route("/photos", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListPhotos)
			r.Post("/", s.handleCreatePhoto)
			r.Get("/{id}", s.handleGetPhoto)
			r.Put("/{id}", s.handleUpdatePhoto)
			r.Patch("/{id}", s.handleUpdatePhoto)
			r.Delete("/{id}", s.handleDeletePhoto)
			r.Get("/{id}/file", s.handlePhotoFile)
		})

		// Albums (require auth).
		r.Route("/albums", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListAlbums)
			r.Post("/", s.handleCreateAlbum)
			r.Get("/{id}", s.handleGetAlbum)
			r.Put("/{id}", s.handleUpdateAlbum)
			r.Patch("/{id}", s.handleUpdateAlbum)
			r.Delete("/{id}", s.handleDeleteAlbum)
		})

		// Upload (require auth).
		r.With(s.requireAuth).Post("/upload", s.handleUpload)

		// Search (require auth).
		r.With(s.requireAuth).Get("/search/photos", s.handleSearchPhotos)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
