package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoeboxapp/shoebox-server/internal/http/response"
	"github.com/shoeboxapp/shoebox-server/internal/service"
)

// handleListAlbums returns albums, filterable by owner via ?userId=.
func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.albumService.List(r.Context(), queryInt(r, "userId"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, albums, s.logger)
}

// handleGetAlbum returns a single album by id.
func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	album, err := s.albumService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, album, s.logger)
}

// handleCreateAlbum creates an album, links its photos, and mints the
// share link.
func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAlbumRequest
	if err := decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if req.UserID == 0 {
		req.UserID = getUserID(r.Context())
	}

	album, err := s.albumService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, album, s.logger)
}

// handleUpdateAlbum applies a partial update; photo list changes re-sync
// the album↔photo mapping.
func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdateAlbumRequest
	if err := decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	album, err := s.albumService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, album, s.logger)
}

// handleDeleteAlbum removes an album, its photo back-references, and its
// shares.
func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.albumService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleGetShared resolves a public share link to its album and photos.
func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareID")
	if shareID == "" {
		response.BadRequest(w, "Share ID is required", s.logger)
		return
	}

	shared, err := s.albumService.GetShared(r.Context(), shareID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shared, s.logger)
}
