package api

import (
	"io"
	"net/http"

	"github.com/shoeboxapp/shoebox-server/internal/http/response"
	"github.com/shoeboxapp/shoebox-server/internal/service"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// handleListPhotos returns photos, filterable by owner, album, tag, and
// favorite status via query parameters.
func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	filter := store.PhotoFilter{
		UserID:        queryInt(r, "userId"),
		AlbumID:       queryInt(r, "albumId"),
		Tag:           r.URL.Query().Get("tag"),
		FavoritesOnly: queryBool(r, "favorites"),
	}

	photos, err := s.photoService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, photos, s.logger)
}

// handleCreatePhoto creates a photo record from JSON metadata. File
// uploads go through /upload; this endpoint records photos whose files
// already exist. The owner defaults to the authenticated user.
func (s *Server) handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePhotoRequest
	if err := decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if req.UserID == 0 {
		req.UserID = getUserID(r.Context())
	}

	photo, err := s.photoService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, photo, s.logger)
}

// handleGetPhoto returns a single photo by id.
func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	photo, err := s.photoService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, photo, s.logger)
}

// handleUpdatePhoto applies a partial update to a photo's metadata.
func (s *Server) handleUpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdatePhotoRequest
	if err := decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	photo, err := s.photoService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, photo, s.logger)
}

// handleDeletePhoto removes a photo, its file, and its album links.
func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.photoService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handlePhotoFile streams the stored image bytes.
func (s *Server) handlePhotoFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	file, contentType, err := s.photoService.File(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, file); err != nil {
		s.logger.Warn("failed to stream photo file", "photo_id", id, "error", err)
	}
}
