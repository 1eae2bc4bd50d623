package api

import (
	"net/http"
	"strings"

	"github.com/shoeboxapp/shoebox-server/internal/http/response"
	"github.com/shoeboxapp/shoebox-server/internal/service"
)

// handleUpload accepts a multipart upload. The image goes in the "file"
// part; title, description, and tags ride along as form fields. Tags are
// comma-separated.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		response.BadRequest(w, "Invalid or oversized multipart form", s.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided", s.logger)
		return
	}
	defer file.Close()

	req := service.UploadRequest{
		UserID:      getUserID(r.Context()),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        splitTags(r.FormValue("tags")),
	}

	photo, err := s.uploadService.Upload(r.Context(), req, header.Filename, file)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, photo, s.logger)
}

// splitTags parses a comma-separated tag list, dropping empties.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
