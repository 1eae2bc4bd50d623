package api

import (
	"net/http"

	"github.com/shoeboxapp/shoebox-server/internal/http/response"
	"github.com/shoeboxapp/shoebox-server/internal/search"
)

// handleSearchPhotos runs a full-text photo search.
// Query parameters: q, userId, tag (repeatable), favorites, limit,
// offset, sort (relevance|title|recent), order (asc|desc).
func (s *Server) handleSearchPhotos(w http.ResponseWriter, r *http.Request) {
	params := search.DefaultParams()
	params.Query = r.URL.Query().Get("q")
	params.UserID = queryInt(r, "userId")
	params.Tags = r.URL.Query()["tag"]
	params.FavoritesOnly = queryBool(r, "favorites")

	if limit := queryInt(r, "limit"); limit > 0 {
		params.Limit = limit
	}
	if offset := queryInt(r, "offset"); offset > 0 {
		params.Offset = offset
	}
	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := r.URL.Query().Get("order"); order != "" {
		params.SortOrder = order
	}

	result, err := s.searchService.Photos(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
