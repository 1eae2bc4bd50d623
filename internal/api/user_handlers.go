package api

import (
	"net/http"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
	"github.com/shoeboxapp/shoebox-server/internal/http/response"
)

// handleListUsers returns all users, or the one matching ?email= (exact
// match, empty list when absent). Credentials are never included.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		user, err := s.userService.GetByEmail(r.Context(), email)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			response.Success(w, []*domain.User{}, s.logger)
			return
		}
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		response.Success(w, []*domain.User{user}, s.logger)
		return
	}

	users, err := s.userService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, users, s.logger)
}

// handleGetUser returns a single user by id.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.userService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}
