package service

import (
	"context"
	"log/slog"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

// UserService exposes user listing and lookup. User creation goes through
// AuthService.Register so a credential is always attached.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger,
	}
}

// List returns all users. Credentials are stripped by the store.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id int) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetByEmail returns the user with the given email (exact match).
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.GetUserByEmail(ctx, email)
}
