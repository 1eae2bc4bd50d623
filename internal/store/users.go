package store

import (
	"context"
	"time"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
)

// ListUsers returns all users in insertion order with credentials stripped.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := s.View(ctx, func(doc *Document) error {
		users = make([]*domain.User, 0, len(doc.Users))
		for _, u := range doc.Users {
			users = append(users, u.Sanitized())
		}
		return nil
	})
	return users, err
}

// GetUser returns one user by id with the credential stripped.
func (s *Store) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var user *domain.User
	err := s.View(ctx, func(doc *Document) error {
		u := doc.FindUser(id)
		if u == nil {
			return apperrors.NotFoundf("user %d not found", id)
		}
		user = u.Sanitized()
		return nil
	})
	return user, err
}

// GetUserByEmail returns the user with the given email (exact match) with
// the credential stripped.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.View(ctx, func(doc *Document) error {
		u := doc.FindUserByEmail(email)
		if u == nil {
			return apperrors.NotFound("user not found")
		}
		user = u.Sanitized()
		return nil
	})
	return user, err
}

// GetUserWithCredential returns the user with the given email including the
// stored credential. Only the auth service may call this; every other read
// path strips the credential.
func (s *Store) GetUserWithCredential(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.View(ctx, func(doc *Document) error {
		u := doc.FindUserByEmail(email)
		if u == nil {
			return apperrors.NotFound("user not found")
		}
		c := *u
		user = &c
		return nil
	})
	return user, err
}

// CreateUser inserts a new user, assigning the next id and the creation
// timestamp. Fails with a conflict if another user already has the email;
// the uniqueness check and the insert happen in the same critical section.
// The returned record has the credential stripped.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created *domain.User
	err := s.Update(ctx, func(doc *Document) error {
		if doc.FindUserByEmail(user.Email) != nil {
			return apperrors.Conflict("a user with this email already exists")
		}

		u := *user
		u.ID = doc.NextUserID()
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}

		doc.Users = append(doc.Users, &u)
		created = u.Sanitized()
		return nil
	})
	return created, err
}
