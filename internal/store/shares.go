package store

import (
	"context"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
)

// ListShares returns all shares in insertion order.
func (s *Store) ListShares(ctx context.Context) ([]*domain.Share, error) {
	var shares []*domain.Share
	err := s.View(ctx, func(doc *Document) error {
		shares = make([]*domain.Share, 0, len(doc.Shares))
		shares = append(shares, doc.Shares...)
		return nil
	})
	return shares, err
}

// GetShare returns one share by its id (the album's share id).
// ExpiresAt is never checked here or anywhere else; expiry is recorded but
// inert.
func (s *Store) GetShare(ctx context.Context, shareID string) (*domain.Share, error) {
	var share *domain.Share
	err := s.View(ctx, func(doc *Document) error {
		sh := doc.FindShare(shareID)
		if sh == nil {
			return apperrors.NotFound("share not found")
		}
		share = sh
		return nil
	})
	return share, err
}
