package service

import (
	"context"

	"github.com/shoeboxapp/shoebox-server/internal/search"
)

// SearchService exposes full-text photo search.
type SearchService struct {
	index *search.SearchIndex
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Photos runs a photo search with the given parameters.
func (s *SearchService) Photos(ctx context.Context, params search.Params) (*search.Result, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = search.DefaultParams().Limit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.index.Search(ctx, params)
}
