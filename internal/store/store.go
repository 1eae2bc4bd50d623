// Package store implements the shared document store and the per-entity
// repositories on top of it.
//
// Every operation is a full read-modify-write cycle against the backend:
// load the document, mutate it, persist it. A single mutex serializes those
// cycles, which is what makes max+1 id assignment and the two-sided
// album↔photo link updates atomic — without it, two concurrent writers
// would both read the same prior state and the second save would silently
// overwrite the first.
package store

import (
	"context"
	"log/slog"
	"sync"
)

// Store wraps a Backend with a serialized read-modify-write cycle.
// There is deliberately no caching: reads also reload the document, so a
// process restart or an external edit of the file backend is picked up
// immediately.
type Store struct {
	backend Backend
	logger  *slog.Logger

	// mu is the single serialization point for all document access.
	mu sync.Mutex
}

// New creates a Store on top of the given backend.
func New(backend Backend, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// View runs fn against a freshly loaded document without persisting.
// Mutations made by fn are discarded.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update runs fn against a freshly loaded document and persists the result
// if fn succeeds. The load, mutation, and save happen inside one critical
// section, so no other operation can observe a half-applied update.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.backend.Save(ctx, doc)
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing document store")
	}
	return s.backend.Close()
}
