package store

import "context"

// Backend loads and persists the whole document. Implementations must make
// Save atomic from the caller's perspective: a concurrent or crashed reader
// never observes a half-written document.
//
// Load fails with a STORE_UNAVAILABLE error when the backing data is missing
// or unparsable as the expected schema. Init is the explicit bootstrap path:
// it creates an empty document if none exists yet, and is only called during
// startup.
type Backend interface {
	Init(ctx context.Context) error
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Close() error
}
