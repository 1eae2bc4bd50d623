package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/shoeboxapp/shoebox-server/internal/errors"
)

// documentKey is the single key the whole document lives under. Keeping the
// document whole preserves the load/mutate/save contract even on an
// embedded KV store; Badger just gives us crash-safe atomic replacement.
var documentKey = []byte("shoebox:document")

// BadgerBackend persists the document under a single key in a Badger
// database. Selected via STORE_BACKEND=badger.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend opens (or creates) a Badger database at the given path.
func NewBadgerBackend(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

// Init writes an empty document if the key does not exist yet.
func (b *BadgerBackend) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(documentKey)
		return err
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("check document key: %w", err)
	}
	return b.Save(ctx, NewDocument())
}

// Load reads and parses the whole document.
func (b *BadgerBackend) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc Document
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return nil, apperrors.Unavailable("document unreadable").WithCause(err)
	}

	doc.normalize()
	return &doc, nil
}

// Save persists the whole document in one transaction.
func (b *BadgerBackend) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(documentKey, data)
	})
	if err != nil {
		return apperrors.Unavailable("persist document").WithCause(err)
	}
	return nil
}

// Close closes the underlying database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
