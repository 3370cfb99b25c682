package storage

import (
	"context"

	"github.com/poiesic/laqrag/core"
)

// StoredItem is the durable association of one embedded Q&A pair with its
// vector, metadata snapshot and full document text. Once added, the store
// owns it exclusively; callers keep no long-lived reference.
type StoredItem struct {
	ID       string
	Vector   []float32
	Metadata core.ItemMetadata
	Document string
}

// Match is one raw query result: an item id, its cosine distance to the
// query vector, and the stored metadata snapshot. Distance is left untouched
// for the ranking layer to transform.
type Match struct {
	ID       string
	Distance float64
	Metadata core.ItemMetadata
}

// VectorStore holds embeddings and metadata for the LAQ collection.
// Implementations must be thread-safe and support concurrent access.
// Each operation is a single atomic call; no multi-step transactions are
// performed against a store.
type VectorStore interface {
	// Add upserts one item. Re-adding an existing id overwrites it.
	Add(ctx context.Context, item *StoredItem) error

	// Query returns up to topK items ordered by cosine distance ascending
	// (best match first).
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Get retrieves a single item by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*StoredItem, error)

	// ForEach visits every stored item in key order. A non-nil error from
	// fn stops the walk and is returned.
	ForEach(ctx context.Context, fn func(item *StoredItem) error) error

	// Clear removes the whole collection. Idempotent; clearing an empty
	// collection succeeds.
	Clear(ctx context.Context) error

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
