// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/laqrag/storage"
)

// Store implements storage.VectorStore for BadgerDB. Queries are a full
// prefix scan with exact cosine distance; at LAQ-archive scale that beats
// carrying an ANN index.
type Store struct {
	backend *Backend
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore creates a vector store over the given backend.
func NewStore(backend *Backend) *Store {
	return &Store{backend: backend}
}

// Add upserts one item. Badger's Set overwrites an existing key, which gives
// the re-ingest-overwrites semantics the deterministic ids rely on.
func (s *Store) Add(ctx context.Context, item *storage.StoredItem) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeItemKey(item.ID), storage.MarshalStoredItem(item)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a single item by id.
func (s *Store) Get(ctx context.Context, id string) (*storage.StoredItem, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var result *storage.StoredItem
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := tx.Get(makeItemKey(id))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return entry.Value(func(val []byte) error {
			result, err = storage.UnmarshalStoredItem(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Query returns up to topK items ordered by cosine distance ascending.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]storage.Match, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if len(vector) == 0 || topK < 1 {
		return nil, storage.ErrInvalidQuery
	}

	var matches []storage.Match
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var item *storage.StoredItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalStoredItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if item == nil || len(item.Vector) == 0 {
				continue
			}

			matches = append(matches, storage.Match{
				ID:       item.ID,
				Distance: cosineDistance(vector, item.Vector),
				Metadata: item.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b storage.Match) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// ForEach visits every stored item in key order.
func (s *Store) ForEach(ctx context.Context, fn func(item *storage.StoredItem) error) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var item *storage.StoredItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalStoredItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Clear removes the whole collection. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return s.backend.DropPrefix([]byte(itemPrefix))
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// cosineDistance is 1 - cosine similarity, so identical directions give 0
// and opposite directions give 2. Vectors are not assumed normalized.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
