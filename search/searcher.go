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

package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/core"
	"github.com/poiesic/laqrag/storage"
)

// DefaultTopK is how many results a search returns when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// Searcher embeds a query and ranks the nearest stored LAQ items.
type Searcher struct {
	gateway *ai.EmbeddingGateway
	store   storage.VectorStore
	logger  *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher) error

// WithSearcherLogger sets a custom logger.
// Default is slog.Default().
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over the given gateway and store.
func NewSearcher(gateway *ai.EmbeddingGateway, store storage.VectorStore, opts ...SearcherOption) (*Searcher, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		gateway: gateway,
		store:   store,
		logger:  slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query and returns up to topK ranked results, closest
// first. Blank queries fail with ErrEmptyQuery before any model call; an
// embedding failure surfaces as ErrQueryEmbedding. topK values below 1 fall
// back to DefaultTopK.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK < 1 {
		topK = DefaultTopK
	}

	embedding := s.gateway.EmbedOne(ctx, query)
	if embedding.Failed() {
		return nil, fmt.Errorf("%w: %w", ErrQueryEmbedding, embedding.Err)
	}

	matches, err := s.store.Query(ctx, embedding.Vector, topK)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}

	results := Rank(matches)

	s.logger.Debug("search complete", "query_len", len(query), "results", len(results))
	return results, nil
}
