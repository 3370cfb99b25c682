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

package laqrag

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/ai/openai"
	"github.com/poiesic/laqrag/convert"
	"github.com/poiesic/laqrag/ingest"
	"github.com/poiesic/laqrag/reembed"
	"github.com/poiesic/laqrag/search"
	"github.com/poiesic/laqrag/storage"
	"github.com/poiesic/laqrag/storage/badger"
)

// Database owns the vector store and AI provider and vends the pipelines
// that operate on them. One Database maps to one on-disk collection.
type Database struct {
	backend  *badger.Backend
	store    storage.VectorStore
	gateway  *ai.EmbeddingGateway
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	workers  int
}

// WithAIConfig overrides the default AI endpoints and models.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbeddingWorkers sets the embedding concurrency for ingestion.
func WithEmbeddingWorkers(workers int) DatabaseOption {
	return func(o *databaseOptions) {
		o.workers = workers
	}
}

// NewDatabase opens the vector store at filePath and connects the AI
// provider. Close releases both.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	store := badger.NewStore(backend)

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	var gatewayOpts []ai.GatewayOption
	if options.workers > 0 {
		gatewayOpts = append(gatewayOpts, ai.WithWorkers(options.workers))
	}
	gateway, err := ai.NewEmbeddingGateway(provider.Embedder(), gatewayOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		store:    store,
		gateway:  gateway,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider, embedding workers and storage backend.
func (db *Database) Close() error {
	db.gateway.Release()

	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store exposes the underlying vector store.
func (db *Database) Store() storage.VectorStore {
	return db.store
}

// NewIngestionPipeline builds a pipeline that ingests PDF documents into
// this database.
func (db *Database) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(convert.NewPDF(), db.provider.RecordExtractor(), db.gateway, db.store, opts...)
}

// NewSearcher builds a searcher over this database.
func (db *Database) NewSearcher(opts ...search.SearcherOption) (*search.Searcher, error) {
	return search.NewSearcher(db.gateway, db.store, opts...)
}

// NewChat builds a chat synthesizer over this database.
func (db *Database) NewChat(opts ...search.ChatOption) (*search.Chat, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return search.NewChat(searcher, db.provider.Generator(), opts...)
}

// NewReembedder builds a reembedder that refreshes every stored vector with
// the current embedding model. Progress is written to the given writer.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.store, db.provider.Embedder(), config, progress)
}

// Count returns the number of stored Q&A pairs.
func (db *Database) Count(ctx context.Context) (int, error) {
	return db.store.Count(ctx)
}

// Clear removes every stored item. Idempotent.
func (db *Database) Clear(ctx context.Context) error {
	return db.store.Clear(ctx)
}
