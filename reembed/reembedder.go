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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of items embedded per model call.
	BatchSize int

	// ReportInterval is how often to report progress (number of items).
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder re-embeds the document text of every stored item and writes the
// new vectors back in place.
type Reembedder struct {
	store    storage.VectorStore
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store storage.VectorStore, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reembedder{
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
	}
}

// Run re-embeds every stored item in batches. Item ids, metadata and document
// text are preserved; only vectors change.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting items: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No items found in database (0 items)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d items (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	batch := make([]*storage.StoredItem, 0, r.config.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.processBatch(ctx, batch); err != nil {
			return err
		}
		processed += len(batch)
		tracker.Update(processed)
		batch = batch[:0]
		return nil
	}

	err = r.store.ForEach(ctx, func(item *storage.StoredItem) error {
		batch = append(batch, item)
		if len(batch) >= r.config.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d items in %v (%.1f items/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// processBatch embeds one batch of documents with retry and writes the items
// back with their new vectors.
func (r *Reembedder) processBatch(ctx context.Context, items []*storage.StoredItem) error {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Document
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(items), len(embeddings))
	}

	for i, item := range items {
		item.Vector = embeddings[i]
		if err := r.store.Add(ctx, item); err != nil {
			return fmt.Errorf("updating %s: %w", item.ID, err)
		}
	}

	return nil
}
