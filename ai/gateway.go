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


package ai

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyEmbedding indicates the embedding service returned a vector of
	// length zero, which is as unusable as an outright failure.
	ErrEmptyEmbedding = errors.New("embedding service returned empty vector")
)

// Embedding is the per-item result of an embedding call. A failed item
// carries its error here instead of aborting the batch; one malformed Q&A
// pair must not prevent storing the rest of a document.
type Embedding struct {
	Vector []float32
	Err    error
}

// Failed reports whether this item's embedding call failed.
func (e Embedding) Failed() bool {
	return e.Err != nil
}

// EmbeddingGateway wraps an Embedder with failure isolation and batch
// semantics. Batch items run concurrently on a bounded worker pool; results
// are reassembled in input order.
type EmbeddingGateway struct {
	embedder Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

// GatewayOption configures an EmbeddingGateway.
type GatewayOption func(*EmbeddingGateway) error

// WithWorkers sets the worker pool size for batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) GatewayOption {
	return func(g *EmbeddingGateway) error {
		if size < 1 {
			size = 1
		}
		if g.pool != nil {
			g.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		g.pool = pool
		return nil
	}
}

// WithGatewayLogger sets a custom logger. Default is slog.Default().
func WithGatewayLogger(logger *slog.Logger) GatewayOption {
	return func(g *EmbeddingGateway) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewEmbeddingGateway creates a gateway over the given embedder.
func NewEmbeddingGateway(embedder Embedder, opts ...GatewayOption) (*EmbeddingGateway, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	g := &EmbeddingGateway{
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default().With("component", "embedding-gateway"),
	}
	for _, opt := range opts {
		if optErr := opt(g); optErr != nil {
			g.Release()
			return nil, optErr
		}
	}
	return g, nil
}

// EmbedOne embeds a single text. Failure is a typed result, never a panic or
// an error escaping this boundary.
func (g *EmbeddingGateway) EmbedOne(ctx context.Context, text string) Embedding {
	vector, err := g.embedder.EmbedText(ctx, text)
	if err != nil {
		g.logger.Warn("embedding failed", "length", len(text), "err", err)
		return Embedding{Err: err}
	}
	if len(vector) == 0 {
		return Embedding{Err: ErrEmptyEmbedding}
	}
	return Embedding{Vector: vector}
}

// EmbedMany embeds every text, one result per input, preserving input order
// and count. Failures are marked per position; the output is never shortened.
// Items run concurrently up to the pool size.
func (g *EmbeddingGateway) EmbedMany(ctx context.Context, texts []string) []Embedding {
	results := make([]Embedding, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		err := g.pool.Submit(func() {
			defer wg.Done()
			results[i] = g.EmbedOne(ctx, text)
		})
		if err != nil {
			results[i] = Embedding{Err: err}
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// Release releases the worker pool. The gateway should not be used afterwards.
func (g *EmbeddingGateway) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}
