package ai

import (
	"context"

	"github.com/poiesic/laqrag/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails; callers
	// that need per-item failure isolation go through EmbeddingGateway instead.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// RecordExtractor converts the free text of one LAQ document into a
// validated structured record.
// Implementations must be thread-safe for concurrent use.
type RecordExtractor interface {
	// ExtractRecord asks the model to structure documentText and coerces the
	// response. Fails with core.ErrMalformedResponse (wrapped) when the model
	// output cannot be coerced and with core.ErrEmptyRecord when it yields no
	// Q&A pairs.
	ExtractRecord(ctx context.Context, documentText string) (*core.LAQRecord, error)
}

// Generator produces free text from a prompt. Used for grounded answer
// synthesis; decoding is deterministic (temperature zero) and non-streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages the Embedder,
// RecordExtractor and Generator instances, ensuring they share configuration.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// RecordExtractor returns the LAQ structuring service.
	RecordExtractor() RecordExtractor

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}
