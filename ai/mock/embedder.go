package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields. The call counter
// is safe for concurrent use; the embedding gateway fans calls out across
// workers. Function fields must be set before the mock is shared.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu        sync.Mutex
	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.recordCall()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return deterministicVector(text, 64), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.recordCall()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, 64)
	}
	return vectors, nil
}

func (m *MockEmbedder) recordCall() {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// deterministicVector creates a unit-norm embedding vector from text.
// The same text always produces the same vector, so similarity between a
// text and itself is exactly 1.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	var sumSquares float64
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
		sumSquares += float64(vector[i]) * float64(vector[i])
	}

	if sumSquares > 0 {
		inv := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= inv
		}
	}
	return vector
}
