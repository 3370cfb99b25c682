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


package mock

import "github.com/poiesic/laqrag/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, extractor and generator instances.
type MockProvider struct {
	embedder  *MockEmbedder
	extractor *MockRecordExtractor
	generator *MockGenerator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production
// constructors. Use the Get* accessors for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockRecordExtractor(),
		generator: NewMockGenerator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services, for full control over each service's behavior.
func NewMockProviderWithServices(embedder *MockEmbedder, extractor *MockRecordExtractor, generator *MockGenerator) ai.AIProvider {
	return &MockProvider{
		embedder:  embedder,
		extractor: extractor,
		generator: generator,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// RecordExtractor returns the mock record extractor.
func (p *MockProvider) RecordExtractor() ai.RecordExtractor {
	return p.extractor
}

// Generator returns the mock generator.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockRecordExtractor {
	return p.extractor
}

// GetMockGenerator returns the underlying mock generator for test assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}
