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
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server.
	EmbeddingHost string

	// GeneratorHost is the base URL for the structuring/generation service API.
	GeneratorHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "nomic-embed-text", "text-embedding-3-small"
	EmbeddingModel string

	// GeneratorModel is the model identifier used for record extraction and
	// answer generation. Example: "mistral", "gpt-4o-mini"
	GeneratorModel string

	// MaxDocumentChars bounds how much converted document text is handed to
	// the extraction prompt. Local models choke on very long contexts.
	// Default: 10000.
	MaxDocumentChars int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the generation service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithHost sets both embedding and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GeneratorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the generator model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithMaxDocumentChars caps how much document text is sent to extraction prompts.
func WithMaxDocumentChars(n int) ConfigOption {
	return func(c *Config) {
		c.MaxDocumentChars = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Both hosts default to the same endpoint.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:    defaultHost,
		GeneratorHost:    defaultHost,
		EmbeddingModel:   "nomic-embed-text",
		GeneratorModel:   "mistral",
		MaxDocumentChars: 10000,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the
// /v1 suffix to hosts if missing, which is required by most OpenAI-compatible
// APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.GeneratorHost != "" && !strings.HasSuffix(c.GeneratorHost, "/v1") {
		c.GeneratorHost = strings.TrimSuffix(c.GeneratorHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.GeneratorHost == "" {
		return errors.New("ai config: GeneratorHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GeneratorModel == "" {
		return errors.New("ai config: GeneratorModel is required")
	}
	if c.MaxDocumentChars < 1 {
		return errors.New("ai config: MaxDocumentChars must be positive")
	}
	return nil
}
