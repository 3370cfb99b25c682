// Package ai defines the interfaces for the external AI collaborators used
// by the LAQ pipeline: text embedding, record extraction, and answer
// generation. Production implementations live in ai/openai; test doubles in
// ai/mock.
//
// The EmbeddingGateway wraps any Embedder with per-item failure isolation
// and order-preserving batch semantics, which the ingestion pipeline relies
// on to continue past individual failures.
package ai
