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

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/convert"
	"github.com/poiesic/laqrag/core"
	"github.com/poiesic/laqrag/storage"
)

// metadataFieldLimit caps the question and answer snapshots persisted in item
// metadata. The embedding input is never truncated; only the metadata copy is.
const metadataFieldLimit = 500

// skipReasonEmbedding is the reason recorded for pairs whose embedding call
// failed or returned an empty vector.
const skipReasonEmbedding = "embedding failed"

// Skip records one Q&A pair that was not stored. Index is 1-based, matching
// the qa suffix of item ids.
type Skip struct {
	Index  int
	Reason string
}

// Report summarizes one document ingestion.
type Report struct {
	Attempted int
	Stored    int
	Skipped   []Skip
}

// Pipeline ingests LAQ documents: convert to text, extract a structured
// record, embed each Q&A pair, store the pairs that embedded.
type Pipeline struct {
	converter convert.Converter
	extractor ai.RecordExtractor
	gateway   *ai.EmbeddingGateway
	store     storage.VectorStore
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	converter convert.Converter,
	extractor ai.RecordExtractor,
	gateway *ai.EmbeddingGateway,
	store storage.VectorStore,
	opts ...Option,
) (*Pipeline, error) {
	if converter == nil {
		return nil, ErrConverterRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	p := &Pipeline{
		converter: converter,
		extractor: extractor,
		gateway:   gateway,
		store:     store,
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Ingest processes one document end to end. Conversion and extraction
// failures abort the whole document with an error; embedding failures skip
// only the affected pair and are reported in the Report. When every pair
// fails to embed, nothing is stored and the error is nil.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*Report, error) {
	sourceName := filepath.Base(path)

	text, err := p.converter.Convert(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", sourceName, err)
	}

	record, err := p.extractor.ExtractRecord(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extracting record from %s: %w", sourceName, err)
	}

	p.logger.Info("extracted record",
		"source", sourceName,
		"laq_num", record.LAQNumber,
		"qa_pairs", len(record.QAPairs))

	texts := make([]string, len(record.QAPairs))
	for i, pair := range record.QAPairs {
		texts[i] = embeddingInput(pair)
	}

	embeddings := p.gateway.EmbedMany(ctx, texts)

	docHash := core.DocumentHash(text)
	report := &Report{Attempted: len(record.QAPairs)}

	for i, pair := range record.QAPairs {
		index := i + 1

		if embeddings[i].Failed() {
			p.logger.Warn("skipping pair",
				"source", sourceName,
				"pair", index,
				"error", embeddings[i].Err)
			report.Skipped = append(report.Skipped, Skip{Index: index, Reason: skipReasonEmbedding})
			continue
		}

		item := &storage.StoredItem{
			ID:       core.ItemID(sourceName, record.LAQNumber, index),
			Vector:   embeddings[i].Vector,
			Metadata: buildMetadata(sourceName, docHash, record, pair, index),
			Document: texts[i],
		}
		if err := p.store.Add(ctx, item); err != nil {
			return report, fmt.Errorf("storing %s: %w", item.ID, err)
		}
		report.Stored++
	}

	p.logger.Info("ingested document",
		"source", sourceName,
		"stored", report.Stored,
		"skipped", len(report.Skipped))

	return report, nil
}

// embeddingInput is the canonical text embedded for one pair. Full question
// and answer, untruncated.
func embeddingInput(pair core.QAPair) string {
	return "Q: " + pair.Question + "\nA: " + pair.Answer
}

// buildMetadata snapshots the record fields for one pair. Question and answer
// are truncated to metadataFieldLimit runes; attachments are stored as a
// JSON-encoded string list so the flat map stays string-valued.
func buildMetadata(sourceName, docHash string, record *core.LAQRecord, pair core.QAPair, index int) core.ItemMetadata {
	attachments := record.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		encoded = []byte("[]")
	}

	return core.ItemMetadata{
		core.MetaPDF:         sourceName,
		core.MetaPDFTitle:    record.PDFTitle,
		core.MetaLAQNum:      record.LAQNumber,
		core.MetaQAPairNum:   fmt.Sprintf("%d", index),
		core.MetaType:        string(record.LAQType),
		core.MetaQuestion:    truncateRunes(pair.Question, metadataFieldLimit),
		core.MetaAnswer:      truncateRunes(pair.Answer, metadataFieldLimit),
		core.MetaMinister:    record.Minister,
		core.MetaDate:        record.Date,
		core.MetaAttachments: string(encoded),
		core.MetaDocHash:     docHash,
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
