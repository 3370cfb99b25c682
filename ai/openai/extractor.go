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


package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/core"
	"github.com/tmc/langchaingo/llms"
)

// extractionAttempts bounds how often a malformed response is re-asked.
const extractionAttempts = 3

// RecordExtractor implements ai.RecordExtractor using OpenAI-compatible
// chat APIs.
type RecordExtractor struct {
	client      llms.Model
	maxDocChars int
	logger      *slog.Logger
}

// newRecordExtractor is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newRecordExtractor(client llms.Model, config *ai.Config) *RecordExtractor {
	return &RecordExtractor{
		client:      client,
		maxDocChars: config.MaxDocumentChars,
		logger:      slog.Default().With("component", "openai-extractor"),
	}
}

// NewRecordExtractor creates a record extractor using the provided
// configuration.
//
// Returns ai.RecordExtractor interface to enforce abstraction.
func NewRecordExtractor(config *ai.Config) (ai.RecordExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newRecordExtractor(client, config), nil
}

// ExtractRecord asks the model to structure the document text and coerces the
// response into a validated record. A malformed response is re-asked up to
// extractionAttempts times; an empty record is not, since re-asking does not
// conjure Q&A pairs out of a document that has none.
func (e *RecordExtractor) ExtractRecord(ctx context.Context, documentText string) (*core.LAQRecord, error) {
	text := documentText
	if runes := []rune(text); len(runes) > e.maxDocChars {
		text = string(runes[:e.maxDocChars])
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(extractionSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	var lastErr error
	for attempt := 0; attempt < extractionAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}
		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return nil, core.ErrEmptyRecord
		}

		record, err := core.CoerceRecord(response.Choices[0].Content)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, core.ErrMalformedResponse) {
			return nil, err
		}

		lastErr = err
		e.logger.Warn("error coercing extraction response", "attempt", attempt+1, "err", err)
	}

	e.logger.Error("failed to coerce extraction response after retries", "err", lastErr)
	return nil, lastErr
}
