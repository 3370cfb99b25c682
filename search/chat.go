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

package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/core"
)

// chatTopK is how many results ground a chat answer.
const chatTopK = 3

// Chat answers questions about the archive, grounded on the top-ranked
// stored LAQ items.
type Chat struct {
	searcher  *Searcher
	generator ai.Generator
	logger    *slog.Logger
}

// ChatOption configures a Chat.
type ChatOption func(*Chat) error

// WithChatLogger sets a custom logger.
// Default is slog.Default().
func WithChatLogger(logger *slog.Logger) ChatOption {
	return func(c *Chat) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChat creates a chat synthesizer over the given searcher and generator.
func NewChat(searcher *Searcher, generator ai.Generator, opts ...ChatOption) (*Chat, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	c := &Chat{
		searcher:  searcher,
		generator: generator,
		logger:    slog.Default().With("component", "chat"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Answer retrieves the top matches for the query, builds a grounding context
// from their metadata, and asks the generator to answer from it. The answer
// is returned unmodified alongside the ranked sources. When nothing matches,
// the answer is empty and sources are nil.
func (c *Chat) Answer(ctx context.Context, query string) (string, []core.SearchResult, error) {
	results, err := c.searcher.Search(ctx, query, chatTopK)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return "", nil, nil
	}

	prompt := buildPrompt(results, query)

	answer, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return "", nil, err
	}

	c.logger.Debug("chat answer generated", "sources", len(results))
	return answer, results, nil
}

// buildPrompt renders the grounding context followed by the instruction and
// the user's query verbatim.
func buildPrompt(results []core.SearchResult, query string) string {
	var b strings.Builder
	b.WriteString("Relevant LAQs:\n")
	for _, result := range results {
		meta := result.Metadata
		b.WriteString("\nLAQ Type: " + metaOrNA(meta, core.MetaType))
		b.WriteString("\nLAQ No: " + metaOrNA(meta, core.MetaLAQNum))
		b.WriteString("\nMinister: " + metaOrNA(meta, core.MetaMinister))
		b.WriteString("\nDate: " + metaOrNA(meta, core.MetaDate))
		b.WriteString("\nQ: " + metaOrNA(meta, core.MetaQuestion))
		b.WriteString("\nA: " + metaOrNA(meta, core.MetaAnswer))
		if attachments := attachmentList(meta); attachments != "" {
			b.WriteString("\nAttachments: " + attachments)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n\nAnswer this query based on above LAQs:\n")
	b.WriteString(query)
	return b.String()
}

func metaOrNA(meta core.ItemMetadata, key string) string {
	if value, ok := meta[key]; ok && value != "" {
		return value
	}
	return "N/A"
}

// attachmentList decodes the JSON-encoded attachments metadata into a
// comma-separated list. Empty or undecodable values render nothing.
func attachmentList(meta core.ItemMetadata) string {
	var names []string
	if err := json.Unmarshal([]byte(meta[core.MetaAttachments]), &names); err != nil {
		return ""
	}
	return strings.Join(names, ", ")
}
