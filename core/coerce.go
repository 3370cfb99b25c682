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


package core

import (
	"encoding/json"
	"strings"
)

// fieldSentinel fills required fields the model omitted. Records are stored
// with an explicit placeholder instead of being rejected for missing metadata.
const fieldSentinel = "N/A"

// CoerceRecord turns a raw model response into a validated LAQRecord.
//
// Parsing is attempted in escalating steps: the response as-is (after code
// fence stripping), then with key-quote repair applied, then the substring
// between the outermost brace pair of the repaired text. The repair and
// salvage steps never touch a response the strict parse accepts. If nothing
// parses, a MalformedResponseError with a diagnostic excerpt is returned. A
// record that parses but holds no Q&A pairs fails with ErrEmptyRecord.
//
// No model retry happens here; re-asking the model belongs to the extractor
// that invoked it.
func CoerceRecord(raw string) (*LAQRecord, error) {
	text := stripCodeFences(raw)

	record, ok := parseRecord(text)
	if !ok {
		repaired := repairJSON(text)
		record, ok = parseRecord(repaired)
		if !ok {
			if inner, found := outermostObject(repaired); found {
				record, ok = parseRecord(inner)
			}
		}
	}
	if !ok {
		return nil, newMalformedResponseError(raw)
	}

	applyDefaults(record)

	if len(record.QAPairs) == 0 {
		return nil, ErrEmptyRecord
	}
	return record, nil
}

// parseRecord is one strict parse attempt.
func parseRecord(text string) (*LAQRecord, bool) {
	var record LAQRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, false
	}
	return &record, true
}

// applyDefaults replaces missing required fields with explicit sentinels so
// downstream metadata never carries empty keys.
func applyDefaults(r *LAQRecord) {
	if strings.TrimSpace(r.PDFTitle) == "" {
		r.PDFTitle = fieldSentinel
	}
	r.LAQType = NormalizeLAQType(string(r.LAQType))
	if strings.TrimSpace(r.LAQNumber) == "" {
		r.LAQNumber = fieldSentinel
	}
	if strings.TrimSpace(r.Minister) == "" {
		r.Minister = fieldSentinel
	}
	if strings.TrimSpace(r.TabledBy) == "" {
		r.TabledBy = fieldSentinel
	}
	if strings.TrimSpace(r.Date) == "" {
		r.Date = fieldSentinel
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}
}

// outermostObject returns the substring delimited by the first '{' and the
// last '}' of text. Models routinely wrap their JSON in prose; the widest
// brace span recovers the object without trying to parse the chatter.
func outermostObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON fixes the one malformation local models produce often enough to
// matter: a dropped opening quote on an object key, e.g. `, type":` instead
// of `, "type":`. Anything else is left for the parser to reject.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		out.WriteRune(ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		// Skip whitespace after the delimiter.
		for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t') {
			out.WriteRune(runes[i])
			i++
		}

		// A bare identifier followed by `":` is a key missing its opening quote.
		start := i
		for i < len(runes) && (isKeyRune(runes[i])) {
			i++
		}
		if i > start && i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
			out.WriteRune('"')
		}
		out.WriteString(string(runes[start:i]))
	}
	return out.String()
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
