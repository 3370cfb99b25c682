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


package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from PDF files. When the PDF library cannot read
// the file (scanned or malformed PDFs are common in assembly archives), it
// falls back to salvaging printable runes from the raw bytes.
type PDF struct {
	logger *slog.Logger
}

var _ Converter = (*PDF)(nil)

// NewPDF creates a PDF converter.
func NewPDF() *PDF {
	return &PDF{logger: slog.Default().With("component", "pdf-converter")}
}

// Convert extracts the text of the PDF at path.
func (p *PDF) Convert(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	text := extractText(data)
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("no text extracted from document", "path", path)
		return "", fmt.Errorf("%w: no text in %s", ErrConversionFailed, path)
	}

	p.logger.Debug("converted document", "path", path, "chars", len(text))
	return text, nil
}

func extractText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		if reader, err := r.GetPlainText(); err == nil {
			if out, err := io.ReadAll(reader); err == nil && len(out) > 0 {
				return string(out)
			}
		}
	}
	return printableText(data)
}

// printableText keeps printable runes and common whitespace, dropping
// everything else. A crude last resort, but enough for retrieval over
// documents the PDF parser rejects.
func printableText(in []byte) string {
	var out strings.Builder
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			if b := in[0]; isPrintableASCII(b) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isPrintableASCII(b byte) bool {
	return b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127)
}

func isPrintableRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}
	return r >= 32 && r != 0x7f
}
