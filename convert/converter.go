package convert

import (
	"context"
	"errors"
)

// ErrConversionFailed indicates a document yielded no usable text.
// Ingestion of that document aborts as a whole; there is nothing partial
// to salvage.
var ErrConversionFailed = errors.New("document conversion failed")

// Converter turns a document on disk into plain text.
// Implementations must be thread-safe for concurrent use.
type Converter interface {
	// Convert extracts the text of the document at path.
	// Fails with ErrConversionFailed (wrapped) when no text can be produced.
	Convert(ctx context.Context, path string) (string, error)
}
