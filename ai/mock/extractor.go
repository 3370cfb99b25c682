package mock

import (
	"context"

	"github.com/poiesic/laqrag/core"
)

// MockRecordExtractor is a test double for ai.RecordExtractor.
// It allows custom behavior injection via function fields.
type MockRecordExtractor struct {
	// ExtractRecordFunc is called by ExtractRecord if set.
	// If nil, uses default coercion of the document text itself, falling back
	// to a canned single-pair record for non-JSON input.
	ExtractRecordFunc func(ctx context.Context, documentText string) (*core.LAQRecord, error)

	callCount int
}

// NewMockRecordExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockRecordExtractor() *MockRecordExtractor {
	return &MockRecordExtractor{}
}

// ExtractRecord coerces documentText directly when it is JSON, so tests can
// feed exact records through the pipeline without a model. Plain text yields
// a minimal one-pair record.
func (m *MockRecordExtractor) ExtractRecord(ctx context.Context, documentText string) (*core.LAQRecord, error) {
	m.callCount++

	if m.ExtractRecordFunc != nil {
		return m.ExtractRecordFunc(ctx, documentText)
	}

	if record, err := core.CoerceRecord(documentText); err == nil {
		return record, nil
	}
	return &core.LAQRecord{
		PDFTitle:    "N/A",
		LAQType:     core.LAQTypeUnknown,
		LAQNumber:   "mock",
		Minister:    "N/A",
		TabledBy:    "N/A",
		Date:        "N/A",
		QAPairs:     []core.QAPair{{Question: documentText, Answer: "mock answer"}},
		Attachments: []string{},
	}, nil
}

// CallCount returns the number of times ExtractRecord was called.
func (m *MockRecordExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockRecordExtractor) Reset() {
	m.callCount = 0
	m.ExtractRecordFunc = nil
}
