package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/laqrag/ai"
	"github.com/poiesic/laqrag/ai/mock"
	"github.com/poiesic/laqrag/core"
	"github.com/poiesic/laqrag/storage"
	"github.com/poiesic/laqrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConverter implements convert.Converter with a canned result.
type testConverter struct {
	text string
	err  error
}

func (c *testConverter) Convert(ctx context.Context, path string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

func testRecord(pairs ...core.QAPair) *core.LAQRecord {
	return &core.LAQRecord{
		PDFTitle:    "LAQ No. 010C",
		LAQType:     core.LAQTypeStarred,
		LAQNumber:   "010C",
		Minister:    "Minister for Ports",
		TabledBy:    "Shri A. Kumar",
		Date:        "2024-07-15",
		QAPairs:     pairs,
		Attachments: []string{"annexure-a.pdf"},
	}
}

func newTestPipeline(t *testing.T, record *core.LAQRecord, failOn string) (*Pipeline, storage.VectorStore) {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if failOn != "" && strings.Contains(text, failOn) {
			return nil, errors.New("model unavailable")
		}
		return []float32{1, float32(len(text))}, nil
	}

	extractor := mock.NewMockRecordExtractor()
	extractor.ExtractRecordFunc = func(ctx context.Context, documentText string) (*core.LAQRecord, error) {
		return record, nil
	}

	gateway, err := ai.NewEmbeddingGateway(embedder)
	require.NoError(t, err)
	t.Cleanup(gateway.Release)

	pipeline, err := NewPipeline(&testConverter{text: "document text"}, extractor, gateway, store)
	require.NoError(t, err)

	return pipeline, store
}

func TestNewPipeline_RequiresCollaborators(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	gateway, err := ai.NewEmbeddingGateway(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer gateway.Release()

	converter := &testConverter{}
	extractor := mock.NewMockRecordExtractor()

	_, err = NewPipeline(nil, extractor, gateway, store)
	assert.ErrorIs(t, err, ErrConverterRequired)

	_, err = NewPipeline(converter, nil, gateway, store)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewPipeline(converter, extractor, nil, store)
	assert.ErrorIs(t, err, ErrGatewayRequired)

	_, err = NewPipeline(converter, extractor, gateway, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestIngest_StoresEveryPair(t *testing.T) {
	record := testRecord(
		core.QAPair{Question: "Will the jetty be repaired?", Answer: "Yes, by March."},
		core.QAPair{Question: "What is the sanctioned amount?", Answer: "Rs. 4.2 crore."},
	)
	pipeline, store := newTestPipeline(t, record, "")
	ctx := context.Background()

	report, err := pipeline.Ingest(ctx, "/tmp/uploads/laq_042.pdf")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 2, report.Stored)
	assert.Empty(t, report.Skipped)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	item, err := store.Get(ctx, "laq_042_010C_qa1")
	require.NoError(t, err)
	assert.Equal(t, "Q: Will the jetty be repaired?\nA: Yes, by March.", item.Document)
	assert.NotEmpty(t, item.Vector)
}

func TestIngest_MetadataSnapshot(t *testing.T) {
	record := testRecord(
		core.QAPair{Question: "Will the jetty be repaired?", Answer: "Yes, by March."},
	)
	pipeline, store := newTestPipeline(t, record, "")
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, "laq_042.pdf")
	require.NoError(t, err)

	item, err := store.Get(ctx, "laq_042_010C_qa1")
	require.NoError(t, err)

	meta := item.Metadata
	assert.Equal(t, "laq_042.pdf", meta[core.MetaPDF])
	assert.Equal(t, "LAQ No. 010C", meta[core.MetaPDFTitle])
	assert.Equal(t, "010C", meta[core.MetaLAQNum])
	assert.Equal(t, "1", meta[core.MetaQAPairNum])
	assert.Equal(t, "Starred", meta[core.MetaType])
	assert.Equal(t, "Will the jetty be repaired?", meta[core.MetaQuestion])
	assert.Equal(t, "Yes, by March.", meta[core.MetaAnswer])
	assert.Equal(t, "Minister for Ports", meta[core.MetaMinister])
	assert.Equal(t, "2024-07-15", meta[core.MetaDate])
	assert.Equal(t, `["annexure-a.pdf"]`, meta[core.MetaAttachments])
	assert.Equal(t, core.DocumentHash("document text"), meta[core.MetaDocHash])
}

func TestIngest_MetadataTruncatedEmbeddingIsNot(t *testing.T) {
	longAnswer := strings.Repeat("x", 620)
	record := testRecord(core.QAPair{Question: "Q1", Answer: longAnswer})
	pipeline, store := newTestPipeline(t, record, "")
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, "laq_042.pdf")
	require.NoError(t, err)

	item, err := store.Get(ctx, "laq_042_010C_qa1")
	require.NoError(t, err)

	assert.Len(t, []rune(item.Metadata[core.MetaAnswer]), 500)
	assert.Equal(t, "Q: Q1\nA: "+longAnswer, item.Document)
}

func TestIngest_FailedPairIsSkipped(t *testing.T) {
	record := testRecord(
		core.QAPair{Question: "Will the jetty be repaired?", Answer: "Yes, by March."},
		core.QAPair{Question: "BROKEN question", Answer: "n/a"},
	)
	pipeline, store := newTestPipeline(t, record, "BROKEN")
	ctx := context.Background()

	report, err := pipeline.Ingest(ctx, "laq_042.pdf")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Stored)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, Skip{Index: 2, Reason: "embedding failed"}, report.Skipped[0])

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = store.Get(ctx, "laq_042_010C_qa2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngest_AllPairsFailNothingStored(t *testing.T) {
	record := testRecord(
		core.QAPair{Question: "BROKEN one", Answer: "a"},
		core.QAPair{Question: "BROKEN two", Answer: "b"},
	)
	pipeline, store := newTestPipeline(t, record, "BROKEN")
	ctx := context.Background()

	report, err := pipeline.Ingest(ctx, "laq_042.pdf")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 0, report.Stored)
	assert.Len(t, report.Skipped, 2)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngest_ReingestOverwrites(t *testing.T) {
	record := testRecord(core.QAPair{Question: "Q1", Answer: "first"})
	pipeline, store := newTestPipeline(t, record, "")
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, "laq_042.pdf")
	require.NoError(t, err)

	record.QAPairs[0].Answer = "second"
	_, err = pipeline.Ingest(ctx, "laq_042.pdf")
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	item, err := store.Get(ctx, "laq_042_010C_qa1")
	require.NoError(t, err)
	assert.Equal(t, "Q: Q1\nA: second", item.Document)
}

func TestIngest_ConversionFailureAborts(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	gateway, err := ai.NewEmbeddingGateway(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer gateway.Release()

	convErr := errors.New("unreadable file")
	pipeline, err := NewPipeline(&testConverter{err: convErr}, mock.NewMockRecordExtractor(), gateway, store)
	require.NoError(t, err)

	_, err = pipeline.Ingest(context.Background(), "laq_042.pdf")
	assert.ErrorIs(t, err, convErr)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngest_ExtractionFailureAborts(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	gateway, err := ai.NewEmbeddingGateway(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer gateway.Release()

	extractor := mock.NewMockRecordExtractor()
	extractor.ExtractRecordFunc = func(ctx context.Context, documentText string) (*core.LAQRecord, error) {
		return nil, core.ErrEmptyRecord
	}

	pipeline, err := NewPipeline(&testConverter{text: "text"}, extractor, gateway, store)
	require.NoError(t, err)

	_, err = pipeline.Ingest(context.Background(), "laq_042.pdf")
	assert.ErrorIs(t, err, core.ErrEmptyRecord)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
