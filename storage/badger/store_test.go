package badger

import (
	"context"
	"testing"

	"github.com/poiesic/laqrag/core"
	"github.com/poiesic/laqrag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testItem(id string, vector []float32) *storage.StoredItem {
	return &storage.StoredItem{
		ID:       id,
		Vector:   vector,
		Metadata: core.ItemMetadata{core.MetaLAQNum: "010C", core.MetaQAPairNum: "1"},
		Document: "Q: q\nA: a",
	}
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := testItem("doc_1_qa1", []float32{1, 0, 0})
	require.NoError(t, store.Add(ctx, item))

	got, err := store.Get(ctx, "doc_1_qa1")
	require.NoError(t, err)
	assert.Equal(t, item, got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAdd_SameIDOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testItem("doc_1_qa1", []float32{1, 0, 0})))
	require.NoError(t, store.Add(ctx, testItem("doc_1_qa1", []float32{0, 1, 0})))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Get(ctx, "doc_1_qa1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, got.Vector)
}

func TestQuery_OrderedByDistance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testItem("far", []float32{0, 1, 0})))
	require.NoError(t, store.Add(ctx, testItem("near", []float32{1, 0.1, 0})))
	require.NoError(t, store.Add(ctx, testItem("exact", []float32{2, 0, 0})))

	matches, err := store.Query(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "exact", matches[0].ID)
	assert.Equal(t, "near", matches[1].ID)
	assert.Equal(t, "far", matches[2].ID)

	// Scaled copies of the query direction are distance 0; orthogonal is 1.
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
	assert.InDelta(t, 1, matches[2].Distance, 1e-6)
}

func TestQuery_TopKLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Add(ctx, testItem(id, []float32{1, 0, 0})))
	}

	matches, err := store.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestQuery_InvalidParameters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Query(ctx, nil, 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = store.Query(ctx, []float32{1}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestQuery_CarriesMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testItem("doc_1_qa1", []float32{1, 0})))

	matches, err := store.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "010C", matches[0].Metadata[core.MetaLAQNum])
}

func TestClear_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, testItem("a", []float32{1})))
	require.NoError(t, store.Add(ctx, testItem("b", []float32{1})))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Adds after a clear are the only thing counted.
	require.NoError(t, store.Add(ctx, testItem("c", []float32{1})))
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCount_Empty(t *testing.T) {
	store := newTestStore(t)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClosedStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()
	assert.ErrorIs(t, store.Add(ctx, testItem("a", []float32{1})), storage.ErrStorageClosed)
	_, err = store.Query(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Clear(ctx), storage.ErrStorageClosed)
}

func TestForEach(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Add(ctx, testItem(id, []float32{1})))
	}

	var seen []string
	err := store.ForEach(ctx, func(item *storage.StoredItem) error {
		seen = append(seen, item.ID)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)

	sentinel := assert.AnError
	err = store.ForEach(ctx, func(item *storage.StoredItem) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 1, cosineDistance([]float32{0, 0}, []float32{1, 1}), 1e-9)
}
