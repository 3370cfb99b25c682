package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	first, err := m.EmbedText(ctx, "jetty repairs")
	require.NoError(t, err)
	second, err := m.EmbedText(ctx, "jetty repairs")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Equal(t, 2, m.CallCount())
}

// The embedding gateway fans EmbedText out across workers, so the call
// counter must hold up under concurrent callers.
func TestMockEmbedder_ConcurrentCalls(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	const workers = 8
	const callsPerWorker = 64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < callsPerWorker; i++ {
				_, err := m.EmbedText(ctx, "concurrent text")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*callsPerWorker, m.CallCount())
}

func TestMockEmbedder_Reset(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1}, nil
	}

	_, err := m.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, 1, m.CallCount())

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	assert.Nil(t, m.EmbedTextFunc)
}
