package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MissingFile(t *testing.T) {
	converter := NewPDF()
	_, err := converter.Convert(context.Background(), "/does/not/exist.pdf")
	assert.ErrorIs(t, err, ErrConversionFailed)
}

func TestConvert_NoTextFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.pdf")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03}, 0o644))

	converter := NewPDF()
	_, err := converter.Convert(context.Background(), path)
	assert.ErrorIs(t, err, ErrConversionFailed)
}

func TestConvert_PrintableFallback(t *testing.T) {
	// Not a valid PDF; the printable-rune fallback should still salvage the
	// embedded text.
	content := append([]byte{0x00, 0x01}, []byte("LAQ No. 010C (Starred)\n")...)
	content = append(content, 0xff, 0xfe)
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	converter := NewPDF()
	text, err := converter.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "LAQ No. 010C (Starred)\n", text)
}

func TestConvert_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	converter := NewPDF()
	_, err := converter.Convert(ctx, "irrelevant.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintableText(t *testing.T) {
	in := []byte("ab\x00c\td\x01\n")
	assert.Equal(t, "abc\td\n", printableText(in))
}
