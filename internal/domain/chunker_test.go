package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"digest-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowChunker_OverlappingWindows(t *testing.T) {
	chunker, err := domain.NewWindowChunker(4, 1)
	require.NoError(t, err)

	chunks := chunker.Chunk("abcdefghij")

	assert.Equal(t, []string{"abcd", "defg", "ghij", "j"}, chunks)
}

func TestWindowChunker_MultibyteTextWindowsByRune(t *testing.T) {
	chunker, err := domain.NewWindowChunker(4, 1)
	require.NoError(t, err)

	chunks := chunker.Chunk("αβγδεζηθικ")

	assert.Equal(t, []string{"αβγδ", "δεζη", "ηθικ", "κ"}, chunks)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8: %q", i, chunk)
	}
}

func TestWindowChunker_MultibyteShortTextReturnedWhole(t *testing.T) {
	chunker, err := domain.NewWindowChunker(8, 2)
	require.NoError(t, err)

	// Six runes but eighteen bytes; the window is counted in runes.
	chunks := chunker.Chunk("日本語テスト")

	assert.Equal(t, []string{"日本語テスト"}, chunks)
}

func TestWindowChunker_ShortTextReturnedWhole(t *testing.T) {
	chunker, err := domain.NewWindowChunker(512, 50)
	require.NoError(t, err)

	chunks := chunker.Chunk("a short article body")

	assert.Equal(t, []string{"a short article body"}, chunks)
}

func TestWindowChunker_EmptyText(t *testing.T) {
	chunker, err := domain.NewWindowChunker(512, 50)
	require.NoError(t, err)

	assert.Empty(t, chunker.Chunk(""))
}

func TestWindowChunker_DropsWhitespaceOnlyWindows(t *testing.T) {
	chunker, err := domain.NewWindowChunker(4, 0)
	require.NoError(t, err)

	// The trailing window holds only spaces and must not survive.
	chunks := chunker.Chunk("abcd    ")

	assert.Equal(t, []string{"abcd"}, chunks)
}

func TestWindowChunker_ExactMultipleOfWindow(t *testing.T) {
	chunker, err := domain.NewWindowChunker(4, 0)
	require.NoError(t, err)

	chunks := chunker.Chunk("abcdefgh")

	assert.Equal(t, []string{"abcd", "efgh"}, chunks)
}

func TestWindowChunker_ChunksCoverWholeText(t *testing.T) {
	chunker, err := domain.NewWindowChunker(64, 16)
	require.NoError(t, err)

	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	chunks := chunker.Chunk(text)

	require.NotEmpty(t, chunks)
	assert.Equal(t, text[:64], chunks[0])
	// The last chunk must end exactly where the text ends.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))
}

func TestNewWindowChunker_InvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 512, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewWindowChunker(tc.size, tc.overlap)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestChunkID_RoundTrip(t *testing.T) {
	id := domain.ChunkID("article-42", 3)

	assert.Equal(t, "article-42_chunk_3", id)
	assert.Equal(t, "article-42", domain.ArticleIDFromChunkID(id))
}

func TestArticleIDFromChunkID_NoMarker(t *testing.T) {
	assert.Equal(t, "plain-id", domain.ArticleIDFromChunkID("plain-id"))
}
