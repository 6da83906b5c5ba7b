package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultChunkSize is the window width in characters.
	DefaultChunkSize = 512
	// DefaultChunkOverlap is how much consecutive windows share.
	DefaultChunkOverlap = 50

	chunkIDMarker = "_chunk_"
)

// Chunker splits raw article text into the units that get embedded.
type Chunker interface {
	Chunk(text string) []string
}

type windowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker creates a sliding-window chunker. The window advances
// by size-overlap, so overlap must be strictly smaller than size.
func NewWindowChunker(size, overlap int) (Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrConfig, overlap)
	}
	if size-overlap <= 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrConfig, overlap, size)
	}
	return &windowChunker{size: size, overlap: overlap}, nil
}

// Chunk returns the overlapping windows of text. Windows are measured
// in runes so multibyte text never splits mid-character. Text that fits
// in one window is returned as-is. Windows that are empty after
// trimming are dropped. Empty input yields no chunks and no error.
func (c *windowChunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[i:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// ChunkID derives the stable chunk identity from its article and ordinal.
func ChunkID(articleID string, index int) string {
	return articleID + chunkIDMarker + strconv.Itoa(index)
}

// ArticleIDFromChunkID recovers the article id embedded in a chunk id.
// IDs without the chunk marker are returned unchanged.
func ArticleIDFromChunkID(chunkID string) string {
	if i := strings.Index(chunkID, chunkIDMarker); i >= 0 {
		return chunkID[:i]
	}
	return chunkID
}
