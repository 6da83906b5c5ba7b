package domain

import (
	"context"
	"time"
)

// Metadata field names stored alongside every chunk. The index backend
// only stores flat, primitive-valued fields; collections such as the
// topic set are flattened to comma-joined strings before storage.
const (
	MetaArticleID   = "article_id"
	MetaTitle       = "title"
	MetaSource      = "source"
	MetaURL         = "url"
	MetaChunkIndex  = "chunk_index"
	MetaTotalChunks = "total_chunks"
	MetaDate        = "date"
	MetaTopics      = "topics"
)

// IndexedChunk is one embeddable unit of an article together with the
// metadata the index persists for it. Identity is ChunkID; upserting a
// chunk with an existing id replaces the stored entry.
type IndexedChunk struct {
	ChunkID     string
	ArticleID   string
	Index       int
	TotalChunks int
	Title       string
	Source      string
	URL         string
	Topics      []string
	Content     string
	PublishedAt time.Time
	Embedding   []float32
}

// QueryHit is a single nearest-neighbor result. Score is similarity,
// computed as 1 - cosine distance.
type QueryHit struct {
	ChunkID  string
	Score    float64
	Content  string
	Metadata map[string]string
}

// ChunkIndex is the persistent similarity index over chunk embeddings.
// Implementations serialize their own writes; callers hold no locks.
type ChunkIndex interface {
	// Upsert inserts or replaces chunks by ChunkID. Empty input is a no-op.
	Upsert(ctx context.Context, chunks []IndexedChunk) error

	// Query returns up to topK hits ordered by descending similarity.
	Query(ctx context.Context, vector []float32, topK int) ([]QueryHit, error)

	// DeleteByArticle removes every stored chunk of the article. Ingest
	// runs it before upserting so a shrunken chunk set leaves no stale
	// higher-index rows behind.
	DeleteByArticle(ctx context.Context, articleID string) error

	// Exists reports whether any chunk of the article is stored. It is
	// best-effort: on error the ingest path falls back to re-upserting.
	Exists(ctx context.Context, articleID string) (bool, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int64, error)
}
