package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"digest-orchestrator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type chunkIndexRepository struct {
	pool *pgxpool.Pool
}

// NewChunkIndexRepository creates a pgvector-backed ChunkIndex.
func NewChunkIndexRepository(pool *pgxpool.Pool) domain.ChunkIndex {
	return &chunkIndexRepository{pool: pool}
}

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *chunkIndexRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *chunkIndexRepository) Upsert(ctx context.Context, chunks []domain.IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := `
		INSERT INTO article_chunks (
			chunk_id, article_id, title, source, url, topics,
			chunk_index, total_chunks, published_at, content, embedding, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (chunk_id) DO UPDATE SET
			article_id = EXCLUDED.article_id,
			title = EXCLUDED.title,
			source = EXCLUDED.source,
			url = EXCLUDED.url,
			topics = EXCLUDED.topics,
			chunk_index = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			published_at = EXCLUDED.published_at,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`

	executor := r.getExecutor(ctx)
	now := time.Now()
	for _, c := range chunks {
		var publishedAt *time.Time
		if !c.PublishedAt.IsZero() {
			t := c.PublishedAt
			publishedAt = &t
		}
		_, err := executor.Exec(ctx, query,
			c.ChunkID,
			c.ArticleID,
			c.Title,
			c.Source,
			c.URL,
			flattenTopics(c.Topics),
			c.Index,
			c.TotalChunks,
			publishedAt,
			c.Content,
			pgvector.NewVector(c.Embedding),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", c.ChunkID, err)
		}
	}
	return nil
}

func (r *chunkIndexRepository) Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	// <=> is pgvector cosine distance; similarity is 1 - distance.
	// Ordering by distance then chunk_id keeps ties stable.
	query := `
		SELECT chunk_id, content, article_id, title, source, url, topics,
		       chunk_index, total_chunks, published_at,
		       1 - (embedding <=> $1) AS score
		FROM article_chunks
		ORDER BY embedding <=> $1, chunk_id
		LIMIT $2
	`
	rows, err := r.getExecutor(ctx).Query(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.QueryHit
	for rows.Next() {
		var (
			hit         domain.QueryHit
			articleID   string
			title       string
			source      string
			url         string
			topics      string
			chunkIndex  int
			totalChunks int
			publishedAt *time.Time
		)
		if err := rows.Scan(&hit.ChunkID, &hit.Content, &articleID, &title, &source, &url,
			&topics, &chunkIndex, &totalChunks, &publishedAt, &hit.Score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		hit.Metadata = map[string]string{
			domain.MetaArticleID:   articleID,
			domain.MetaTitle:       title,
			domain.MetaSource:      source,
			domain.MetaURL:         url,
			domain.MetaTopics:      topics,
			domain.MetaChunkIndex:  strconv.Itoa(chunkIndex),
			domain.MetaTotalChunks: strconv.Itoa(totalChunks),
		}
		if publishedAt != nil {
			hit.Metadata[domain.MetaDate] = publishedAt.Format(time.RFC3339)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return hits, nil
}

func (r *chunkIndexRepository) DeleteByArticle(ctx context.Context, articleID string) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		`DELETE FROM article_chunks WHERE article_id = $1`,
		articleID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for article %s: %w", articleID, err)
	}
	return nil
}

func (r *chunkIndexRepository) Exists(ctx context.Context, articleID string) (bool, error) {
	var exists bool
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM article_chunks WHERE article_id = $1)`,
		articleID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return exists, nil
}

func (r *chunkIndexRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getExecutor(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM article_chunks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

func flattenTopics(topics []string) string {
	return strings.Join(topics, ",")
}
