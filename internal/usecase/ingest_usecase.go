package usecase

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"digest-orchestrator/internal/domain"
)

// knownArticleCacheSize bounds the in-process cache of article ids whose
// content hash is already indexed.
const knownArticleCacheSize = 4096

// IngestReport summarizes one ingest batch. Skipped counts articles that
// were already indexed or carried no text; Failed counts articles whose
// embedding or storage failed and were dropped from this batch only.
type IngestReport struct {
	Ingested int `json:"ingested"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// IngestUsecase chunks, embeds and upserts articles into the index.
type IngestUsecase interface {
	Ingest(ctx context.Context, articles []domain.Article) (*IngestReport, error)
}

type ingestUsecase struct {
	index        domain.ChunkIndex
	txManager    domain.TransactionManager
	chunker      domain.Chunker
	encoder      domain.VectorEncoder
	hasher       domain.SourceHashPolicy
	skipExisting bool
	known        *lru.Cache[string, string]
	logger       *slog.Logger
}

// NewIngestUsecase creates an IngestUsecase. With skipExisting set,
// articles already present in the index are not re-embedded.
func NewIngestUsecase(
	index domain.ChunkIndex,
	txManager domain.TransactionManager,
	chunker domain.Chunker,
	encoder domain.VectorEncoder,
	hasher domain.SourceHashPolicy,
	skipExisting bool,
	logger *slog.Logger,
) (IngestUsecase, error) {
	known, err := lru.New[string, string](knownArticleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create article cache: %w", err)
	}
	return &ingestUsecase{
		index:        index,
		txManager:    txManager,
		chunker:      chunker,
		encoder:      encoder,
		hasher:       hasher,
		skipExisting: skipExisting,
		known:        known,
		logger:       logger,
	}, nil
}

// Ingest processes each article independently: a failure embeds or
// stores one article only; the rest of the batch proceeds. The returned
// error is reserved for context cancellation.
func (u *ingestUsecase) Ingest(ctx context.Context, articles []domain.Article) (*IngestReport, error) {
	report := &IngestReport{}

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if article.ID == "" || article.Text == "" {
			report.Skipped++
			continue
		}

		sourceHash := u.hasher.Compute(article.Title, article.Text)
		if u.shouldSkip(ctx, article.ID, sourceHash) {
			report.Skipped++
			continue
		}

		stored, err := u.ingestOne(ctx, article)
		if err != nil {
			u.logger.Warn("article_ingest_failed",
				slog.String("article_id", article.ID),
				slog.String("error", err.Error()))
			report.Failed++
			continue
		}
		if !stored {
			report.Skipped++
			continue
		}

		u.known.Add(article.ID, sourceHash)
		report.Ingested++
	}

	u.logger.Info("ingest_completed",
		slog.Int("ingested", report.Ingested),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

// shouldSkip decides whether the article can be left untouched. The
// existence probe is best-effort: a failure falls through to upserting,
// which is overwrite-safe because chunks are keyed by id.
func (u *ingestUsecase) shouldSkip(ctx context.Context, articleID, sourceHash string) bool {
	if cached, ok := u.known.Get(articleID); ok {
		if cached == sourceHash {
			return true
		}
		return u.skipExisting
	}

	if !u.skipExisting {
		return false
	}

	exists, err := u.index.Exists(ctx, articleID)
	if err != nil {
		u.logger.Warn("existence_check_failed_reindexing",
			slog.String("article_id", articleID),
			slog.String("error", err.Error()))
		return false
	}
	if exists {
		u.known.Add(articleID, "")
	}
	return exists
}

// ingestOne stores one article's chunk set. It reports false when the
// text chunks to nothing, so the caller counts the article as skipped
// rather than ingested.
func (u *ingestUsecase) ingestOne(ctx context.Context, article domain.Article) (bool, error) {
	chunks := u.chunker.Chunk(article.Text)
	if len(chunks) == 0 {
		return false, nil
	}

	embeddings, err := u.encoder.Encode(ctx, chunks)
	if err != nil {
		return false, fmt.Errorf("failed to encode chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return false, fmt.Errorf("embedding count mismatch: %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	indexed := make([]domain.IndexedChunk, len(chunks))
	for i, content := range chunks {
		indexed[i] = domain.IndexedChunk{
			ChunkID:     domain.ChunkID(article.ID, i),
			ArticleID:   article.ID,
			Index:       i,
			TotalChunks: len(chunks),
			Title:       article.Title,
			Source:      article.Source,
			URL:         article.URL,
			Topics:      article.Topics,
			Content:     content,
			PublishedAt: article.PublishedAt,
			Embedding:   embeddings[i],
		}
	}

	// One transaction per article so its chunk set replaces atomically.
	// The delete clears stale higher-index rows when the new text
	// chunks to fewer pieces than the stored version.
	err = u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := u.index.DeleteByArticle(ctx, article.ID); err != nil {
			return err
		}
		return u.index.Upsert(ctx, indexed)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
