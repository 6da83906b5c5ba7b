package usecase

import (
	"context"
	"log/slog"

	"digest-orchestrator/internal/domain"
)

// RetrieveInput defines one similarity query against the chunk index.
type RetrieveInput struct {
	Query string
	TopK  int
}

// RetrieveOutput carries the aggregated articles for a query. Degraded
// distinguishes "empty because the backend failed" from "empty because
// nothing matched" so callers and tests can tell the two apart.
type RetrieveOutput struct {
	Articles []domain.AggregatedArticle
	Degraded bool
	Reason   string
}

// RetrieveUsecase embeds a query, searches the chunk index and
// reassembles the hits into whole articles.
type RetrieveUsecase interface {
	Retrieve(ctx context.Context, input RetrieveInput) (*RetrieveOutput, error)
}

type retrieveUsecase struct {
	index   domain.ChunkIndex
	encoder domain.VectorEncoder
	logger  *slog.Logger
}

func NewRetrieveUsecase(index domain.ChunkIndex, encoder domain.VectorEncoder, logger *slog.Logger) RetrieveUsecase {
	return &retrieveUsecase{
		index:   index,
		encoder: encoder,
		logger:  logger,
	}
}

// Retrieve never fails on a backend error: embedding or index failures
// degrade to an empty result with the reason recorded, so a transient
// outage costs one query's results and nothing more.
func (u *retrieveUsecase) Retrieve(ctx context.Context, input RetrieveInput) (*RetrieveOutput, error) {
	if input.Query == "" {
		return &RetrieveOutput{}, nil
	}
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	vectors, err := u.encoder.Encode(ctx, []string{input.Query})
	if err != nil || len(vectors) == 0 {
		reason := "query embedding unavailable"
		if err != nil {
			u.logger.Warn("query_embedding_failed",
				slog.String("query", input.Query),
				slog.String("error", err.Error()))
		}
		return &RetrieveOutput{Degraded: true, Reason: reason}, nil
	}

	hits, err := u.index.Query(ctx, vectors[0], topK)
	if err != nil {
		u.logger.Warn("index_query_failed",
			slog.String("query", input.Query),
			slog.String("error", err.Error()))
		return &RetrieveOutput{Degraded: true, Reason: "chunk index unavailable"}, nil
	}

	articles := domain.AggregateHits(hits)
	u.logger.Debug("retrieve_completed",
		slog.String("query", input.Query),
		slog.Int("hits", len(hits)),
		slog.Int("articles", len(articles)))
	return &RetrieveOutput{Articles: articles}, nil
}
