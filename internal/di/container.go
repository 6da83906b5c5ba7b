package di

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"digest-orchestrator/internal/adapter/newsfeed"
	"digest-orchestrator/internal/adapter/ollama"
	"digest-orchestrator/internal/adapter/repository"
	"digest-orchestrator/internal/domain"
	"digest-orchestrator/internal/infra/config"
	"digest-orchestrator/internal/infra/httpclient"
	"digest-orchestrator/internal/usecase"
	"digest-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Index domain.ChunkIndex

	IngestUsecase   usecase.IngestUsecase
	RetrieveUsecase usecase.RetrieveUsecase
	DigestUsecase   usecase.DigestUsecase

	Source domain.NewsSource

	// Worker is nil unless background refresh is enabled.
	Worker *worker.RefreshWorker
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	index := repository.NewChunkIndexRepository(pool)
	txManager := repository.NewPostgresTransactionManager(pool)

	// Shared HTTP clients with connection pooling
	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.EmbedderTimeout) * time.Second)
	encoder := ollama.NewEmbedder(cfg.EmbedderURL, cfg.EmbeddingModel, embedderHTTP)

	var summarizer domain.Summarizer
	if cfg.SummarizerEnabled {
		summarizerHTTP := httpclient.NewPooledClient(time.Duration(cfg.SummarizerTimeout) * time.Second)
		summarizer = ollama.NewSummarizer(cfg.SummarizerURL, cfg.SummarizerModel, summarizerHTTP)
		log.Info("summarizer_enabled",
			slog.String("url", cfg.SummarizerURL),
			slog.String("model", cfg.SummarizerModel))
	}

	source, err := newsSource(cfg, log)
	if err != nil {
		return nil, err
	}

	hasher := domain.NewSourceHashPolicy()
	chunker, err := domain.NewWindowChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("chunker configuration: %w", err)
	}

	ingestUsecase, err := usecase.NewIngestUsecase(index, txManager, chunker, encoder, hasher, cfg.SkipExisting, log)
	if err != nil {
		return nil, err
	}
	retrieveUsecase := usecase.NewRetrieveUsecase(index, encoder, log)
	digestUsecase := usecase.NewDigestUsecase(source, ingestUsecase, retrieveUsecase, summarizer, log)

	var refreshWorker *worker.RefreshWorker
	if cfg.RefreshEnabled {
		refreshWorker = worker.NewRefreshWorker(
			source,
			ingestUsecase,
			cfg.DigestTopics,
			time.Duration(cfg.RefreshIntervalMinutes)*time.Minute,
			log,
		)
	}

	return &ApplicationComponents{
		Index:           index,
		IngestUsecase:   ingestUsecase,
		RetrieveUsecase: retrieveUsecase,
		DigestUsecase:   digestUsecase,
		Source:          source,
		Worker:          refreshWorker,
	}, nil
}

func newsSource(cfg *config.Config, log *slog.Logger) (domain.NewsSource, error) {
	switch cfg.NewsSource {
	case "static", "":
		return newsfeed.NewStaticSource(), nil
	case "newsapi":
		if cfg.NewsAPIKey == "" {
			return nil, fmt.Errorf("%w: NEWS_API_KEY is required for the newsapi source", domain.ErrConfig)
		}
		client := httpclient.NewPooledClient(30 * time.Second)
		return newsfeed.NewNewsAPISource(cfg.NewsAPIBaseURL, cfg.NewsAPIKey, cfg.NewsPageSize, client, log), nil
	case "rss":
		if len(cfg.RSSFeeds) == 0 {
			return nil, fmt.Errorf("%w: RSS_FEEDS is required for the rss source", domain.ErrConfig)
		}
		return newsfeed.NewRSSSource(cfg.RSSFeeds, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown news source %q", domain.ErrConfig, cfg.NewsSource)
	}
}
