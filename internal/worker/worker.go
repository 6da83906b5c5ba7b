package worker

import (
	"context"
	"log/slog"
	"time"

	"digest-orchestrator/internal/domain"
	"digest-orchestrator/internal/usecase"

	"github.com/google/uuid"

	applogger "digest-orchestrator/internal/infra/logger"
)

const (
	refreshTimeout = 5 * time.Minute
	initialBackoff = 1 * time.Minute
	maxBackoff     = 30 * time.Minute
)

// RefreshWorker periodically fetches fresh articles for the configured
// topics and ingests them so the index stays warm between digests.
type RefreshWorker struct {
	source    domain.NewsSource
	ingest    usecase.IngestUsecase
	topics    []string
	interval  time.Duration
	logger    *slog.Logger
	ctxLogger *applogger.ContextLogger
	stopChan  chan struct{}
	backoff   time.Duration
}

func NewRefreshWorker(
	source domain.NewsSource,
	ingest usecase.IngestUsecase,
	topics []string,
	interval time.Duration,
	logger *slog.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		source:    source,
		ingest:    ingest,
		topics:    topics,
		interval:  interval,
		logger:    logger,
		ctxLogger: applogger.NewContextLogger(),
		stopChan:  make(chan struct{}),
	}
}

func (w *RefreshWorker) Start() {
	w.logger.Info("Starting RefreshWorker",
		slog.String("source", w.source.Name()),
		slog.Duration("interval", w.interval))
	go w.run()
}

func (w *RefreshWorker) Stop() {
	w.logger.Info("Stopping RefreshWorker")
	close(w.stopChan)
}

func (w *RefreshWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.refresh()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(w.interval)
			}
		}
	}
}

// refresh runs one fetch+ingest pass. A pass with any topic failure
// backs the worker off exponentially; a clean pass resets the cadence.
func (w *RefreshWorker) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	ctx = applogger.WithJobID(ctx, uuid.NewString())
	ctx = applogger.WithStage(ctx, "refresh")
	log := w.ctxLogger.WithContext(ctx)

	failed := false
	var fresh []domain.Article
	for _, topic := range w.topics {
		articles, err := w.source.Fetch(ctx, topic)
		if err != nil {
			failed = true
			log.Warn("refresh_fetch_failed",
				slog.String("topic", topic),
				slog.String("error", err.Error()))
			continue
		}
		fresh = append(fresh, articles...)
	}

	if len(fresh) > 0 {
		report, err := w.ingest.Ingest(ctx, fresh)
		if err != nil {
			failed = true
			log.Error("refresh_ingest_failed", slog.String("error", err.Error()))
		} else {
			log.Info("refresh_completed",
				slog.Int("fetched", len(fresh)),
				slog.Int("ingested", report.Ingested),
				slog.Int("skipped", report.Skipped),
				slog.Int("failed", report.Failed))
		}
	}

	if failed {
		w.backoff = w.nextBackoff(w.backoff)
		log.Warn("refresh_backing_off", slog.Duration("backoff", w.backoff))
	} else {
		w.backoff = 0
	}
}

func (w *RefreshWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
