package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"digest-orchestrator/internal/domain"
)

const (
	defaultTopK            = 5
	defaultFreshnessWindow = 24 * time.Hour
	maxFreshnessWindow     = 7 * 24 * time.Hour
)

// DigestInput configures one digest build.
type DigestInput struct {
	Preferences []string
	// TopK caps retrieved articles per preference (default 5).
	TopK int
	// Window is the freshness cutoff (default 24h, max 7 days).
	Window time.Duration
	// Now overrides the clock, for tests. Zero means time.Now().
	Now time.Time
}

// TimeWindow is the period a digest covers.
type TimeWindow struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// DigestOutput is the ranked-by-preference result handed to renderers.
type DigestOutput struct {
	Distribution    domain.Distribution `json:"distribution"`
	ArticlesScanned int                 `json:"articles_scanned"`
	TimeWindow      TimeWindow          `json:"time_window"`
	// Degraded lists the stages that fell back to empty results.
	Degraded []string `json:"degraded,omitempty"`
}

// RankOutput is the alternate, non-partitioned digest mode: every
// article in one global order.
type RankOutput struct {
	Articles        []domain.ScoredArticle `json:"articles"`
	ArticlesScanned int                    `json:"articles_scanned"`
	TimeWindow      TimeWindow             `json:"time_window"`
	Degraded        []string               `json:"degraded,omitempty"`
}

// DigestUsecase runs the full pipeline: fetch fresh articles, ingest
// them, retrieve per preference, aggregate, filter by freshness and
// distribute (or rank) across the preferences.
type DigestUsecase interface {
	Build(ctx context.Context, input DigestInput) (*DigestOutput, error)
	Rank(ctx context.Context, input DigestInput) (*RankOutput, error)
}

type digestUsecase struct {
	source     domain.NewsSource
	ingest     IngestUsecase
	retrieve   RetrieveUsecase
	summarizer domain.Summarizer // nil disables the summary pass
	logger     *slog.Logger
}

func NewDigestUsecase(
	source domain.NewsSource,
	ingest IngestUsecase,
	retrieve RetrieveUsecase,
	summarizer domain.Summarizer,
	logger *slog.Logger,
) DigestUsecase {
	return &digestUsecase{
		source:     source,
		ingest:     ingest,
		retrieve:   retrieve,
		summarizer: summarizer,
		logger:     logger,
	}
}

func (u *digestUsecase) Build(ctx context.Context, input DigestInput) (*DigestOutput, error) {
	if len(input.Preferences) == 0 {
		return nil, fmt.Errorf("%w: at least one preference is required", domain.ErrConfig)
	}
	window, now := normalizeWindow(input)

	articles, degraded, err := u.gather(ctx, input, window, now)
	if err != nil {
		return nil, err
	}

	distribution := domain.Distribute(articles, input.Preferences)
	assigned := 0
	for _, bucket := range distribution {
		assigned += len(bucket)
	}
	u.logger.Info("digest_completed",
		slog.Int("articles_scanned", len(articles)),
		slog.Int("articles_assigned", assigned),
		slog.Int("preferences", len(input.Preferences)))

	return &DigestOutput{
		Distribution:    distribution,
		ArticlesScanned: len(articles),
		TimeWindow:      TimeWindow{Since: now.Add(-window), Until: now},
		Degraded:        degraded,
	}, nil
}

func (u *digestUsecase) Rank(ctx context.Context, input DigestInput) (*RankOutput, error) {
	if len(input.Preferences) == 0 {
		return nil, fmt.Errorf("%w: at least one preference is required", domain.ErrConfig)
	}
	window, now := normalizeWindow(input)

	articles, degraded, err := u.gather(ctx, input, window, now)
	if err != nil {
		return nil, err
	}

	ranked := domain.RankByPreference(articles, input.Preferences)
	u.logger.Info("rank_completed",
		slog.Int("articles_scanned", len(articles)),
		slog.Int("preferences", len(input.Preferences)))

	return &RankOutput{
		Articles:        ranked,
		ArticlesScanned: len(articles),
		TimeWindow:      TimeWindow{Since: now.Add(-window), Until: now},
		Degraded:        degraded,
	}, nil
}

// gather runs the shared front half of both digest modes: refresh the
// index from the news source, retrieve per preference, merge, summarize
// and filter by freshness. Stages degrade independently; the returned
// reasons record which ones did.
func (u *digestUsecase) gather(ctx context.Context, input DigestInput, window time.Duration, now time.Time) ([]domain.AggregatedArticle, []string, error) {
	var degraded []string

	// Refresh: per-topic failures are isolated so one preference's
	// feed outage does not block the others.
	var fresh []domain.Article
	for _, pref := range input.Preferences {
		fetched, err := u.source.Fetch(ctx, pref)
		if err != nil {
			u.logger.Warn("fetch_failed",
				slog.String("topic", pref),
				slog.String("error", err.Error()))
			degraded = append(degraded, fmt.Sprintf("fetch %q failed", pref))
			continue
		}
		fresh = append(fresh, fetched...)
	}

	if len(fresh) > 0 {
		if _, err := u.ingest.Ingest(ctx, fresh); err != nil {
			return nil, nil, err
		}
	}

	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	// Retrieval: one query per preference, merged into a unique
	// article set keeping each article's best score.
	merged := make(map[string]int)
	var articles []domain.AggregatedArticle
	for _, pref := range input.Preferences {
		out, err := u.retrieve.Retrieve(ctx, RetrieveInput{
			Query: fmt.Sprintf("news about %s for professionals", pref),
			TopK:  topK,
		})
		if err != nil {
			return nil, nil, err
		}
		if out.Degraded {
			degraded = append(degraded, fmt.Sprintf("retrieve %q: %s", pref, out.Reason))
			continue
		}
		for _, a := range out.Articles {
			if i, seen := merged[a.ID]; seen {
				if a.Scored && (!articles[i].Scored || a.Score > articles[i].Score) {
					articles[i].Score = a.Score
					articles[i].Scored = true
				}
				continue
			}
			merged[a.ID] = len(articles)
			articles = append(articles, a)
		}
	}

	u.summarize(ctx, articles)

	articles = domain.FilterFresh(articles, window, now)
	return articles, degraded, nil
}

// summarize fills in article summaries. A summarizer failure falls back
// to a truncated excerpt, matching what renderers would otherwise show.
func (u *digestUsecase) summarize(ctx context.Context, articles []domain.AggregatedArticle) {
	if u.summarizer == nil {
		return
	}
	for i := range articles {
		if articles[i].Summary != "" || articles[i].Content == "" {
			continue
		}
		summary, err := u.summarizer.Summarize(ctx, articles[i].Content)
		if err != nil {
			u.logger.Warn("summarize_failed_using_excerpt",
				slog.String("article_id", articles[i].ID),
				slog.String("error", err.Error()))
			articles[i].Summary = truncateWithEllipsis(articles[i].Content, domain.PreviewLimit)
			continue
		}
		articles[i].Summary = summary
	}
}

func truncateWithEllipsis(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func normalizeWindow(input DigestInput) (time.Duration, time.Time) {
	window := input.Window
	if window <= 0 {
		window = defaultFreshnessWindow
	}
	if window > maxFreshnessWindow {
		window = maxFreshnessWindow
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	return window, now
}
