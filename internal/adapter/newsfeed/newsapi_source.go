package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"digest-orchestrator/internal/domain"
)

const defaultNewsAPIBaseURL = "https://newsapi.org"

// NewsAPISource fetches fresh articles through a keyword-search news
// API. Transport failures, non-2xx responses and rate limits degrade to
// an empty result with a warning so one topic's failure never blocks
// the rest of a refresh.
type NewsAPISource struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewNewsAPISource(baseURL, apiKey string, pageSize int, client *http.Client, logger *slog.Logger) *NewsAPISource {
	if baseURL == "" {
		baseURL = defaultNewsAPIBaseURL
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	return &NewsAPISource{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: pageSize,
		client:   client,
		// Free-tier news APIs throttle aggressively; one request per
		// second with a small burst stays well under the limit.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:  logger,
	}
}

func (s *NewsAPISource) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (s *NewsAPISource) Fetch(ctx context.Context, topic string) ([]domain.Article, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", topic)
	params.Set("apiKey", s.apiKey)
	params.Set("pageSize", strconv.Itoa(s.pageSize))
	params.Set("sortBy", "publishedAt")

	endpoint := fmt.Sprintf("%s/v2/everything?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("newsapi_fetch_failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("newsapi_bad_status",
			slog.String("topic", topic),
			slog.Int("status", resp.StatusCode))
		return nil, nil
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		s.logger.Warn("newsapi_decode_failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return nil, nil
	}

	articles := make([]domain.Article, 0, len(body.Articles))
	for i, raw := range body.Articles {
		text := raw.Description
		if text == "" {
			text = raw.Content
		}

		var publishedAt time.Time
		if dt, ok := domain.ParseLenientTime(raw.PublishedAt); ok {
			publishedAt = dt
		}

		source := raw.Source.Name
		if source == "" {
			source = "Unknown"
		}

		articles = append(articles, domain.Article{
			ID:          fmt.Sprintf("%s_%d", topic, i),
			Title:       raw.Title,
			Text:        text,
			Source:      source,
			URL:         raw.URL,
			Topics:      []string{topic},
			PublishedAt: publishedAt,
		})
	}

	s.logger.Info("newsapi_fetch_completed",
		slog.String("topic", topic),
		slog.Int("count", len(articles)))
	return articles, nil
}

var _ domain.NewsSource = (*NewsAPISource)(nil)
