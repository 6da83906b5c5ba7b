package newsfeed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"digest-orchestrator/internal/domain"
)

// RSSSource fetches headlines from configured RSS feeds. The topic acts
// as a case-insensitive filter over each item's title and description;
// an unreachable feed is skipped with a warning so the remaining feeds
// still contribute.
type RSSSource struct {
	feedURLs []string
	parser   *gofeed.Parser
	logger   *slog.Logger
}

func NewRSSSource(feedURLs []string, logger *slog.Logger) *RSSSource {
	return &RSSSource{
		feedURLs: feedURLs,
		parser:   gofeed.NewParser(),
		logger:   logger,
	}
}

func (s *RSSSource) Name() string { return "rss" }

func (s *RSSSource) Fetch(ctx context.Context, topic string) ([]domain.Article, error) {
	needle := strings.ToLower(topic)
	var articles []domain.Article

	for _, feedURL := range s.feedURLs {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.logger.Warn("rss_feed_failed",
				slog.String("feed", feedURL),
				slog.String("error", err.Error()))
			continue
		}

		for _, item := range feed.Items {
			if item.Link == "" {
				continue
			}
			if needle != "" &&
				!strings.Contains(strings.ToLower(item.Title), needle) &&
				!strings.Contains(strings.ToLower(item.Description), needle) {
				continue
			}

			text := item.Description
			if item.Content != "" {
				text = item.Content
			}

			article := domain.Article{
				ID:     fmt.Sprintf("%s_%d", topic, len(articles)),
				Title:  item.Title,
				Text:   text,
				Source: feed.Title,
				URL:    item.Link,
				Topics: []string{topic},
			}
			if item.PublishedParsed != nil {
				article.PublishedAt = *item.PublishedParsed
			}
			articles = append(articles, article)
		}
	}

	s.logger.Info("rss_fetch_completed",
		slog.String("topic", topic),
		slog.Int("feeds", len(s.feedURLs)),
		slog.Int("count", len(articles)))
	return articles, nil
}

var _ domain.NewsSource = (*RSSSource)(nil)
