package domain

import (
	"strings"
	"time"
)

const (
	// RankingTextLimit bounds the article text used for similarity ranking.
	RankingTextLimit = 500
	// PreviewLimit bounds the fallback excerpt used when no summary exists.
	PreviewLimit = 200
)

// Article is a news article as delivered by a news source, before ingest.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Topics      []string  `json:"topics"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// AggregatedArticle is an article reconstructed from the chunks the
// index returned for a query. It lives only for the duration of one
// digest build and is never persisted.
type AggregatedArticle struct {
	ID      string
	Title   string
	Source  string
	URL     string
	Content string
	Summary string
	// Date is the newest date carried by any chunk of the article.
	// The zero value means no chunk had a parseable date.
	Date time.Time
	// Score is the best retrieval similarity among the article's chunks.
	Score float64
	// Scored reports whether Score was actually set by retrieval.
	// Unscored articles rank with a neutral default.
	Scored bool
}

// RankedArticle is an aggregated article after preference assignment.
type RankedArticle struct {
	AggregatedArticle
	AssignedPreference string
	AssignmentScore    float64
}

// Distribution maps each preference to its ranked articles, best first.
// Every requested preference is present, possibly with an empty bucket.
type Distribution map[string][]RankedArticle

// SummaryOrContent returns the article's summary when present, otherwise
// its content truncated to limit runes. Every consumer of "the summary"
// goes through this so the fallback is uniform.
func (a AggregatedArticle) SummaryOrContent(limit int) string {
	if s := strings.TrimSpace(a.Summary); s != "" {
		return s
	}
	return truncateRunes(a.Content, limit)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
