package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// aggregatedGroup collects the chunks of one article while hits are
// being scanned.
type aggregatedGroup struct {
	article AggregatedArticle
	chunks  []orderedChunk
	dates   []time.Time
}

type orderedChunk struct {
	index   int
	content string
}

// AggregateHits groups chunk-level query hits back into one record per
// source article. Chunks are ordered by their stored index, contents are
// joined with a blank line, and the article date is the newest parseable
// chunk date. Articles keep the order in which they were first seen so
// the grouping is stable with respect to retrieval order.
func AggregateHits(hits []QueryHit) []AggregatedArticle {
	groups := make(map[string]*aggregatedGroup)
	var order []string

	for _, hit := range hits {
		meta := hit.Metadata
		articleID := meta[MetaArticleID]
		if articleID == "" {
			articleID = ArticleIDFromChunkID(hit.ChunkID)
		}

		g, ok := groups[articleID]
		if !ok {
			title := meta[MetaTitle]
			if title == "" {
				title = articleID
			}
			source := meta[MetaSource]
			if source == "" {
				source = "Unknown"
			}
			g = &aggregatedGroup{article: AggregatedArticle{
				ID:     articleID,
				Title:  title,
				Source: source,
				URL:    meta[MetaURL],
			}}
			groups[articleID] = g
			order = append(order, articleID)
		}

		// Unparsable or missing chunk indexes fall back to 0 rather
		// than failing the batch.
		index := 0
		if raw, ok := meta[MetaChunkIndex]; ok {
			if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				index = parsed
			}
		}
		g.chunks = append(g.chunks, orderedChunk{index: index, content: hit.Content})

		if dt, ok := ParseLenientTime(meta[MetaDate]); ok {
			g.dates = append(g.dates, dt)
		}

		if !g.article.Scored || hit.Score > g.article.Score {
			g.article.Score = hit.Score
			g.article.Scored = true
		}
	}

	articles := make([]AggregatedArticle, 0, len(order))
	for _, id := range order {
		g := groups[id]

		sort.SliceStable(g.chunks, func(i, j int) bool {
			return g.chunks[i].index < g.chunks[j].index
		})
		parts := make([]string, len(g.chunks))
		for i, c := range g.chunks {
			parts[i] = c.content
		}
		g.article.Content = strings.Join(parts, "\n\n")

		for _, dt := range g.dates {
			if dt.After(g.article.Date) {
				g.article.Date = dt
			}
		}

		articles = append(articles, g.article)
	}
	return articles
}

var lenientTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLenientTime parses the ISO-8601 variants that show up in article
// metadata, treating a trailing Z as UTC. It reports false instead of an
// error: a malformed date field is skipped, never fatal.
func ParseLenientTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range lenientTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
