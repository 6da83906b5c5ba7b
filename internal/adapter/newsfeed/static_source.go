package newsfeed

import (
	"context"
	"fmt"
	"time"

	"digest-orchestrator/internal/domain"
)

// StaticSource serves a fixed set of articles per topic. It backs demos
// and tests that must run without network access or API keys.
type StaticSource struct {
	now func() time.Time
}

func NewStaticSource() *StaticSource {
	return &StaticSource{now: time.Now}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fetch(_ context.Context, topic string) ([]domain.Article, error) {
	entries, ok := staticEntries[topic]
	if !ok {
		return nil, nil
	}

	now := s.now()
	articles := make([]domain.Article, 0, len(entries))
	for i, e := range entries {
		articles = append(articles, domain.Article{
			ID:          fmt.Sprintf("%s_%03d", topic, i+1),
			Title:       e.title,
			Text:        e.text,
			Source:      e.source,
			URL:         fmt.Sprintf("https://example.com/%s/%03d", topic, i+1),
			Topics:      []string{topic},
			PublishedAt: now,
		})
	}
	return articles, nil
}

type staticEntry struct {
	title  string
	text   string
	source string
}

var staticEntries = map[string][]staticEntry{
	"politics": {
		{
			title:  "Congress Debates New Tech Regulation Bill",
			text:   "Senate committee advances comprehensive tech regulation addressing data privacy, algorithmic transparency, and AI governance. Industry experts divided on feasibility.",
			source: "Political Times",
		},
		{
			title:  "Election Year Brings Focus to Digital Rights",
			text:   "Candidates increasingly highlight digital privacy and net neutrality in campaign platforms. Tech executives respond with policy papers.",
			source: "Gov News",
		},
	},
	"finance": {
		{
			title:  "Tech Stocks Rally on AI Breakthroughs",
			text:   "Major technology companies see stock gains following announcements of advanced AI models. Investors reassess tech sector valuations amid renewed optimism.",
			source: "Finance Daily",
		},
		{
			title:  "Central Banks Maintain Interest Rates Amid Inflation Concerns",
			text:   "Federal Reserve and international central banks hold rates steady despite persistent inflation. Markets await next quarterly policy review.",
			source: "Economic Times",
		},
	},
	"technology": {
		{
			title:  "New Language Model Shows Enhanced Reasoning Capabilities",
			text:   "Latest model demonstrates improved performance on complex reasoning tasks and multimodal understanding. Early adopters report significant productivity gains.",
			source: "Tech Review",
		},
		{
			title:  "Quantum Computing Achieves Practical Advantage in Drug Discovery",
			text:   "Research groups announce breakthrough in using quantum computers for molecular simulation. Implications for drug development timeline acceleration.",
			source: "Science & Tech",
		},
	},
}

var _ domain.NewsSource = (*StaticSource)(nil)
