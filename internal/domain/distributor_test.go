package domain_test

import (
	"testing"

	"digest-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribute_KeywordAndRetrievalBlend(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "Technology stocks rally", Score: 0.9, Scored: true},
	}

	dist := domain.Distribute(articles, []string{"finance", "technology"})

	require.Len(t, dist["technology"], 1)
	assert.Empty(t, dist["finance"])
	got := dist["technology"][0]
	assert.Equal(t, "technology", got.AssignedPreference)
	// 0.3 * 1.0 keyword match + 0.7 * 0.9 retrieval score.
	assert.InDelta(t, 0.93, got.AssignmentScore, 1e-9)
}

func TestDistribute_TieKeepsEarlierPreference(t *testing.T) {
	// No keyword matches anywhere, so every preference scores the same
	// and the first one in caller order must win.
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "central bank statement", Score: 0.6, Scored: true},
	}

	dist := domain.Distribute(articles, []string{"politics", "finance"})

	require.Len(t, dist["politics"], 1)
	assert.Empty(t, dist["finance"])
}

func TestDistribute_ZeroScoringArticleDropped(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "no overlap at all", Score: 0, Scored: true},
	}

	dist := domain.Distribute(articles, []string{"finance"})

	require.Contains(t, dist, "finance")
	assert.Empty(t, dist["finance"])
}

func TestDistribute_UnscoredArticleUsesNeutralDefault(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "plain body"},
	}

	dist := domain.Distribute(articles, []string{"finance"})

	require.Len(t, dist["finance"], 1)
	// 0.3 * 0 keyword + 0.7 * 0.5 default retrieval score.
	assert.InDelta(t, 0.35, dist["finance"][0].AssignmentScore, 1e-9)
}

func TestDistribute_SummaryPreferredForKeywordMatch(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "finance finance finance", Summary: "A piece about gardening", Score: 0.1, Scored: true},
	}

	dist := domain.Distribute(articles, []string{"finance", "gardening"})

	// The summary replaces the content entirely, so only gardening matches.
	require.Len(t, dist["gardening"], 1)
	assert.Empty(t, dist["finance"])
}

func TestDistribute_BucketsSortedBestFirst(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "low", Content: "finance update", Score: 0.2, Scored: true},
		{ID: "high", Content: "finance update", Score: 0.95, Scored: true},
	}

	dist := domain.Distribute(articles, []string{"finance"})

	require.Len(t, dist["finance"], 2)
	assert.Equal(t, "high", dist["finance"][0].ID)
	assert.Equal(t, "low", dist["finance"][1].ID)
}

func TestDistribute_EveryArticleAssignedOnce(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "technology news", Score: 0.8, Scored: true},
		{ID: "a2", Content: "finance news", Score: 0.8, Scored: true},
		{ID: "a3", Content: "sports news", Score: 0.8, Scored: true},
	}

	dist := domain.Distribute(articles, []string{"finance", "technology"})

	total := 0
	for _, bucket := range dist {
		total += len(bucket)
	}
	// a3 matches no keyword but still lands somewhere via retrieval score,
	// and no article may appear in more than one bucket.
	assert.Equal(t, 3, total)
}

func TestDistribute_NoPreferences(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "anything", Score: 0.9, Scored: true},
	}

	dist := domain.Distribute(articles, nil)

	assert.Empty(t, dist)
}

func TestRankByPreference_GlobalOrder(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "off-topic", Content: "recipe for sourdough bread with a long fermentation"},
		{ID: "on-topic", Content: "quarterly finance results and stock market outlook"},
	}

	ranked := domain.RankByPreference(articles, []string{"finance stock market"})

	require.Len(t, ranked, 2)
	assert.Equal(t, "on-topic", ranked[0].ID)
	assert.Greater(t, ranked[0].PreferenceScore, ranked[1].PreferenceScore)
	assert.Zero(t, ranked[1].PreferenceScore)
}

func TestRankByPreference_StopWordsCarryNoWeight(t *testing.T) {
	articles := []domain.AggregatedArticle{
		{ID: "a1", Content: "the and of with from"},
	}

	ranked := domain.RankByPreference(articles, []string{"the finance report"})

	require.Len(t, ranked, 1)
	assert.Zero(t, ranked[0].PreferenceScore)
}

func TestRankByPreference_NoPreferences(t *testing.T) {
	articles := []domain.AggregatedArticle{{ID: "a1", Content: "body"}}

	ranked := domain.RankByPreference(articles, nil)

	require.Len(t, ranked, 1)
	assert.Zero(t, ranked[0].PreferenceScore)
}
