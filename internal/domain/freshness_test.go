package domain_test

import (
	"testing"
	"time"

	"digest-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFresh(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	articles := []domain.AggregatedArticle{
		{ID: "fresh", Date: now.Add(-2 * time.Hour)},
		{ID: "boundary", Date: now.Add(-window)},
		{ID: "stale", Date: now.Add(-25 * time.Hour)},
		{ID: "undated"},
	}

	fresh := domain.FilterFresh(articles, window, now)

	require.Len(t, fresh, 3)
	assert.Equal(t, "fresh", fresh[0].ID)
	// An article exactly at the cutoff is still inside the window.
	assert.Equal(t, "boundary", fresh[1].ID)
	assert.Equal(t, "undated", fresh[2].ID)
}

func TestFilterFresh_EmptyInput(t *testing.T) {
	fresh := domain.FilterFresh(nil, time.Hour, time.Now())
	assert.Empty(t, fresh)
}
