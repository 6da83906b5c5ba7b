package newsfeed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource_KnownTopic(t *testing.T) {
	fixed := time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC)
	s := NewStaticSource()
	s.now = func() time.Time { return fixed }

	articles, err := s.Fetch(context.Background(), "finance")

	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "finance_001", articles[0].ID)
	assert.Equal(t, []string{"finance"}, articles[0].Topics)
	assert.True(t, articles[0].PublishedAt.Equal(fixed))
	assert.NotEmpty(t, articles[0].Title)
	assert.NotEmpty(t, articles[0].Text)
}

func TestStaticSource_UnknownTopic(t *testing.T) {
	s := NewStaticSource()

	articles, err := s.Fetch(context.Background(), "gardening")

	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestStaticSource_StableIDs(t *testing.T) {
	s := NewStaticSource()

	first, err := s.Fetch(context.Background(), "technology")
	require.NoError(t, err)
	second, err := s.Fetch(context.Background(), "technology")
	require.NoError(t, err)

	require.Len(t, first, len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}
