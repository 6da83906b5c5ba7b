package newsfeed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsfeedTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewsAPISource_Fetch(t *testing.T) {
	var gotQuery string
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("apiKey")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "Example Wire"},
					"title": "Markets open higher",
					"description": "Stocks climbed at the open.",
					"url": "https://example.com/markets",
					"publishedAt": "2026-08-30T06:00:00Z"
				},
				{
					"source": {"name": ""},
					"title": "No description here",
					"description": "",
					"content": "Fallback body text.",
					"url": "https://example.com/fallback",
					"publishedAt": "not-a-date"
				}
			]
		}`))
	}))
	defer server.Close()

	s := NewNewsAPISource(server.URL, "test-key", 5, server.Client(), newsfeedTestLogger())

	articles, err := s.Fetch(context.Background(), "finance")

	require.NoError(t, err)
	assert.Equal(t, "finance", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, articles, 2)

	assert.Equal(t, "finance_0", articles[0].ID)
	assert.Equal(t, "Example Wire", articles[0].Source)
	assert.Equal(t, "Stocks climbed at the open.", articles[0].Text)
	want := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	assert.True(t, articles[0].PublishedAt.Equal(want))

	// Missing description falls back to content, missing source to
	// Unknown, unparsable date to the zero value.
	assert.Equal(t, "Fallback body text.", articles[1].Text)
	assert.Equal(t, "Unknown", articles[1].Source)
	assert.True(t, articles[1].PublishedAt.IsZero())
}

func TestNewsAPISource_BadStatusDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewNewsAPISource(server.URL, "test-key", 5, server.Client(), newsfeedTestLogger())

	articles, err := s.Fetch(context.Background(), "finance")

	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestNewsAPISource_TransportFailureDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := NewNewsAPISource(server.URL, "test-key", 5, http.DefaultClient, newsfeedTestLogger())

	articles, err := s.Fetch(context.Background(), "finance")

	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestNewsAPISource_MalformedBodyDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	s := NewNewsAPISource(server.URL, "test-key", 5, server.Client(), newsfeedTestLogger())

	articles, err := s.Fetch(context.Background(), "finance")

	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestNewsAPISource_CancelledContext(t *testing.T) {
	s := NewNewsAPISource("http://unused", "test-key", 5, http.DefaultClient, newsfeedTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Fetch(ctx, "finance")

	require.Error(t, err)
}
