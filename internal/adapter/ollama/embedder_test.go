package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"digest-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Encode(t *testing.T) {
	var gotReq embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	e := NewEmbedder(server.URL, "all-minilm", server.Client())

	vectors, err := e.Encode(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, "all-minilm", gotReq.Model)
	assert.Equal(t, []string{"first", "second"}, gotReq.Input)
}

func TestEmbedder_Encode_EmptyInput(t *testing.T) {
	e := NewEmbedder("http://unused", "all-minilm", http.DefaultClient)

	vectors, err := e.Encode(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedder_Encode_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := NewEmbedder(server.URL, "all-minilm", server.Client())

	_, err := e.Encode(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestEmbedder_Encode_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	e := NewEmbedder(server.URL, "all-minilm", http.DefaultClient)

	_, err := e.Encode(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestEmbedder_Encode_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.1}}})
	}))
	defer server.Close()

	e := NewEmbedder(server.URL, "all-minilm", server.Client())

	_, err := e.Encode(context.Background(), []string{"one", "two"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestEmbedder_Version(t *testing.T) {
	e := NewEmbedder("http://unused", "all-minilm", http.DefaultClient)
	assert.Equal(t, "all-minilm", e.Version())
}
