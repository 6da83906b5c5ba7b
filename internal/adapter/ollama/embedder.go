package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"digest-orchestrator/internal/domain"
)

// Embedder calls Ollama's embed endpoint to turn text into vectors.
type Embedder struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewEmbedder(baseURL, model string, client *http.Client) *Embedder {
	return &Embedder{
		BaseURL: baseURL,
		Model:   model,
		Client:  client,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()

	jsonData, err := json.Marshal(embedRequest{Model: e.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/embed", e.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		slog.Warn("embed_request_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("embed_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("%w: embedder returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	var respBody embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(respBody.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(respBody.Embeddings), len(texts))
	}

	slog.Debug("embed_completed",
		slog.Int("text_count", len(texts)),
		slog.String("model", e.Model),
		slog.Duration("elapsed", time.Since(start)),
	)
	return respBody.Embeddings, nil
}

func (e *Embedder) Version() string {
	return e.Model
}

var _ domain.VectorEncoder = (*Embedder)(nil)
