package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"digest-orchestrator/internal/domain"
)

const (
	// summaryPromptLimit bounds how much article content is sent to the
	// model per summary request.
	summaryPromptLimit = 1000
	summaryMaxTokens   = 200
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Summarizer produces short article summaries via Ollama's chat
// endpoint. Failures are returned to the caller, which falls back to a
// truncated excerpt.
type Summarizer struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewSummarizer(baseURL, model string, client *http.Client) *Summarizer {
	return &Summarizer{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  client,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	if len(content) > summaryPromptLimit {
		content = content[:summaryPromptLimit]
	}

	prompt := fmt.Sprintf(
		"Summarize the following content in 2-3 sentences. Focus on key insights and relevance.\n\nContent:\n%s\n\nSummary:",
		content,
	)

	reqBody := chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that creates concise summaries."},
			{Role: "user", Content: prompt},
		},
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.3,
			"num_predict": summaryMaxTokens,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", s.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: summarizer returned %d: %s", domain.ErrBackendUnavailable, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	summary := strings.TrimSpace(chatResp.Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summarizer returned empty content")
	}
	return summary, nil
}

func (s *Summarizer) Version() string {
	return s.Model
}

var _ domain.Summarizer = (*Summarizer)(nil)
