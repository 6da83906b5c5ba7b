package domain

import "context"

// Summarizer produces a short human-readable summary of article content.
// Callers fall back to a truncated excerpt when summarization fails, so
// implementations may return errors freely.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
	Version() string
}
