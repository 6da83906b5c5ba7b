package logger

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey string

const (
	// Business context keys propagated through the pipeline.
	JobIDKey     ContextKey = "digest.job.id"
	ArticleIDKey ContextKey = "digest.article.id"
	StageKey     ContextKey = "digest.pipeline.stage"
)

// ContextLogger emits JSON records enriched with whatever pipeline
// context the Go context carries.
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a context-aware logger.
func NewContextLogger() *ContextLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return &ContextLogger{
		logger: slog.New(handler),
	}
}

// WithContext returns a logger carrying the context's business fields.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", serviceName)

	var fields []any
	if jobID := ctx.Value(JobIDKey); jobID != nil {
		fields = append(fields, string(JobIDKey), jobID)
	}
	if articleID := ctx.Value(ArticleIDKey); articleID != nil {
		fields = append(fields, string(ArticleIDKey), articleID)
	}
	if stage := ctx.Value(StageKey); stage != nil {
		fields = append(fields, string(StageKey), stage)
	}
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return logger
}

// WithJobID stores the job id for downstream log records.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}

// WithArticleID stores the article id for downstream log records.
func WithArticleID(ctx context.Context, articleID string) context.Context {
	return context.WithValue(ctx, ArticleIDKey, articleID)
}

// WithStage stores the pipeline stage for downstream log records.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
