package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyExtractionID contextKey = "extraction_id"
	ContextKeyLogger       contextKey = "logger"
)

// WithExtractionID tags ctx with the ID of the extraction it belongs to.
func WithExtractionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyExtractionID, id)
}

// ExtractionIDFromContext extracts the extraction ID from context
func ExtractionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyExtractionID).(string); ok {
		return id
	}
	return ""
}

// WithLogger stores a request-scoped logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

// LoggerFromContext returns the logger stored by WithLogger, or fallback.
// The extraction ID, if any, is attached as an attribute.
func LoggerFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	logger, ok := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	if id := ExtractionIDFromContext(ctx); id != "" {
		logger = logger.With("extraction_id", id)
	}
	return logger
}
