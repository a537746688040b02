package observability

import (
	"context"

	"go.uber.org/zap"
)

// WithContext returns the logger enriched with the current trace and span
// ids, or the logger unchanged when the context carries no active span.
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	tc := ExtractTrace(ctx)
	if tc == nil {
		return logger
	}

	return logger.With(
		zap.String("trace_id", tc.TraceID),
		zap.String("span_id", tc.SpanID),
	)
}
