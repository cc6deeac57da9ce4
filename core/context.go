package core

import "context"

// Context keys for pipeline options
type contextKey string

const (
	noCacheKey   contextKey = "noCache"
	noHistoryKey contextKey = "noHistory"
)

// WithNoCache makes the pipelines skip the result cache for reads and writes.
func WithNoCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey, true)
}

// shouldSkipCache returns whether the result cache should be bypassed
func shouldSkipCache(ctx context.Context) bool {
	skip, ok := ctx.Value(noCacheKey).(bool)
	return ok && skip
}

// WithNoHistory makes the pipelines skip run history recording.
func WithNoHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, noHistoryKey, true)
}

// shouldSkipHistory returns whether run history should be skipped
func shouldSkipHistory(ctx context.Context) bool {
	skip, ok := ctx.Value(noHistoryKey).(bool)
	return ok && skip
}
