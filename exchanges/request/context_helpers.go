package request

import "context"

type contextKey uint8

const (
	verboseKey contextKey = iota
	delayNotAllowedKey
	traceIDKey
)

// WithVerbose makes every upstream call made with ctx log its path and raw
// response, whatever the requester setting
func WithVerbose(ctx context.Context) context.Context {
	return context.WithValue(ctx, verboseKey, true)
}

// IsVerbose reports the requester setting, or the context flag when that is
// off
func IsVerbose(ctx context.Context, verbose bool) bool {
	if verbose {
		return true
	}
	v, _ := ctx.Value(verboseKey).(bool)
	return v
}

// WithDelayNotAllowed makes the limiter fail with ErrDelayNotAllowed rather
// than wait for weight
func WithDelayNotAllowed(ctx context.Context) context.Context {
	return context.WithValue(ctx, delayNotAllowedKey, true)
}

func hasDelayNotAllowed(ctx context.Context) bool {
	v, _ := ctx.Value(delayNotAllowedKey).(bool)
	return v
}

// WithTraceID tags upstream calls made with ctx so failures and verbose logs
// can be matched to the inbound request
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceID returns the ID set by WithTraceID or an empty string
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}
