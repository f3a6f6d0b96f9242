package util

import (
	"context"
)

type key string

const (
	tickerKey = key("ticker")
)

// WithRequestID returns a context with request id.
// A new request id is generated when the given id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// WithTicker returns a context carrying the instrument the request is about.
func WithTicker(ctx context.Context, ticker string) context.Context {
	return context.WithValue(ctx, tickerKey, ticker)
}

// GetRequestID returns request id from context.
// Returns an empty string if not present.
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}

// GetTicker returns the ticker from context.
// Returns an empty string if not present.
func GetTicker(ctx context.Context) string {
	ticker, _ := ctx.Value(tickerKey).(string)
	return ticker
}
