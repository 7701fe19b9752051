package logger

import (
	"context"
)

// ContextKey is used for context values
type ContextKey string

const (
	// BackendIDKey is the context key for the federated backend ID
	BackendIDKey ContextKey = "backend_id"
	// QueryIDKey is the context key for the host query ID
	QueryIDKey ContextKey = "query_id"
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
)

// WithContextValue adds a value to the context for logging
func WithContextValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// ExtractContextValues extracts logging-relevant values from context
func ExtractContextValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var args []any

	if backendID, ok := ctx.Value(BackendIDKey).(string); ok {
		args = append(args, "backend_id", backendID)
	}

	if queryID, ok := ctx.Value(QueryIDKey).(string); ok {
		args = append(args, "query_id", queryID)
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		args = append(args, "request_id", requestID)
	}

	return args
}
