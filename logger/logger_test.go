package logger

import (
	"context"
	"testing"
)

func TestContextLogging(t *testing.T) {
	// Create a context with backend and query information
	ctx := context.Background()
	ctx = context.WithValue(ctx, BackendIDKey, "backend123")
	ctx = context.WithValue(ctx, QueryIDKey, "query456")
	ctx = context.WithValue(ctx, RequestIDKey, "req789")

	// Test context-aware logging
	InfoContext(ctx, "Test message with context")

	// Test appending to existing args
	InfoContext(ctx, "Test message with context and args", "key", "value")
}
