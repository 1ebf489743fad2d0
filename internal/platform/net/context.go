// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"zkcommit/internal/platform/logger"
)

// WithRequest annotates context with the request id so chimw.GetReqID and logger.C both see it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// WithSession annotates context with the workflow session id
func WithSession(ctx context.Context, sessionID string) context.Context {
	return logger.WithSession(ctx, sessionID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
