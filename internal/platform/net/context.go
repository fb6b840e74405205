// Package net carries request-scoped values and the wire envelope shared
// by the HTTP middlewares
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type so values cannot collide with other packages
type ctxKey string

const keyOperatorID ctxKey = "operator_id"

// WithRequest stores the request id where chi's GetReqID finds it.
// Production requests get their id from the RequestID middleware; this
// setter exists for tests and background jobs that fabricate a context
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithOperator annotates the context with the authenticated operator id
func WithOperator(ctx context.Context, operatorID string) context.Context {
	if operatorID != "" {
		ctx = context.WithValue(ctx, keyOperatorID, operatorID)
	}
	return ctx
}

// RequestID returns the request id on the context, or ""
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// OperatorID returns the authenticated operator id on the context, or ""
func OperatorID(ctx context.Context) string {
	if v, ok := ctx.Value(keyOperatorID).(string); ok {
		return v
	}
	return ""
}
