package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-demo/internal/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the shopper session resolved by the Session middleware.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the shopper session into the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
