package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/internal/session"
	pkgauth "github.com/angelmondragon/storefront-demo/pkg/auth"
	"github.com/angelmondragon/storefront-demo/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/google/uuid"
)

type sessionResolver interface {
	Ensure(ctx context.Context, id uuid.UUID) (*session.Session, error)
}

// Session validates the bearer session token and seeds the request context with the session.
func Session(cfg config.JWTConfig, sessions sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := pkgauth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			sess, err := sessions.Ensure(r.Context(), claims.SessionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession resolves the session when a valid token is present and otherwise passes
// the request through anonymously.
func OptionalSession(cfg config.JWTConfig, sessions sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := pkgauth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := sessions.Ensure(r.Context(), claims.SessionID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
