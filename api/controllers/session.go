package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-demo/api/middleware"
	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/internal/auth"
	"github.com/angelmondragon/storefront-demo/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
)

type sessionCreator interface {
	Create(ctx context.Context) (*session.Session, error)
}

// SessionCreate starts an anonymous shopper session and returns its token.
func SessionCreate(sessions sessionCreator, authSvc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := authSvc.Issue(sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SessionFetch returns a fresh token for the caller's session along with its sign-in state.
func SessionFetch(authSvc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		result, err := authSvc.Issue(sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required"))
		return nil, false
	}
	return sess, true
}
