package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/api/validators"
	"github.com/angelmondragon/storefront-demo/internal/account"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
)

func ProfileFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, account.ProfileFor(sess))
	}
}

func SettingsFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, sess.Settings())
	}
}

// SettingsUpdate applies a partial toggle update. Omitted toggles keep their value.
func SettingsUpdate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		var payload account.SettingsUpdate
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account.ApplySettings(sess, payload))
	}
}
