package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// ParsePathInt reads a chi URL parameter as an integer no smaller than min.
func ParsePathInt(r *http.Request, key string, min int) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.Validation("path parameter required", map[string]string{key: "is required"})
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation("path parameter must be numeric", map[string]string{key: "must be numeric"})
	}
	if value < min {
		return 0, pkgerrors.Validation("path parameter out of range", map[string]string{key: "must be at least " + strconv.Itoa(min)})
	}
	return value, nil
}

// PathString reads a chi URL parameter, trimmed and capped at maxLen.
func PathString(r *http.Request, key string, maxLen int) (string, error) {
	value := SanitizeString(chi.URLParam(r, key), maxLen)
	if value == "" {
		return "", pkgerrors.Validation("path parameter required", map[string]string{key: "is required"})
	}
	return value, nil
}
