package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-demo/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/redis"
)

// authBodyLimit caps how much of a login or register body is buffered to find the email.
const authBodyLimit = 64 << 10

// AuthRateLimitPolicy throttles one auth form. A zero limit switches that dimension off.
type AuthRateLimitPolicy struct {
	Name         string
	Window       time.Duration
	SessionLimit int
	IPLimit      int
	EmailLimit   int
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.Window > 0 && (p.SessionLimit > 0 || p.IPLimit > 0 || p.EmailLimit > 0)
}

func (p AuthRateLimitPolicy) name() string {
	if name := strings.ToLower(strings.TrimSpace(p.Name)); name != "" {
		return name
	}
	return "auth"
}

// rateCounter is one fixed-window counter the request is charged against.
type rateCounter struct {
	dimension string
	subject   string
	limit     int
}

func (c rateCounter) scope(policy string) string {
	return fmt.Sprintf("%s:%s:%s", c.dimension, policy, c.subject)
}

// counters lists, cheapest first, every counter that applies to r. Emails are hashed so raw
// addresses never reach redis.
func (p AuthRateLimitPolicy) counters(r *http.Request, email string) []rateCounter {
	var out []rateCounter
	if p.SessionLimit > 0 {
		if sess := SessionFromContext(r.Context()); sess != nil {
			out = append(out, rateCounter{dimension: "session", subject: sess.ID.String(), limit: p.SessionLimit})
		}
	}
	if p.IPLimit > 0 {
		if ip := clientIP(r); ip != "" {
			out = append(out, rateCounter{dimension: "ip", subject: ip, limit: p.IPLimit})
		}
	}
	if p.EmailLimit > 0 && email != "" {
		out = append(out, rateCounter{dimension: "email", subject: hashValue(email), limit: p.EmailLimit})
	}
	return out
}

// AuthRateLimit charges login and register attempts against the shopper session, the client
// IP and the submitted email. Without a limiter the middleware is a pass-through.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter redis.RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var email string
			if policy.EmailLimit > 0 && r.Body != nil {
				body, err := io.ReadAll(io.LimitReader(r.Body, authBodyLimit))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				email = extractEmail(body)
			}

			for _, counter := range policy.counters(r, email) {
				allowed, attempts, err := limiter.FixedWindowAllow(ctx, counter.scope(policy.name()), int64(counter.limit), policy.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if allowed {
					continue
				}
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"policy":    policy.name(),
						"dimension": counter.dimension,
						"attempts":  attempts,
						"limit":     counter.limit,
					}), "auth attempt throttled")
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(policy.Window.Round(time.Second).Seconds())))
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// extractEmail returns the normalized email of a login or register body, or "".
func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
