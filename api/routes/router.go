package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-demo/api/controllers"
	"github.com/angelmondragon/storefront-demo/api/middleware"
	"github.com/angelmondragon/storefront-demo/internal/auth"
	"github.com/angelmondragon/storefront-demo/internal/catalog"
	"github.com/angelmondragon/storefront-demo/internal/orders"
	"github.com/angelmondragon/storefront-demo/internal/session"
	"github.com/angelmondragon/storefront-demo/pkg/config"
	"github.com/angelmondragon/storefront-demo/pkg/db"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions *session.Registry,
	cat *catalog.Catalog,
	ordersSvc orders.Service,
	authService auth.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	var limiter redis.RateLimiter
	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		limiter = redisClient
		readiness["redis"] = redisClient
	}

	loginPolicy := middleware.AuthRateLimitPolicy{
		Name:         "login",
		Window:       cfg.AuthRateLimit.LoginWindow,
		SessionLimit: cfg.AuthRateLimit.LoginSessionLimit,
		IPLimit:      cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit:   cfg.AuthRateLimit.LoginEmailLimit,
	}
	registerPolicy := middleware.AuthRateLimitPolicy{
		Name:         "register",
		Window:       cfg.AuthRateLimit.RegisterWindow,
		SessionLimit: cfg.AuthRateLimit.RegisterSessionLimit,
		IPLimit:      cfg.AuthRateLimit.RegisterIPLimit,
		EmailLimit:   cfg.AuthRateLimit.RegisterEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", controllers.SessionCreate(sessions, authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalSession(cfg.JWT, sessions, logg))
			r.Get("/catalog", controllers.CatalogList(cat, logg))
			r.Get("/catalog/{categoryKey}", controllers.CatalogCategory(cat, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, sessions, logg))

			r.Get("/session", controllers.SessionFetch(authService, logg))

			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, logg))
				r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(authService, logg))
				r.Post("/logout", controllers.AuthLogout(authService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(logg))
				r.Post("/items", controllers.CartAddItem(cat, logg))
				r.Put("/items/{itemId}", controllers.CartUpdateItem(logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutFetch(logg))
				r.Post("/open", controllers.CheckoutOpen(logg))
				r.Post("/advance", controllers.CheckoutAdvance(logg))
				r.Post("/back", controllers.CheckoutBack(logg))
				r.Post("/close", controllers.CheckoutClose(logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(ordersSvc, logg))
				r.Get("/{orderNumber}", controllers.OrderDetail(ordersSvc, logg))
			})

			r.Route("/tracking/{orderNumber}", func(r chi.Router) {
				r.Get("/", controllers.TrackingFetch(logg))
				r.Get("/stream", controllers.TrackingStream(logg))
				r.Post("/play", controllers.TrackingPlay(logg))
				r.Post("/stop", controllers.TrackingStop(logg))
				r.Post("/jump/{index}", controllers.TrackingJump(logg))
			})

			r.Get("/profile", controllers.ProfileFetch(logg))
			r.Get("/settings", controllers.SettingsFetch(logg))
			r.Put("/settings", controllers.SettingsUpdate(logg))
		})
	})

	return r
}
