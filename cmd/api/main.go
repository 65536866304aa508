package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/storefront-demo/api/routes"
	"github.com/angelmondragon/storefront-demo/internal/auth"
	"github.com/angelmondragon/storefront-demo/internal/catalog"
	"github.com/angelmondragon/storefront-demo/internal/checkout"
	"github.com/angelmondragon/storefront-demo/internal/orders"
	"github.com/angelmondragon/storefront-demo/internal/session"
	"github.com/angelmondragon/storefront-demo/internal/tracking"
	"github.com/angelmondragon/storefront-demo/pkg/config"
	"github.com/angelmondragon/storefront-demo/pkg/db"
	"github.com/angelmondragon/storefront-demo/pkg/instance"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/metrics"
	"github.com/angelmondragon/storefront-demo/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := dbClient.Migrate(ctx); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	taxRate, err := cfg.Checkout.Tax()
	if err != nil {
		return err
	}
	route, err := tracking.NewRoute(tracking.DefaultWaypoints(), tracking.Timing{
		BaseMS:      cfg.Tracking.SegmentBaseMS,
		MetersPerMS: cfg.Tracking.MetersPerMS,
	})
	if err != nil {
		return err
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, orders.History())
	if err != nil {
		return err
	}

	frameInterval := cfg.Tracking.FrameInterval
	registry, err := session.NewRegistry(session.Params{
		TaxRate: taxRate,
		Checkout: checkout.Options{
			ProcessingDelay: cfg.Checkout.ProcessingDelay,
			CloseGrace:      cfg.Checkout.CloseGrace,
		},
		IdleTTL: cfg.Session.IdleTTL,
		Orders:  ordersSvc,
		Route:   route,
		NewTicks: func() tracking.TickSource {
			return tracking.NewFrameClock(frameInterval)
		},
		CheckoutMetrics: metrics.NewCheckoutMetrics(reg),
		ReplayMetrics:   metrics.NewReplayMetrics(reg),
		Logger:          logg,
	})
	if err != nil {
		return err
	}
	defer registry.Close()

	sweeper, err := session.NewSweeper(session.SweeperParams{
		Logger:   logg,
		Registry: registry,
		Metrics:  metrics.NewSweeperMetrics(reg),
		Interval: cfg.Session.SweepInterval,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		JWTConfig: cfg.JWT,
		Delay:     cfg.Auth.Delay,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, catalog.Default(), ordersSvc, authService,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
		// Tracking streams stay open, so no write timeout.
		WriteTimeout: 0,
		IdleTimeout:  2 * time.Minute,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := sweeper.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(logCtx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
