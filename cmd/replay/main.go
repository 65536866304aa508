package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/tracking"
	"github.com/angelmondragon/storefront-demo/pkg/config"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/maps"
	"github.com/joho/godotenv"
)

func main() {
	orderNumber := flag.String("order", "ORD123456", "order number to replay")
	timeout := flag.Duration("timeout", time.Minute, "give up after this long")
	flag.Parse()

	_ = godotenv.Load()
	logg := logger.New(logger.Options{
		ServiceName: "replay",
		Level:       logger.ParseLevel(os.Getenv(config.EnvPrefix + "_LOG_LEVEL")),
		Format:      logger.FormatConsole,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, logg, *orderNumber); err != nil {
		logg.Error(ctx, "replay failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, orderNumber string) error {
	ctx = logg.WithOrderNumber(ctx, orderNumber)

	surface := maps.NewSurface()
	commands, unsubscribe := surface.Subscribe(256)
	defer unsubscribe()

	engine, err := tracking.NewEngine(tracking.DefaultRoute(), surface,
		tracking.NewFrameClock(tracking.DefaultFrameInterval),
		tracking.WithOrderNumber(orderNumber),
		tracking.WithLogger(logg),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Attach(ctx); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for cmd := range commands {
			if cmd.Kind != maps.CommandMoveMarker || cmd.Marker == nil {
				continue
			}
			logg.Info(logg.WithFields(ctx, map[string]any{
				"lat": cmd.Marker.Position.Lat,
				"lng": cmd.Marker.Position.Lng,
			}), "frame")
		}
	}()

	start, err := engine.Play()
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "total_duration_ms", start.TotalDurationMs), "replay started")

	final, err := engine.Wait(ctx)
	unsubscribe()
	<-done
	if err != nil {
		return err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"status":        final.Status,
		"current_index": final.CurrentIndex,
	}), "replay finished")
	return nil
}
