package session

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/metrics"
)

const defaultSweepInterval = 5 * time.Minute

// SweeperParams configure the idle session sweeper.
type SweeperParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Metrics  *metrics.SweeperMetrics
	Interval time.Duration
}

// Sweeper evicts idle sessions on a fixed cadence.
type Sweeper struct {
	logg     *logger.Logger
	registry *Registry
	metrics  *metrics.SweeperMetrics
	interval time.Duration
}

func NewSweeper(params SweeperParams) (*Sweeper, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("registry required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		logg:     params.Logger,
		registry: params.Registry,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run sweeps until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "session sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns the number of evicted sessions.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	start := time.Now()
	evicted := s.registry.Sweep(ctx)
	duration := time.Since(start)
	s.metrics.ObservePass(duration, evicted)
	if evicted > 0 {
		sweepCtx := s.logg.WithFields(ctx, map[string]any{
			"evicted":     evicted,
			"remaining":   s.registry.Len(),
			"duration_ms": duration.Milliseconds(),
		})
		s.logg.Info(sweepCtx, "idle sessions evicted")
	}
	return evicted
}
