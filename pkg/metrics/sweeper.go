package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweeperMetrics records idle session eviction passes.
type SweeperMetrics struct {
	duration prometheus.Histogram
	evicted  prometheus.Counter
}

// NewSweeperMetrics registers the sweeper metrics on the provided registerer.
func NewSweeperMetrics(reg prometheus.Registerer) *SweeperMetrics {
	if reg == nil {
		return &SweeperMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_sweep_duration_seconds",
		Help:    "Duration of idle session sweeps in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_evicted_total",
		Help: "Shopper sessions evicted for inactivity.",
	})
	reg.MustRegister(duration, evicted)
	return &SweeperMetrics{duration: duration, evicted: evicted}
}

// ObservePass records one sweep and the number of sessions it evicted.
func (s *SweeperMetrics) ObservePass(duration time.Duration, evicted int) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.Observe(duration.Seconds())
	if evicted > 0 {
		s.evicted.Add(float64(evicted))
	}
}
