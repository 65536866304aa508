package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ReplayOutcomeStarted  = "started"
	ReplayOutcomeStopped  = "stopped"
	ReplayOutcomeFinished = "finished"
	ReplayOutcomeFailed   = "failed"
)

// ReplayMetrics records shipment replay runs and rendered frames.
type ReplayMetrics struct {
	runs   *prometheus.CounterVec
	frames prometheus.Counter
}

// NewReplayMetrics registers the replay metrics on the provided registerer.
func NewReplayMetrics(reg prometheus.Registerer) *ReplayMetrics {
	if reg == nil {
		return &ReplayMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replay_runs_total",
		Help: "Shipment replay runs by outcome.",
	}, []string{"outcome"})
	frames := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replay_frames_total",
		Help: "Animation frames processed by replay engines.",
	})
	reg.MustRegister(runs, frames)
	return &ReplayMetrics{runs: runs, frames: frames}
}

func (r *ReplayMetrics) IncRun(outcome string) {
	if r == nil || r.runs == nil {
		return
	}
	r.runs.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (r *ReplayMetrics) IncFrame() {
	if r == nil || r.frames == nil {
		return
	}
	r.frames.Inc()
}
