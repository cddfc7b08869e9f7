package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GrowthMetrics records instrumentation for the order growth map engine.
type GrowthMetrics struct {
	foldDuration   *prometheus.HistogramVec
	framesBuilt    *prometheus.CounterVec
	bucketsSkipped prometheus.Counter
	activeSessions prometheus.Gauge
}

// NewGrowthMetrics registers the growth engine metrics on the provided registerer.
func NewGrowthMetrics(reg prometheus.Registerer) *GrowthMetrics {
	if reg == nil {
		return &GrowthMetrics{}
	}
	foldDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "growth_fold_duration_seconds",
		Help:    "Duration of day-bucket folds into animation frames.",
		Buckets: prometheus.DefBuckets,
	}, []string{"division"})
	framesBuilt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_frames_built_total",
		Help: "Animation frames produced by the aggregator.",
	}, []string{"division"})
	bucketsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "growth_buckets_skipped_total",
		Help: "Day buckets dropped because of malformed dates.",
	})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "growth_playback_sessions",
		Help: "Playback sessions currently held in memory.",
	})
	reg.MustRegister(foldDuration, framesBuilt, bucketsSkipped, activeSessions)
	return &GrowthMetrics{
		foldDuration:   foldDuration,
		framesBuilt:    framesBuilt,
		bucketsSkipped: bucketsSkipped,
		activeSessions: activeSessions,
	}
}

// ObserveFold records a completed aggregation pass.
func (m *GrowthMetrics) ObserveFold(division string, d time.Duration, frames int) {
	if m == nil || m.foldDuration == nil {
		return
	}
	if division == "" {
		division = "all"
	}
	m.foldDuration.WithLabelValues(division).Observe(d.Seconds())
	m.framesBuilt.WithLabelValues(division).Add(float64(frames))
}

// IncSkippedBucket counts a malformed bucket dropped by the aggregator.
func (m *GrowthMetrics) IncSkippedBucket() {
	if m == nil || m.bucketsSkipped == nil {
		return
	}
	m.bucketsSkipped.Inc()
}

// SetActiveSessions tracks the playback session gauge.
func (m *GrowthMetrics) SetActiveSessions(n int) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
