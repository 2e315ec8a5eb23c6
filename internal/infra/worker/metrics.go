package worker

import (
	"news-hub/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WarmerMetrics adds warm-up run metrics to the warmer's configuration metrics.
// Run outcomes are counted by the aggregator itself (cache_warm_runs_total).
//
// NewWarmerMetrics registers with the default registry and must be called once per process.
type WarmerMetrics struct {
	*config.ConfigMetrics

	RunDurationSeconds   prometheus.Histogram
	ArticlesWarmed       prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
	SkippedRunsTotal     prometheus.Counter
}

// NewWarmerMetrics creates and registers the warmer metrics.
func NewWarmerMetrics() *WarmerMetrics {
	return &WarmerMetrics{
		ConfigMetrics: config.NewConfigMetrics("cache_warmer"),
		RunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_warmer_run_duration_seconds",
			Help:    "Duration of cache warm-up runs",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ArticlesWarmed: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cache_warmer_articles",
			Help: "Distinct articles returned by the last warm-up run",
		}),
		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cache_warmer_last_success_timestamp",
			Help: "Unix timestamp of the last warm-up run with at least one answering provider",
		}),
		SkippedRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cache_warmer_skipped_runs_total",
			Help: "Scheduled runs skipped because the previous run was still in progress",
		}),
	}
}

func (m *WarmerMetrics) recordRun(seconds float64, articles int, ok bool) {
	if m == nil {
		return
	}
	m.RunDurationSeconds.Observe(seconds)
	m.ArticlesWarmed.Set(float64(articles))
	if ok {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

func (m *WarmerMetrics) recordSkip() {
	if m == nil {
		return
	}
	m.SkippedRunsTotal.Inc()
}
