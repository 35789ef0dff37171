// Package observability carries the Prometheus instrumentation for sync runs.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	outcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strydcmd",
		Subsystem: "sync",
		Name:      "activities_total",
		Help:      "Number of activities handled per sync run, grouped by outcome.",
	}, []string{"outcome"})

	detailFetchSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "strydcmd",
		Subsystem: "sync",
		Name:      "detail_fetch_duration_seconds",
		Help:      "Latency of activity detail fetches from the vendor API.",
		Buckets:   prometheus.DefBuckets,
	})

	lastPersistedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "strydcmd",
		Subsystem: "persistence",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity written to the local store.",
	})
)

func init() {
	prometheus.MustRegister(outcomeCounter, detailFetchSeconds, lastPersistedGauge)
}

// RecordOutcome counts one per-activity outcome ("synced", "skipped", "failed").
func RecordOutcome(outcome string) {
	outcomeCounter.WithLabelValues(outcome).Inc()
}

// ObserveDetailFetch records the latency of one detail fetch.
func ObserveDetailFetch(d time.Duration) {
	detailFetchSeconds.Observe(d.Seconds())
}

// RecordActivityPersisted updates the persistence watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastPersistedGauge.Set(float64(ts.Unix()))
}
