// Package metrics holds Prometheus instruments that are used across the
// engine.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PublishTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "publish_total",
			Help: "Cumulative number of successful site publishes.",
		})

	PublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "publish_errors_total",
			Help: "Cumulative number of failed site publishes.",
		})

	VersionSnapshotTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "version_snapshot_total",
			Help: "Cumulative number of page versions captured.",
		})

	VersionRestoreTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "version_restore_total",
			Help: "Cumulative number of page restores.",
		})

	VersionPruneTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "version_prune_total",
			Help: "Cumulative number of versions hard-deleted by pruning.",
		})

	LiveCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "live_cache_hits_total",
			Help: "Live-deployment cache hits on the serving path.",
		})

	LiveCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "live_cache_misses_total",
			Help: "Live-deployment cache misses on the serving path.",
		})

	LiveSites = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_sites_cached",
			Help: "Number of live-deployment snapshots currently cached.",
		})

	PagesRenderedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pages_rendered_total",
			Help: "Cumulative number of public page renders (cache misses included).",
		})
)

func init() {
	prometheus.MustRegister(
		PublishTotal,
		PublishErrorsTotal,
		VersionSnapshotTotal,
		VersionRestoreTotal,
		VersionPruneTotal,
		LiveCacheHits,
		LiveCacheMisses,
		LiveSites,
		PagesRenderedTotal,
	)
}
