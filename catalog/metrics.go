package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var snapshotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modelboard_snapshot_cache_hits_total",
	Help: "Model snapshot requests served from the fresh cache",
})

var snapshotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modelboard_snapshot_cache_misses_total",
	Help: "Model snapshot requests that required an upstream refresh",
})

var snapshotStaleServed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modelboard_snapshot_stale_served_total",
	Help: "Model snapshot requests served stale after an upstream failure",
})

var upstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modelboard_upstream_fetches_total",
	Help: "Upstream model API fetch attempts",
}, []string{"status"})

var upstreamFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "modelboard_upstream_fetch_duration_seconds",
	Help:    "Time to fetch and normalize the upstream model list",
	Buckets: prometheus.ExponentialBucketsRange(0.01, 30, 15),
})
