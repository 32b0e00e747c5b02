// Package metrics exposes Prometheus counters/histograms for the convert
// HTTP server: per-backend conversion counts and latency, registered on
// the server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConversionsTotal counts conversions by target backend and outcome
// ("ok" or "error").
var ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sigmac_conversions_total",
	Help: "Total number of Sigma rule conversions, by target backend and outcome.",
}, []string{"target", "outcome"})

// ConversionDuration tracks conversion latency by target backend.
var ConversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "sigmac_conversion_duration_seconds",
	Help:    "Time spent converting a single Sigma rule, by target backend.",
	Buckets: prometheus.DefBuckets,
}, []string{"target"})

// CacheHitsTotal counts query-cache hits/misses.
var CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sigmac_cache_hits_total",
	Help: "Total number of query-cache lookups, by result (hit/miss).",
}, []string{"result"})
